/*
Copyright 2011-2025 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package pipeline runs the block-parallel compress/decompress pipeline:
// a fixed pool of workers codes blocks concurrently and out of order, a
// block.Queue restores strict ascending-id order, and a single writer
// goroutine drains the queue to the archive's output stream.
package pipeline

import (
	"fmt"
	"hash/crc32"

	"github.com/zarc-project/zarc/block"
	"github.com/zarc-project/zarc/cm"
	"github.com/zarc-project/zarc/lzw"
	"github.com/zarc-project/zarc/rangecoder"
)

// CompressJob is one unit of compress-side work: a chunk of the input
// stream, the method chosen for it, and the manifest entries it covers.
type CompressJob struct {
	ID       uint32
	Data     []byte
	Method   block.Method
	Level    int
	Strategy lzw.Strategy
	Files    []block.FileRecord
	Created  uint64
}

// DecompressJob is one unit of decompress-side work: a block already
// read from the archive, plus the settings needed to reverse its method.
type DecompressJob struct {
	Blk      *block.Block
	Level    int
	Strategy lzw.Strategy
}

// VersionError reports a block stamped by an incompatible writer.
type VersionError struct {
	ID   uint32
	Have block.Version
	Want block.Version
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("block %d: version %d.%d.%d is incompatible with %d.%d.%d",
		e.ID, e.Have.Major, e.Have.Minor, e.Have.Patch, e.Want.Major, e.Want.Minor, e.Want.Patch)
}

// ChecksumError reports a block whose decoded payload does not match the
// CRC-32 recorded when it was written — the archive is corrupt, or the
// wrong memory level / LZW strategy was supplied for it.
type ChecksumError struct {
	ID   uint32
	Want uint32
	Got  uint32
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("block %d: checksum mismatch: archive says %#08x, decoded data is %#08x", e.ID, e.Want, e.Got)
}

// compress runs one compress job through its chosen codec and returns
// the finished, self-describing block.
func compress(job CompressJob) (*block.Block, error) {
	var payload []byte

	switch job.Method {
	case block.MethodStore:
		payload = job.Data
	case block.MethodLZW:
		payload = lzw.Compress(job.Data, job.Strategy, cm.MemUnit(job.Level))
	case block.MethodCM:
		enc := rangecoder.NewEncoder(job.Level, len(job.Data))
		payload = enc.CompressBlock(job.Data)
	default:
		return nil, fmt.Errorf("block %d: unknown method %d", job.ID, job.Method)
	}

	return &block.Block{
		SizeOut:  uint64(len(payload)),
		SizeIn:   uint64(len(job.Data)),
		Checksum: crc32.ChecksumIEEE(job.Data),
		ID:       job.ID,
		Method:   job.Method,
		Memory:   uint8(job.Level),
		Version:  block.CurrentVersion,
		Created:  job.Created,
		Files:    job.Files,
		Payload:  payload,
	}, nil
}

// decompress runs one decompress job through its codec, verifies the
// block's version and checksum, and returns a copy of blk with Payload
// replaced by the original bytes.
func decompress(job DecompressJob) (*block.Block, error) {
	blk := job.Blk
	if !blk.Version.Equal(block.CurrentVersion) {
		return nil, &VersionError{ID: blk.ID, Have: blk.Version, Want: block.CurrentVersion}
	}

	var data []byte
	switch blk.Method {
	case block.MethodStore:
		data = blk.Payload
	case block.MethodLZW:
		data = lzw.Decompress(blk.Payload, job.Strategy, cm.MemUnit(job.Level))
	case block.MethodCM:
		dec := rangecoder.NewDecoder(blk.Payload, job.Level)
		data = dec.DecompressBlock(int(blk.SizeIn))
	default:
		return nil, fmt.Errorf("block %d: unknown method %d", blk.ID, blk.Method)
	}

	if got := crc32.ChecksumIEEE(data); got != blk.Checksum {
		return nil, &ChecksumError{ID: blk.ID, Want: blk.Checksum, Got: got}
	}

	out := *blk
	out.Payload = data
	out.SizeOut = uint64(len(data))
	return &out, nil
}
