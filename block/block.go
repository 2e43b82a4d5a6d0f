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

// Package block defines the archive's atomic on-disk unit: a
// self-describing record of a compressed payload, the files it covers,
// and enough metadata for a decoder to reproduce the predictor and
// dictionary state the encoder used, independent of every other block.
// The one exception is the LZW dictionary strategy (reset or cull): it is
// not recorded in the block, and the decoder takes it from its caller.
package block

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Method names which codec produced a block's payload.
type Method uint8

const (
	MethodCM Method = iota
	MethodLZW
	MethodStore
)

// Version is the writer's version, stamped per block so a reader can
// reject a block from an incompatible major.minor release.
type Version struct {
	Major, Minor, Patch uint16
}

// Equal compares major and minor only, matching the archive's
// compatibility rule: patch releases never change the wire format.
func (v Version) Equal(o Version) bool {
	return v.Major == o.Major && v.Minor == o.Minor
}

// CurrentVersion is stamped on every block this package writes.
var CurrentVersion = Version{Major: 0, Minor: 1, Patch: 0}

// FileRecord is one manifest entry: the member file's path and the byte
// range of it carried by this block. A file spanning several blocks gets
// one record per block; a block spanning several files gets one record
// per file. SegmentStart/SegmentEnd locate the file's bytes within this
// block's own decoded payload; FileOffset locates the same bytes within
// the original file — the two coincide only when the file happens to
// start at the beginning of a block.
type FileRecord struct {
	Path         string
	TotalLength  uint64
	SegmentStart uint64
	SegmentEnd   uint64
	FileOffset   uint64
}

// Block is the atomic, self-describing unit of the archive.
type Block struct {
	SizeOut  uint64
	SizeIn   uint64
	Checksum uint32
	ID       uint32
	Method   Method
	Memory   uint8
	Version  Version
	Created  uint64
	Files    []FileRecord
	Payload  []byte
}

// IsTerminator reports whether b is the archive's closing zero-size
// record.
func (b *Block) IsTerminator() bool {
	return b.SizeOut == 0
}

// Terminator builds the archive's closing record.
func Terminator(id uint32) *Block {
	return &Block{ID: id, Version: CurrentVersion}
}

// WriteTo serializes b in the little-endian, fixed field order fixed by
// the archive format, including its NUL-terminated manifest paths.
func (b *Block) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64

	fields := []interface{}{
		b.SizeOut, b.SizeIn, b.Checksum, b.ID,
		b.Method, b.Memory,
		b.Version.Major, b.Version.Minor, b.Version.Patch,
		b.Created,
	}
	for _, f := range fields {
		if err := binary.Write(bw, binary.LittleEndian, f); err != nil {
			return n, err
		}
		n += int64(binary.Size(f))
	}

	if err := binary.Write(bw, binary.LittleEndian, uint64(len(b.Files))); err != nil {
		return n, err
	}
	n += 8
	for _, fr := range b.Files {
		k, err := bw.WriteString(fr.Path)
		n += int64(k)
		if err != nil {
			return n, err
		}
		if err := bw.WriteByte(0); err != nil {
			return n, err
		}
		n++
		for _, v := range []uint64{fr.TotalLength, fr.SegmentStart, fr.SegmentEnd, fr.FileOffset} {
			if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
				return n, err
			}
			n += 8
		}
	}

	if len(b.Payload) > 0 {
		k, err := bw.Write(b.Payload)
		n += int64(k)
		if err != nil {
			return n, err
		}
	}

	if err := bw.Flush(); err != nil {
		return n, err
	}
	return n, nil
}

// ReadBlock deserializes one block from br. io.EOF with zero bytes read
// signals the caller has scanned past the terminator and reached the end
// of the archive file. br is the caller's own buffered reader over the
// archive stream: ReadBlock never wraps it in a second bufio.Reader, so
// repeated calls over the same br stay correctly positioned for the next
// block's header.
func ReadBlock(br *bufio.Reader) (*Block, error) {
	b := &Block{}

	if err := binary.Read(br, binary.LittleEndian, &b.SizeOut); err != nil {
		return nil, err
	}
	if err := binary.Read(br, binary.LittleEndian, &b.SizeIn); err != nil {
		return nil, err
	}
	if err := binary.Read(br, binary.LittleEndian, &b.Checksum); err != nil {
		return nil, err
	}
	if err := binary.Read(br, binary.LittleEndian, &b.ID); err != nil {
		return nil, err
	}
	if err := binary.Read(br, binary.LittleEndian, &b.Method); err != nil {
		return nil, err
	}
	if err := binary.Read(br, binary.LittleEndian, &b.Memory); err != nil {
		return nil, err
	}
	if err := binary.Read(br, binary.LittleEndian, &b.Version.Major); err != nil {
		return nil, err
	}
	if err := binary.Read(br, binary.LittleEndian, &b.Version.Minor); err != nil {
		return nil, err
	}
	if err := binary.Read(br, binary.LittleEndian, &b.Version.Patch); err != nil {
		return nil, err
	}
	if err := binary.Read(br, binary.LittleEndian, &b.Created); err != nil {
		return nil, err
	}

	if b.IsTerminator() {
		return b, nil
	}

	var numFiles uint64
	if err := binary.Read(br, binary.LittleEndian, &numFiles); err != nil {
		return nil, err
	}

	for i := uint64(0); i < numFiles; i++ {
		path, err := br.ReadString(0)
		if err != nil {
			return nil, fmt.Errorf("reading manifest path: %w", err)
		}
		path = path[:len(path)-1] // drop the NUL terminator

		var totalLen, segStart, segEnd, fileOff uint64
		for _, dst := range []*uint64{&totalLen, &segStart, &segEnd, &fileOff} {
			if err := binary.Read(br, binary.LittleEndian, dst); err != nil {
				return nil, err
			}
		}
		b.Files = append(b.Files, FileRecord{
			Path:         path,
			TotalLength:  totalLen,
			SegmentStart: segStart,
			SegmentEnd:   segEnd,
			FileOffset:   fileOff,
		})
	}

	b.Payload = make([]byte, b.SizeOut)
	if _, err := io.ReadFull(br, b.Payload); err != nil {
		return nil, fmt.Errorf("reading block %d payload: %w", b.ID, err)
	}

	return b, nil
}
