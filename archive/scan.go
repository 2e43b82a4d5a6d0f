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

package archive

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/zarc-project/zarc/block"
)

// headerOnlySize is the number of bytes ReadBlock consumes before the
// file-count field — every fixed-width field up to and including
// Created. Scanning only needs the header, never the manifest or
// payload, so it can seek past both without decoding them.
const headerOnlySize = 8 + 8 + 4 + 4 + 1 + 1 + 2 + 2 + 2 + 8

// Info summarizes an existing archive without reading any block's
// payload: the version it was written with, every block's header (no
// payload), and the byte offset of its terminator record.
type Info struct {
	Version         block.Version
	Blocks          []*block.Block
	TerminatorOffset int64
}

// Scan reads every block header in the archive at path, seeking past
// each payload instead of decoding it. It is the read path shared by
// List, Append (to find the next free block id and the terminator's
// offset), and FindFile.
func Scan(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &RuntimeError{Kind: ErrFileNotFound, Path: path, Err: err}
	}
	defer f.Close()

	info := &Info{}
	var pos int64

	for {
		blk, n, err := readHeaderAt(f, pos)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &RuntimeError{Kind: ErrIO, Path: path, Err: err}
		}
		if blk.IsTerminator() {
			info.TerminatorOffset = pos
			break
		}

		info.Version = blk.Version
		info.Blocks = append(info.Blocks, blk)

		pos += n + int64(blk.SizeOut)
		if _, err := f.Seek(pos, io.SeekStart); err != nil {
			return nil, &RuntimeError{Kind: ErrIO, Path: path, Err: err}
		}
	}

	return info, nil
}

// readHeaderAt reads one block's header and manifest (but not its
// payload) starting at pos, returning the block, the number of bytes
// consumed, and io.EOF once the file is exhausted before a full header
// can be read.
func readHeaderAt(f *os.File, pos int64) (*block.Block, int64, error) {
	if _, err := f.Seek(pos, io.SeekStart); err != nil {
		return nil, 0, err
	}

	hdr := make([]byte, headerOnlySize)
	if _, err := io.ReadFull(f, hdr); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return nil, 0, io.EOF
		}
		return nil, 0, err
	}

	blk := &block.Block{}
	r := &sliceReader{b: hdr}
	fields := []interface{}{
		&blk.SizeOut, &blk.SizeIn, &blk.Checksum, &blk.ID,
		&blk.Method, &blk.Memory,
		&blk.Version.Major, &blk.Version.Minor, &blk.Version.Patch,
		&blk.Created,
	}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return nil, 0, err
		}
	}

	n := int64(len(hdr))
	if blk.IsTerminator() {
		return blk, n, nil
	}

	var numFiles uint64
	if err := binary.Read(f, binary.LittleEndian, &numFiles); err != nil {
		return nil, 0, err
	}
	n += 8

	for i := uint64(0); i < numFiles; i++ {
		path, fileLen, err := readManifestEntry(f)
		if err != nil {
			return nil, 0, err
		}
		n += fileLen
		blk.Files = append(blk.Files, path)
	}

	return blk, n, nil
}

// readManifestEntry reads one NUL-terminated path followed by its four
// uint64 fields, returning the decoded record and the number of bytes
// consumed.
func readManifestEntry(f *os.File) (block.FileRecord, int64, error) {
	var pathBytes []byte
	buf := make([]byte, 1)
	for {
		if _, err := io.ReadFull(f, buf); err != nil {
			return block.FileRecord{}, 0, err
		}
		if buf[0] == 0 {
			break
		}
		pathBytes = append(pathBytes, buf[0])
	}

	var totalLen, segStart, segEnd, fileOff uint64
	for _, dst := range []*uint64{&totalLen, &segStart, &segEnd, &fileOff} {
		if err := binary.Read(f, binary.LittleEndian, dst); err != nil {
			return block.FileRecord{}, 0, err
		}
	}

	n := int64(len(pathBytes)) + 1 + 32
	return block.FileRecord{
		Path:         string(pathBytes),
		TotalLength:  totalLen,
		SegmentStart: segStart,
		SegmentEnd:   segEnd,
		FileOffset:   fileOff,
	}, n, nil
}

// sliceReader is a minimal io.Reader over an in-memory header buffer,
// so the fixed-width header fields can be decoded with binary.Read
// without a bufio wrapper.
type sliceReader struct {
	b   []byte
	pos int
}

func (r *sliceReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.pos:])
	r.pos += n
	return n, nil
}

// FindFile returns the id of the first block whose manifest mentions
// path, or ok=false if no block does.
func FindFile(archivePath, path string) (id uint32, ok bool, err error) {
	info, err := Scan(archivePath)
	if err != nil {
		return 0, false, err
	}
	for _, blk := range info.Blocks {
		for _, fr := range blk.Files {
			if fr.Path == path {
				return blk.ID, true, nil
			}
		}
	}
	return 0, false, nil
}

// BlockCount returns the number of non-terminator blocks in an archive.
func BlockCount(archivePath string) (int, error) {
	info, err := Scan(archivePath)
	if err != nil {
		return 0, err
	}
	return len(info.Blocks), nil
}
