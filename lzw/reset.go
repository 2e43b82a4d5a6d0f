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

package lzw

// resetTable is the encoder-side dictionary for the reset strategy: a
// single FNV-1a hashed slot per string, with no probing. A collision
// simply overwrites the slot unless doing so would orphan a code the
// encoder is about to reference (the string it just emitted a code for).
type resetTable struct {
	codes   []uint32
	strings [][]byte
	prev    int
	code    uint32
	maxCode uint32
}

func newResetTable(size int) *resetTable {
	t := &resetTable{
		codes:   make([]uint32, size),
		strings: make([][]byte, size),
		code:    1,
		maxCode: uint32(size),
	}
	t.reset()
	return t
}

func (t *resetTable) hash(s []byte) int {
	h := uint64(2166136261)
	for _, b := range s {
		h ^= uint64(b)
		h *= 16777619
	}
	return int(h) & (len(t.codes) - 1)
}

// get looks up s, remembering its slot so a subsequent insert of a
// different string won't evict it out from under an code the caller is
// about to emit.
func (t *resetTable) get(s []byte) (uint32, bool) {
	h := t.hash(s)
	if t.codes[h] != 0 && bytesEqual(t.strings[h], s) {
		t.prev = h
		return t.codes[h], true
	}
	t.insert(s, h)
	return 0, false
}

func (t *resetTable) insert(s []byte, h int) {
	if t.codes[h] != 0 {
		if t.codes[h] > 259 && h != t.prev && len(s) < 31 {
			t.codes[h] = t.code
			t.strings[h] = append([]byte(nil), s...)
		}
	} else if len(s) < 31 {
		t.codes[h] = t.code
		t.strings[h] = append([]byte(nil), s...)
	}
	// Increment unconditionally so the decoder's code counter stays in
	// sync even when a collision discards the insert.
	t.code++
}

func (t *resetTable) reset() {
	t.code = 1
	for i := range t.codes {
		t.codes[i] = 0
	}
	for i := 0; i < 256; i++ {
		h := t.hash([]byte{byte(i)})
		t.codes[h] = t.code
		t.strings[h] = []byte{byte(i)}
		t.code++
	}
	t.code += 3
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type resetDict struct {
	table  *resetTable
	string []byte
	stream *codeWriter
}

func newResetDict(first byte, mem int) *resetDict {
	return &resetDict{
		table:  newResetTable(mem / 4),
		string: []byte{first},
		stream: newCodeWriter(),
	}
}

func (d *resetDict) containsString() bool {
	_, ok := d.table.get(d.string)
	return ok
}

func (d *resetDict) outputCode() {
	last := d.string[len(d.string)-1]
	code, _ := d.table.get(d.string[:len(d.string)-1])
	d.stream.write(code)

	d.string = d.string[:0]
	d.string = append(d.string, last)

	if d.table.code == 1<<d.stream.codeLen {
		d.stream.write(lenUp)
	}
	if d.table.code >= d.table.maxCode {
		d.stream.write(codeReset)
		d.table.reset()
	}
}

func (d *resetDict) outputLastCode() {
	if len(d.string) > 0 {
		code, _ := d.table.get(d.string)
		d.stream.write(code)
	}
	d.stream.write(dataEnd)
}

// CompressReset compresses in using the reset dictionary strategy: the
// entire dictionary is thrown away and re-seeded with the 256 single-byte
// entries whenever the code space fills up.
func CompressReset(in []byte, mem int) []byte {
	if len(in) == 0 {
		return nil
	}
	dict := newResetDict(in[0], mem)
	pos := 1

	for {
		for dict.containsString() {
			if pos >= len(in) {
				dict.outputLastCode()
				return dict.stream.out
			}
			dict.string = append(dict.string, in[pos])
			pos++
		}
		dict.outputCode()
	}
}

// resetDecodeTable is the decoder-side mirror of resetTable: codes map
// directly to strings stored in one flat byte buffer, each entry packing
// its length into the top 5 bits of the stored code.
type resetDecodeTable struct {
	strings []byte
	codes   []uint32
	code    uint32
	maxCode uint32
}

func newResetDecodeTable(size int) *resetDecodeTable {
	t := &resetDecodeTable{
		codes:   make([]uint32, size),
		code:    1,
		maxCode: uint32(size),
	}
	t.reset()
	return t
}

func (t *resetDecodeTable) get(code uint32) ([]byte, bool) {
	if t.codes[code] == 0 {
		return nil, false
	}
	pos := t.codes[code] & 0x07FFFFFF
	ln := t.codes[code] >> 27
	return t.strings[pos : pos+ln], true
}

func (t *resetDecodeTable) insert(code uint32, s []byte) {
	t.codes[code] = (uint32(len(s)) << 27) + uint32(len(t.strings))
	t.strings = append(t.strings, s...)
	t.code++
}

func (t *resetDecodeTable) reset() {
	t.code = 1
	t.strings = t.strings[:0]
	for i := range t.codes {
		t.codes[i] = 0
	}
	for i := 0; i < 256; i++ {
		t.insert(t.code, []byte{byte(i)})
	}
	t.code += 3
}

type resetDecodeDict struct {
	table  *resetDecodeTable
	string []byte
	out    []byte
}

func newResetDecodeDict(mem int) *resetDecodeDict {
	return &resetDecodeDict{table: newResetDecodeTable(mem / 4)}
}

func (d *resetDecodeDict) outputString(code uint32) {
	s, ok := d.table.get(code)
	if !ok {
		// Classic LZW edge case: the code is the one about to be defined
		// by this very output, so it is always the previous string plus
		// its own first byte.
		d.string = append(d.string, d.string[0])
		d.table.insert(code, append([]byte(nil), d.string...))
	} else if len(d.string) > 0 {
		d.string = append(d.string, s[0])
		d.table.insert(d.table.code, append([]byte(nil), d.string...))
	}

	s, _ = d.table.get(code)
	d.out = append(d.out, s...)
	d.string = append([]byte(nil), s...)

	if d.table.code >= d.table.maxCode {
		d.table.reset()
	}
}

// DecompressReset reverses CompressReset.
func DecompressReset(in []byte, mem int) []byte {
	if len(in) == 0 {
		return nil
	}
	dict := newResetDecodeDict(mem)
	r := newCodeReader(in)

	for {
		code, ok := r.getCode()
		if !ok {
			break
		}
		switch code {
		case dataEnd:
			return dict.out
		case lenUp:
			r.codeLen++
		case codeReset:
			r.codeLen = startCodeLen
		default:
			dict.outputString(code)
		}
	}
	return dict.out
}
