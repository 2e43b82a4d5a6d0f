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

import "sort"

// probeDist bounds the probe sequence for an open slot (or an existing
// matching string) on a hash collision. The probes visit h^1 ..
// h^(probeDist-1), the other slots of the aligned probeDist-slot group
// that holds the primary slot h; they do not step linearly past h.
const probeDist = 128

// cullTable is the encoder-side dictionary for the cull strategy: an
// open-addressed hash table of entries that, instead of resetting
// wholesale when full, prunes its least useful entries and renumbers
// the survivors, keeping frequently reused strings alive across the
// prune.
type cullTable struct {
	entries []entry
	code    uint32
	policy  cullPolicy
}

func newCullTable(size uint32, policy cullPolicy) *cullTable {
	t := &cullTable{
		entries: make([]entry, size),
		code:    1,
		policy:  policy,
	}
	for i := 0; i < 256; i++ {
		t.insert([]byte{byte(i)}, t.code)
	}
	t.code += 4
	return t
}

func (t *cullTable) hash(s []byte) int {
	h := uint64(2166136261)
	for _, b := range s {
		h ^= uint64(b)
		h *= 16777619
	}
	return int(h) & (len(t.entries) - 1)
}

// getEntry returns a pointer to the live entry for s, probing the other
// slots of the primary slot's probeDist-slot group on a collision.
func (t *cullTable) getEntry(s []byte) *entry {
	h := t.hash(s)
	if !t.entries[h].isEmpty() {
		if bytesEqual(t.entries[h].string, s) {
			return &t.entries[h]
		}
		for i := 1; i < probeDist; i++ {
			adj := (h ^ i) % len(t.entries)
			if bytesEqual(t.entries[adj].string, s) {
				return &t.entries[adj]
			}
		}
	}
	return nil
}

func (t *cullTable) insert(s []byte, code uint32) {
	h := t.hash(s)
	if t.entries[h].isEmpty() {
		t.entries[h] = newEntry(code, s)
	} else {
		for i := 1; i < probeDist; i++ {
			adj := (h ^ i) % len(t.entries)
			if t.entries[adj].isEmpty() {
				t.entries[adj] = newEntry(code, s)
				break
			}
		}
		// If no adjacent slot was free, the string is silently dropped;
		// the encoder falls back to re-emitting it byte by byte next
		// time, same as any other dictionary miss.
	}
	t.code++
}

func (t *cullTable) reset() {
	t.code = 261
	for i := range t.entries {
		if t.entries[i].codeOf() > 260 {
			t.entries[i].clear()
		}
	}
}

// cull prunes entries the policy rejects, then renumbers every surviving
// non-reserved entry starting at 261.
func (t *cullTable) cull() {
	live := make([]entry, 0, len(t.entries))
	for _, e := range t.entries {
		if !e.isEmpty() && e.codeOf() > 260 {
			live = append(live, e)
		}
	}
	sort.Slice(live, func(i, j int) bool { return live[i].codeOf() < live[j].codeOf() })

	t.reset()

	kept := live[:0]
	for _, e := range live {
		if !t.policy.shouldCull(e) {
			kept = append(kept, e)
		}
	}
	for _, e := range kept {
		t.insert(e.string, t.code)
	}
}

func nextPow2Log2(n uint32) uint32 {
	p := uint32(1)
	k := uint32(0)
	for p < n {
		p <<= 1
		k++
	}
	return k
}

type cullDict struct {
	table  *cullTable
	string []byte
}

func newCullDict(size uint32, policy cullPolicy) *cullDict {
	return &cullDict{table: newCullTable(size, policy)}
}

// CompressCull compresses in using the cull dictionary strategy: the
// dictionary prunes and renumbers itself in place once it fills, rather
// than discarding everything as the reset strategy does.
func CompressCull(in []byte, mem int) []byte {
	if len(in) == 0 {
		return nil
	}
	size := uint32(mem) / 4
	max := uint32(float64(size) * 0.4)
	policy := cullPolicy{minCount: 1, recent: max - 1, max: max}
	dict := newCullDict(size, policy)
	stream := newCodeWriter()

	for _, b := range in {
		dict.string = append(dict.string, b)

		if dict.table.getEntry(dict.string) == nil {
			dict.table.insert(append([]byte(nil), dict.string...), dict.table.code)
			stream.write(dict.outputCode())

			if dict.table.code >= dict.table.policy.max {
				stream.write(cullCode)
				dict.table.cull()
				stream.codeLen = nextPow2Log2(dict.table.code)
			}
			if dict.table.code == 1<<stream.codeLen {
				stream.write(lenUp)
			}
		}
	}

	if e := dict.table.getEntry(dict.string); e != nil {
		e.increaseCount()
		stream.write(e.codeOf())
	}
	stream.write(dataEnd)
	return stream.out
}

func (d *cullDict) outputCode() uint32 {
	last := d.string[len(d.string)-1]
	d.string = d.string[:len(d.string)-1]
	e := d.table.getEntry(d.string)
	e.increaseCount()
	code := e.codeOf()

	d.string = d.string[:0]
	d.string = append(d.string, last)
	return code
}

// cullDecodeDict is the decoder-side mirror of cullDict: entries are
// addressed directly by code rather than hashed, since the decoder always
// learns a code before it needs to look it up.
type cullDecodeDict struct {
	entries []entry
	code    uint32
	policy  cullPolicy
	string  []byte
	out     []byte
}

func newCullDecodeDict(size uint32, policy cullPolicy) *cullDecodeDict {
	d := &cullDecodeDict{entries: make([]entry, size), code: 1, policy: policy}
	for i := 0; i < 256; i++ {
		d.insert(d.code, []byte{byte(i)})
	}
	d.code += 4
	return d
}

func (d *cullDecodeDict) getEntry(code uint32) *entry {
	e := &d.entries[code]
	if !e.isEmpty() {
		e.increaseCount()
		return e
	}
	return nil
}

func (d *cullDecodeDict) insert(code uint32, s []byte) {
	d.entries[code] = newEntry(code, s)
	d.code++
}

func (d *cullDecodeDict) reset() {
	d.code = 261
	for i := range d.entries {
		if d.entries[i].codeOf() > 260 {
			d.entries[i].clear()
		}
	}
}

func (d *cullDecodeDict) cull() {
	live := make([]entry, 0, len(d.entries))
	for _, e := range d.entries {
		if !e.isEmpty() && e.codeOf() > 260 {
			live = append(live, e)
		}
	}
	sort.Slice(live, func(i, j int) bool { return live[i].codeOf() < live[j].codeOf() })

	d.reset()

	kept := live[:0]
	for _, e := range live {
		if !d.policy.shouldCull(e) {
			kept = append(kept, e)
		}
	}
	for _, e := range kept {
		d.insert(d.code, e.string)
	}
}

func (d *cullDecodeDict) outputString(code uint32) {
	if e := d.getEntry(code); e != nil {
		s := append([]byte(nil), e.string...)
		if len(d.string) > 0 {
			d.string = append(d.string, s[0])
			d.insert(d.code, append([]byte(nil), d.string...))
		}
		d.out = append(d.out, s...)
		d.string = s
		return
	}

	// code is the one about to be defined by this very output.
	d.string = append(d.string, d.string[0])
	d.insert(code, append([]byte(nil), d.string...))
	e := d.getEntry(code)
	s := append([]byte(nil), e.string...)
	d.out = append(d.out, s...)
	d.string = s
}

// DecompressCull reverses CompressCull.
func DecompressCull(in []byte, mem int) []byte {
	if len(in) == 0 {
		return nil
	}
	size := uint32(mem) / 4
	max := uint32(float64(size) * 0.4)
	policy := cullPolicy{minCount: 1, recent: max - 1, max: max}
	dict := newCullDecodeDict(size, policy)
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
		case cullCode:
			dict.cull()
			r.codeLen = nextPow2Log2(dict.code + 1)
		default:
			dict.outputString(code)
		}
	}
	return dict.out
}
