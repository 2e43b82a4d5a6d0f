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

// entry is one cull-strategy dictionary slot: a code and use-count packed
// into one word (top 5 bits count, low 27 bits code) alongside the string
// it maps to, so recently-useless entries can be identified for eviction
// without a separate parallel array.
type entry struct {
	code   uint32
	string []byte
}

func newEntry(code uint32, s []byte) entry {
	return entry{code: code, string: s}
}

func (e entry) codeOf() uint32   { return e.code & 0x07FFFFFF }
func (e entry) count() uint32    { return e.code >> 27 }
func (e entry) isEmpty() bool    { return e.code == 0 }

func (e *entry) increaseCount() {
	if e.count() < 31 {
		e.code += 1 << 27
	}
}

func (e *entry) clear() {
	e.code = 0
	e.string = nil
}

// cullPolicy decides whether an entry should be dropped during a cull
// pass: an entry survives unless it was barely used (count below
// minCount) and is older than the recency cutoff (a lower code number
// than recent) — well-used entries and the newest entries are both kept.
type cullPolicy struct {
	minCount uint32
	recent   uint32
	max      uint32
}

func (c cullPolicy) shouldCull(e entry) bool {
	return e.count() < c.minCount && e.codeOf() < c.recent && e.codeOf() > 260
}
