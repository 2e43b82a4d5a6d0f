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

// Package lzw implements the dictionary codec: a shared variable-width
// packed code stream plus two dictionary strategies (reset and cull) that
// trade simplicity for memory locality once the dictionary fills.
package lzw

// Reserved codes, outside the byte range [0, 255] so they can never
// collide with a literal single-byte dictionary entry.
const (
	dataEnd  uint32 = 256 // marks the end of a block's code stream
	lenUp    uint32 = 257 // code width is about to grow by one bit
	codeReset uint32 = 258 // dictionary was fully reset, code width back to 9
	cullCode uint32 = 260 // dictionary was culled, code width recomputed
)

const startCodeLen = 9
