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

// Package cm implements the context-mixing bit predictor: per-order state
// maps, the associative hash table that backs orders above 1, the long-range
// match model, the logistic mixer, and the two APM refinement stages.
package cm

// handle names which backing byte array a stateRef addresses. The predictor
// owns exactly two such arrays: the fixed 64KB order-1 table and the shared
// associative hash table used by every higher order. A stateRef never holds
// a raw pointer into either array — only a handle and an offset — so a
// mistaken advance lands on a bounds-checked index instead of undefined
// memory, unlike the original predictor's raw *mut u8 context pointers.
type handle uint8

const (
	handleOrder1 handle = iota
	handleHash
)

// stateRef is a safe replacement for a raw bit-history pointer: a table
// selector plus a byte offset into that table. Advancing a stateRef by N
// bytes (moving to a sibling nibble/bit slot within the same 16-byte state
// array) is just offset arithmetic; dereferencing always goes through the
// owning predictor, which bounds-checks against the real slice.
type stateRef struct {
	h   handle
	off int
}

func (r stateRef) advance(n int) stateRef {
	return stateRef{h: r.h, off: r.off + n}
}
