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

package cm

import "github.com/zarc-project/zarc/internal/tables"

// Number of context orders mixed per bit: order-1, 2, 3, 4, 6, and the
// lowercase-word context. The mixer takes one further input directly from
// the match model, for seven inputs total.
const numOrders = 6

const (
	ordO1 = iota
	ordO2
	ordO3
	ordO4
	ordO6
	ordWord
)

const mixerNumCtx = 80

// MemUnit returns the base memory unit for level (0..9): the hash table
// gets 2*MemUnit(level) bytes, the match model gets MemUnit(level) bytes.
func MemUnit(level int) int {
	return 1 << (20 + level)
}

// Predictor is the context-mixing bit predictor: P returns the estimated
// probability that the next bit coded will be 1, and Update folds in the
// bit's actual value once it is known (from the encoder's input or the
// decoder's range-coder output) so every component adapts before the next
// call to P.
type Predictor struct {
	cxt  uint32 // order-0 context: 1 followed by the bits coded this byte
	cxt4 uint32 // last 4 bytes, most recent in the low byte
	bits int    // bits coded this byte, 0..7

	wordCxt uint32 // rolling lowercase-letter context

	h  [numOrders]uint32   // per-order context hash, valid for the current byte
	sp [numOrders]stateRef // bit-history state pointer for each order

	t0 []byte // order-1 direct table: 256 byte-contexts * 256 partial-byte slots
	ht *hashTable

	sm   [numOrders]*stateMap
	mm   *matchModel
	mxr  *mixer
	apm1 *apm
	apm2 *apm

	pr int32 // cached prediction, [0, 4095], valid until the next Update
}

// NewPredictor builds a predictor sized for memory level (0..9).
func NewPredictor(level int) *Predictor {
	mem := MemUnit(level)

	p := &Predictor{
		cxt:  1,
		pr:   2048,
		t0:   make([]byte, 1<<16),
		ht:   newHashTable(mem * 2),
		mm:   newMatchModel(mem),
		mxr:  newMixer(numOrders+1, mixerNumCtx),
		apm1: newAPM(256),
		apm2: newAPM(16384),
	}
	for i := range p.sm {
		p.sm[i] = newStateMap(256)
	}
	return p
}

// P returns the predicted probability (scaled to [0, 4095]) that the next
// bit coded will be 1.
func (p *Predictor) P() int {
	return int(p.pr)
}

// Update tells the predictor the actual value of the bit just coded. It
// must be called exactly once per bit, always after the matching call to
// P for that bit.
func (p *Predictor) Update(bit int) {
	// Transition every order's bit-history state using the bit that was
	// just coded, then train the mixer against the prediction it made for
	// that bit.
	for i := 0; i < numOrders; i++ {
		p.set(p.sp[i], tables.NextState(p.get(p.sp[i]), bit))
	}
	p.mxr.update(bit)
	p.mm.update(bit)

	p.cxt = p.cxt*2 + uint32(bit)
	p.bits++

	switch {
	case p.bits == 8:
		p.cxt4 = (p.cxt4 << 8) | (p.cxt & 0xFF)
		p.updateWordCxt(byte(p.cxt))
		p.bits = 0
		p.cxt = 1
		p.updateContextHashes()
		p.newStateRoots(0)
	case p.bits&3 == 0:
		p.newStateRoots(p.cxt)
	default:
		j := (bit + 1) << uint((p.bits&3)-1)
		for i := 0; i < numOrders; i++ {
			p.sp[i] = p.sp[i].advance(j)
		}
	}

	p.predict(bit)
}

// predict recomputes p.pr for the upcoming bit. bit is the value just
// folded in above; per the stateMap convention, each order's p(bit, cxt)
// call both learns from bit (for the context active since the previous
// predict) and returns the probability for the newly rooted context.
func (p *Predictor) predict(bit int) {
	order := 0
	if p.mm.length() == 0 {
		for i := ordO2; i <= ordO6; i++ {
			if p.get(p.sp[i]) != 0 {
				order++
			}
		}
	} else {
		order = 5
		ln := p.mm.length()
		for _, thresh := range []int{8, 12, 16, 32} {
			if ln >= thresh {
				order++
			}
		}
	}

	p.mm.p(bit, p.mxr)

	for i := 0; i < numOrders; i++ {
		st := p.get(p.sp[i])
		p.mxr.add(int32(tables.Stretch[p.sm[i].p(bit, int(st))]))
	}

	p.mxr.set(order + 10*int(p.h[ordO1]>>13))
	p.pr = p.mxr.p()

	cxt := byte(p.cxt)
	pr1 := p.apm1.p(bit, 7, int(p.pr), uint32(cxt))
	p.pr = (p.pr + 3*int32(pr1)) >> 2

	cxt2 := (uint32(cxt) ^ (p.h[ordO1] >> 2)) & 16383
	pr2 := p.apm2.p(bit, 7, int(p.pr), cxt2)
	p.pr = (p.pr + 3*int32(pr2)) >> 2

	if p.pr < 1 {
		p.pr = 1
	} else if p.pr > 4094 {
		p.pr = 4094
	}
}

func (p *Predictor) get(r stateRef) uint8 {
	if r.h == handleOrder1 {
		return p.t0[r.off]
	}
	return p.ht.t[r.off]
}

func (p *Predictor) set(r stateRef, v uint8) {
	if r.h == handleOrder1 {
		p.t0[r.off] = v
	} else {
		p.ht.t[r.off] = v
	}
}

func (p *Predictor) updateWordCxt(b byte) {
	switch {
	case b >= 'A' && b <= 'Z':
		p.wordCxt = (p.wordCxt + uint32(b+32)) * (7 << 3)
	case b >= 'a' && b <= 'z':
		p.wordCxt = (p.wordCxt + uint32(b)) * (7 << 3)
	default:
		p.wordCxt = 0
	}
}

// updateContextHashes recomputes the per-order hashes from cxt4 and
// wordCxt at the start of a new byte.
func (p *Predictor) updateContextHashes() {
	p.h[ordO1] = (p.cxt4 & 0xFF) << 8
	p.h[ordO2] = ((p.cxt4 & 0xFFFF) << 5) | 0x57000000
	p.h[ordO3] = (p.cxt4 << 8) * 3
	p.h[ordO4] = p.cxt4 * 5
	p.h[ordO6] = (p.h[ordO6]*(11<<5) + p.cxt4*13) & 0x3FFFFFFF
	p.h[ordWord] = p.wordCxt * (7 << 3)
}

// newStateRoots re-seeds every order's state pointer at a byte or nibble
// boundary. Order-1 always addresses t0 directly with h[0]+cxt (the live
// partial-byte accumulator). Every other order looks up the shared hash
// table at h[i]+hashCxt: at a byte boundary hashCxt is 0 (no partial byte
// exists yet), at a nibble boundary it is the partial-byte accumulator.
func (p *Predictor) newStateRoots(hashCxt uint32) {
	p.sp[ordO1] = stateRef{h: handleOrder1, off: int(p.h[ordO1]+p.cxt) & 0xFFFF}
	for i := ordO2; i < numOrders; i++ {
		p.sp[i] = p.ht.hash(p.h[i] + hashCxt).advance(1)
	}
}
