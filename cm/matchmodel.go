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

// maxMatchLen caps the confidence context the match model feeds into its
// stateMap; matches longer than this are treated as equally confident.
const maxMatchLen = 62

// matchModel looks for the most recent earlier occurrence of the current
// byte context in a rotating buffer and, while a match is active, predicts
// the bit that extended the match last time with confidence proportional to
// the match length. Two independent rolling hashes (a short one and a long
// one) each index a pointer table so both short and long repeats are found.
type matchModel struct {
	buf    []byte
	bufEnd uint32
	ht     []uint32
	htEnd  uint32

	hashS, hashL uint32
	cxt          uint32 // partial byte being assembled, 1 in the top bit
	bits         uint32 // bits assembled into cxt so far, 0..7
	bufPos       uint32
	mchPtr       uint32
	mchLen       uint32

	sm *stateMap
}

func newMatchModel(n int) *matchModel {
	bufLen := n / 2
	htLen := n / 8
	return &matchModel{
		buf:    make([]byte, bufLen),
		bufEnd: uint32(bufLen - 1),
		ht:     make([]uint32, htLen),
		htEnd:  uint32(htLen - 1),
		cxt:    1,
		sm:     newStateMap(56 << 8),
	}
}

func (mm *matchModel) length() int {
	return int(mm.mchLen)
}

// p predicts bit using the active match (if any) and mixes the result via
// mx. Must be called once per bit, before update.
func (mm *matchModel) p(bit int, mx *mixer) {
	sCxt := uint32(0)

	if mm.mchLen > 0 {
		predByte := uint32(mm.buf[mm.mchPtr&mm.bufEnd])
		predCxt := (predByte + 256) >> (8 - mm.bits)
		if predCxt == mm.cxt {
			predBit := (predByte >> (7 - mm.bits)) & 1
			if mm.mchLen < 16 {
				sCxt = mm.mchLen*2 + predBit
			} else {
				sCxt = (mm.mchLen>>2)*2 + predBit + 24
			}
			prevByte := uint32(mm.buf[(mm.bufPos-1)&mm.bufEnd])
			sCxt = sCxt*256 + prevByte
		} else {
			mm.mchLen = 0
		}
	}

	mx.add(tables.Stretch[mm.sm.p(bit, int(sCxt))])
}

// update folds in the observed bit and, on a byte boundary, extends or
// re-seeks the active match and refreshes the rolling hashes.
func (mm *matchModel) update(bit int) {
	mm.cxt = mm.cxt*2 + uint32(bit)
	mm.bits++

	if mm.bits != 8 {
		return
	}

	mm.updateLongHash()
	mm.updateShortHash()

	mm.buf[mm.bufPos] = byte(mm.cxt)
	mm.bufPos = (mm.bufPos + 1) & mm.bufEnd
	mm.bits = 0
	mm.cxt = 1

	if mm.mchLen > 0 {
		mm.mchPtr = (mm.mchPtr + 1) & mm.bufEnd
		if mm.mchLen < maxMatchLen {
			mm.mchLen++
		}
	} else {
		mm.checkPrevBytes(mm.hashL)
	}

	if mm.mchLen < 2 {
		mm.mchLen = 0
		mm.checkPrevBytes(mm.hashS)
	}

	mm.ht[mm.hashS] = mm.bufPos
	mm.ht[mm.hashL] = mm.bufPos
}

func (mm *matchModel) updateShortHash() {
	mm.hashS = (mm.hashS*(5<<5) + mm.cxt) & mm.htEnd
}

func (mm *matchModel) updateLongHash() {
	mm.hashL = (mm.hashL*(3<<3) + mm.cxt) & mm.htEnd
}

// checkPrevBytes seeks a new candidate match at the pointer stored for hash
// and extends mchLen backward while the bytes preceding each candidate
// position agree.
func (mm *matchModel) checkPrevBytes(hash uint32) {
	mm.mchPtr = mm.ht[hash]
	if mm.mchPtr == mm.bufPos {
		return
	}

	ptrBack := (mm.mchPtr - mm.mchLen - 1) & mm.bufEnd
	bufBack := (mm.bufPos - mm.mchLen - 1) & mm.bufEnd

	for mm.mchLen < maxMatchLen && ptrBack != mm.bufPos && mm.buf[bufBack] == mm.buf[ptrBack] {
		mm.mchLen++
		ptrBack = (ptrBack - 1) & mm.bufEnd
		bufBack = (bufBack - 1) & mm.bufEnd
	}
}
