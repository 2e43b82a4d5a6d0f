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

// Package rangecoder implements a carry-less binary range coder driven by
// a cm.Predictor: one 12-bit probability split per bit, with byte-at-a-time
// renormalization whenever the top bytes of the range endpoints agree.
package rangecoder

import "github.com/zarc-project/zarc/cm"

// split computes the midpoint of [low, high] at probability p (p in
// [1, 4095], the chance the next bit is 1 scaled to 12 bits).
func split(low, high, p uint32) uint32 {
	r := high - low
	return low + (r>>12)*p + (((r & 0x0FFF) * p) >> 12)
}

// clampProb adds one to every probability below 2048, so a zero
// probability never reaches split (mid would then equal low-1, leaving a
// zero-width range for bit=1).
func clampProb(p int) uint32 {
	if p < 2048 {
		return uint32(p + 1)
	}
	return uint32(p)
}

// Encoder compresses a bit stream against a predictor's adapting
// probabilities, appending coded bytes to Out as ranges narrow.
type Encoder struct {
	high, low uint32
	pred      *cm.Predictor
	Out       []byte
}

// NewEncoder creates an Encoder for one block, with a fresh predictor
// sized for memory level level and an output buffer pre-sized to
// blockSize bytes (compressed output is usually close to, and sometimes
// larger than, the input for incompressible blocks).
func NewEncoder(level, blockSize int) *Encoder {
	return &Encoder{
		high: 0xFFFFFFFF,
		low:  0,
		pred: cm.NewPredictor(level),
		Out:  make([]byte, 0, blockSize),
	}
}

// CompressBit codes one bit against the predictor's current estimate.
func (e *Encoder) CompressBit(bit int) {
	p := clampProb(e.pred.P())
	mid := split(e.low, e.high, p)

	if bit == 1 {
		e.high = mid
	} else {
		e.low = mid + 1
	}
	e.pred.Update(bit)

	for (e.high^e.low)&0xFF000000 == 0 {
		e.Out = append(e.Out, byte(e.high>>24))
		e.high = (e.high << 8) + 255
		e.low <<= 8
	}
}

// CompressBlock codes every byte of in, most significant bit first, then
// flushes the trailing range state.
func (e *Encoder) CompressBlock(in []byte) []byte {
	for _, b := range in {
		for i := 7; i >= 0; i-- {
			e.CompressBit(int((b >> uint(i)) & 1))
		}
	}
	e.Flush()
	return e.Out
}

// Flush emits any remaining agreeing top bytes, then one final byte so the
// decoder's 4-byte sliding window can be seeded unambiguously at the start
// of the next block.
func (e *Encoder) Flush() {
	for (e.high^e.low)&0xFF000000 == 0 {
		e.Out = append(e.Out, byte(e.high>>24))
		e.high = (e.high << 8) + 255
		e.low <<= 8
	}
	e.Out = append(e.Out, byte(e.high>>24))
}

// Decoder mirrors Encoder: given the same sequence of predictor estimates,
// it recovers the original bits from the coded byte stream.
type Decoder struct {
	high, low uint32
	pred      *cm.Predictor
	x         uint32 // 4-byte sliding window into in
	in        []byte
	pos       int
}

// NewDecoder creates a Decoder reading from in, with a fresh predictor
// sized for memory level level, and primes its sliding window with the
// first 4 bytes of in (short reads are zero-padded, matching the encoder's
// guarantee that every non-empty block ends with a flushed byte).
func NewDecoder(in []byte, level int) *Decoder {
	d := &Decoder{
		high: 0xFFFFFFFF,
		low:  0,
		pred: cm.NewPredictor(level),
		in:   in,
	}
	for i := 0; i < 4; i++ {
		d.x = (d.x << 8) | uint32(d.nextByte())
	}
	return d
}

func (d *Decoder) nextByte() byte {
	if d.pos >= len(d.in) {
		return 0
	}
	b := d.in[d.pos]
	d.pos++
	return b
}

// DecompressBit recovers one bit, given the same predictor state the
// encoder had when it coded it.
func (d *Decoder) DecompressBit() int {
	p := clampProb(d.pred.P())
	mid := split(d.low, d.high, p)

	bit := 0
	if d.x <= mid {
		bit = 1
		d.high = mid
	} else {
		d.low = mid + 1
	}
	d.pred.Update(bit)

	for (d.high^d.low)&0xFF000000 == 0 {
		d.high = (d.high << 8) + 255
		d.low <<= 8
		d.x = (d.x << 8) | uint32(d.nextByte())
	}
	return bit
}

// DecompressBlock recovers size bytes.
func (d *Decoder) DecompressBlock(size int) []byte {
	out := make([]byte, 0, size)
	for i := 0; i < size; i++ {
		b := 1
		for b < 256 {
			b = (b << 1) + d.DecompressBit()
		}
		out = append(out, byte(b-256))
	}
	return out
}
