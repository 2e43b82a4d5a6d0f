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

// apm (adaptive probability map, a.k.a. SSE) refines a probability by
// interpolating within a per-context table of 33 bins spaced evenly across
// stretched probability space. It corrects systematic bias the mixer leaves
// behind for a given secondary context.
type apm struct {
	bin int
	t   []uint16
}

const apmBins = 33

func newAPM(n int) *apm {
	a := &apm{t: make([]uint16, n*apmBins)}
	for i := 0; i < apmBins; i++ {
		v := uint16(tables.SquashFunc(int32((i-16)*128)) * 16)
		for c := 0; c < n; c++ {
			a.t[c*apmBins+i] = v
		}
	}
	return a
}

// p refines pr (a probability in [0, 4095]) using cxt as the secondary
// context selecting which of the n tables to interpolate within.
func (a *apm) p(bit int, rate int, pr int, cxt uint32) int {
	a.update(bit, rate)

	s := tables.Stretch[pr]
	w := s & 127
	a.bin = int((s+2048)>>7) + apmBins*int(cxt)

	l := int32(a.t[a.bin])
	u := int32(a.t[a.bin+1])
	return int((l*(128-w) + u*w) >> 11)
}

func (a *apm) update(bit int, rate int) {
	g := int32(bit<<16) + int32(bit<<uint(rate)) - 2*int32(bit)

	l := int32(a.t[a.bin])
	u := int32(a.t[a.bin+1])
	a.t[a.bin] = uint16(l + ((g - l) >> uint(rate)))
	a.t[a.bin+1] = uint16(u + ((g - u) >> uint(rate)))
}
