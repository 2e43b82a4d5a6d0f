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

// Package tables holds the fixed lookup tables shared by the context-mixing
// predictor: the logistic squash/stretch pair and the bit-history state
// transition table. The squash/stretch pair is built once in init() rather
// than hand-written, following the generation style of kanzi-go's
// internal.Global package; the state table is a literal array.
package tables

// squashPoints are the 33 fixed anchor values of squash(d) for
// d = -2048, -1920, ..., 2048 (step 128), i.e. squash((i-16)*128) for
// i = 0..32. Interpolating linearly between adjacent anchors and rounding
// reproduces squash(d) for every integer d in [-2047, 2047].
var squashPoints = [33]int32{
	1, 2, 3, 6, 10, 16, 27, 45, 73, 120, 194, 310, 488, 747, 1101,
	1546, 2047, 2549, 2994, 3348, 3607, 3785, 3901, 3975, 4022,
	4050, 4068, 4079, 4085, 4089, 4092, 4093, 4094,
}

// Squash and Stretch are inverse logistic transforms between probability
// space [0, 4095] and log-odds (stretched) space [-2047, 2047].
var (
	Squash  [4096]int32 // indexed by d + 2047
	Stretch [4096]int32 // indexed by p
)

func init() {
	for d := -2047; d <= 2047; d++ {
		Squash[d+2047] = squashRaw(int32(d))
	}

	// Stretch is the inverse of Squash: for each squashed value produced by
	// a scan of increasing d, every probability between the previous anchor
	// and the current one maps back to that d. Ported from the generation
	// recipe documented (commented out) alongside the original squash/stretch
	// pair: walk d upward, fill Stretch[prev..=squash(d)] with d.
	prev := int32(0)
	for d := -2047; d <= 2047; d++ {
		i := Squash[d+2047]
		for j := prev; j <= i; j++ {
			Stretch[j] = int32(d)
		}
		prev = i + 1
	}
	for j := prev; j < 4096; j++ {
		Stretch[j] = 2047
	}
}

func squashRaw(d int32) int32 {
	if d > 2047 {
		return 4095
	}
	if d < -2047 {
		return 0
	}
	w := d & 127
	idx := (d >> 7) + 16
	return (squashPoints[idx]*(128-w) + squashPoints[idx+1]*w + 64) >> 7
}

// SquashFunc is the clamped squash(d) used when d can fall outside
// [-2047, 2047], e.g. APM bin initialization.
func SquashFunc(d int32) int32 {
	return squashRaw(d)
}
