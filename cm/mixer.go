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

// mixer combines the stretched probabilities contributed by each order's
// stateMap into a single probability, using a set of weights selected by a
// coarse context (the active order and the high bits of the order-1
// context). Weights are trained online by gradient descent after every bit.
type mixer struct {
	maxIn   int
	inputs  []int32
	weights []int32
	whtSet  int
	pr      int32
}

func newMixer(maxIn, numCtx int) *mixer {
	return &mixer{
		maxIn:   maxIn,
		inputs:  make([]int32, 0, maxIn),
		weights: make([]int32, maxIn*numCtx),
		pr:      2048,
	}
}

func (mx *mixer) add(st int32) {
	mx.inputs = append(mx.inputs, st)
}

// set selects the weight set for the upcoming bit.
func (mx *mixer) set(cxt int) {
	mx.whtSet = cxt * mx.maxIn
}

func (mx *mixer) p() int32 {
	var dot int64
	for i, in := range mx.inputs {
		dot += int64(in) * int64(mx.weights[mx.whtSet+i])
	}
	mx.pr = tables.SquashFunc(int32(dot >> 16))
	return mx.pr
}

// update trains the active weight set toward the observed bit, then clears
// the input list for the next bit.
func (mx *mixer) update(bit int) {
	errv := ((int32(bit) << 12) - mx.pr) * 7
	for i, in := range mx.inputs {
		mx.weights[mx.whtSet+i] += (in*errv + 0x8000) >> 16
	}
	mx.inputs = mx.inputs[:0]
}
