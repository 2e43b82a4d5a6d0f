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

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemUnitDoublesPerLevel(t *testing.T) {
	require.Equal(t, 1<<20, MemUnit(0))
	require.Equal(t, MemUnit(3)*2, MemUnit(4))
}

func TestPredictorInitialProbabilityIsNeutral(t *testing.T) {
	p := NewPredictor(1)
	require.Equal(t, 2048, p.P(), "with no history the predictor should start unbiased")
}

func TestPredictorLearnsRepeatedByte(t *testing.T) {
	p := NewPredictor(1)
	in := bytes.Repeat([]byte{0xAA}, 4096)

	// Feed the same byte repeatedly; by the end, the predictor's
	// estimate should have moved well away from the neutral starting
	// point as every order converges on the repeated pattern.
	for _, b := range in {
		for i := 7; i >= 0; i-- {
			bit := int((b >> uint(i)) & 1)
			p.Update(bit)
			_ = p.P()
		}
	}

	require.NotEqual(t, 2048, p.P())
}
