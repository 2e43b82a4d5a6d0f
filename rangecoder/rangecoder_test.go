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

package rangecoder

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("A"),
		[]byte("hello, hello, hello, hello world"),
		bytes.Repeat([]byte{0}, 4096),
	}

	r := rand.New(rand.NewSource(1))
	random := make([]byte, 8192)
	r.Read(random)
	cases = append(cases, random)

	for _, in := range cases {
		enc := NewEncoder(2, len(in))
		out := enc.CompressBlock(in)

		dec := NewDecoder(out, 2)
		got := dec.DecompressBlock(len(in))

		require.Equal(t, in, got)
	}
}

func TestRepetitiveInputCompresses(t *testing.T) {
	in := bytes.Repeat([]byte("the quick brown fox "), 200)

	enc := NewEncoder(2, len(in))
	out := enc.CompressBlock(in)

	require.Less(t, len(out), len(in), "a highly repetitive block should compress smaller than its input")
}

func TestSplitNeverProducesZeroWidthRange(t *testing.T) {
	mid := split(0, 0xFFFFFFFF, 1)
	require.Less(t, mid, uint32(0xFFFFFFFF))
	require.Greater(t, mid, uint32(0))
}
