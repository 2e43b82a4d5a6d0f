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

package block

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockRoundTrip(t *testing.T) {
	b := &Block{
		SizeOut:  5,
		SizeIn:   5,
		Checksum: 0xD3D99E8B,
		ID:       7,
		Method:   MethodStore,
		Memory:   3,
		Version:  CurrentVersion,
		Created:  1700000000,
		Files: []FileRecord{
			{Path: "a.txt", TotalLength: 5, SegmentStart: 0, SegmentEnd: 5, FileOffset: 0},
		},
		Payload: []byte("hello"),
	}

	var buf bytes.Buffer
	n, err := b.WriteTo(&buf)
	require.NoError(t, err)
	require.EqualValues(t, buf.Len(), n)

	got, err := ReadBlock(bufio.NewReader(&buf))
	require.NoError(t, err)
	require.Equal(t, b.SizeOut, got.SizeOut)
	require.Equal(t, b.Checksum, got.Checksum)
	require.Equal(t, b.ID, got.ID)
	require.Equal(t, b.Method, got.Method)
	require.Equal(t, b.Files, got.Files)
	require.Equal(t, b.Payload, got.Payload)
}

func TestTerminatorRoundTrip(t *testing.T) {
	term := Terminator(42)
	require.True(t, term.IsTerminator())

	var buf bytes.Buffer
	_, err := term.WriteTo(&buf)
	require.NoError(t, err)

	got, err := ReadBlock(bufio.NewReader(&buf))
	require.NoError(t, err)
	require.True(t, got.IsTerminator())
	require.Equal(t, uint32(42), got.ID)
}

func TestVersionEqual(t *testing.T) {
	v1 := Version{Major: 1, Minor: 2, Patch: 0}
	v2 := Version{Major: 1, Minor: 2, Patch: 9}
	v3 := Version{Major: 1, Minor: 3, Patch: 0}

	require.True(t, v1.Equal(v2), "patch must not affect compatibility")
	require.False(t, v1.Equal(v3), "minor mismatch must break compatibility")
}
