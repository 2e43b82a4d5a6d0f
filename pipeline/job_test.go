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

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zarc-project/zarc/block"
	"github.com/zarc-project/zarc/lzw"
)

// TestStoreMethodChecksum pins scenario 1 of the archive format: a
// single byte 0x41 stored verbatim checksums to CRC-32 0xD3D99E8B.
func TestStoreMethodChecksum(t *testing.T) {
	blk, err := compress(CompressJob{ID: 0, Data: []byte{0x41}, Method: block.MethodStore})
	require.NoError(t, err)
	require.Equal(t, uint32(0xD3D99E8B), blk.Checksum)
	require.Equal(t, []byte{0x41}, blk.Payload)
}

func TestCompressDecompressRoundTripAllMethods(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	methods := []struct {
		method   block.Method
		strategy lzw.Strategy
	}{
		{block.MethodStore, 0},
		{block.MethodLZW, lzw.StrategyReset},
		{block.MethodLZW, lzw.StrategyCull},
		{block.MethodCM, 0},
	}

	for _, m := range methods {
		blk, err := compress(CompressJob{ID: 3, Data: data, Method: m.method, Level: 2, Strategy: m.strategy, Created: 100})
		require.NoError(t, err)

		out, err := decompress(DecompressJob{Blk: blk, Level: 2, Strategy: m.strategy})
		require.NoError(t, err)
		require.Equal(t, data, out.Payload)
	}
}

func TestDecompressRejectsVersionMismatch(t *testing.T) {
	blk, err := compress(CompressJob{ID: 0, Data: []byte("x"), Method: block.MethodStore})
	require.NoError(t, err)
	blk.Version.Major++

	_, err = decompress(DecompressJob{Blk: blk, Level: 0})
	require.Error(t, err)
	var verr *VersionError
	require.ErrorAs(t, err, &verr)
}

func TestDecompressRejectsChecksumMismatch(t *testing.T) {
	blk, err := compress(CompressJob{ID: 0, Data: []byte("hello"), Method: block.MethodStore})
	require.NoError(t, err)
	blk.Payload[0] ^= 0xFF

	_, err = decompress(DecompressJob{Blk: blk, Level: 0})
	require.Error(t, err)
	var cerr *ChecksumError
	require.ErrorAs(t, err, &cerr)
}
