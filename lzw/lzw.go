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

package lzw

// Strategy selects which dictionary maintenance policy a block is coded
// with. It is not stored in the block: Decompress must be given the same
// Strategy that Compress was given.
type Strategy uint8

const (
	// StrategyReset throws the whole dictionary away and re-seeds it with
	// the 256 single-byte entries once the code space fills.
	StrategyReset Strategy = iota
	// StrategyCull prunes rarely-used recent entries and renumbers the
	// survivors once the code space fills, keeping long-lived entries
	// alive across the prune.
	StrategyCull
)

// Compress dictionary-codes in using strategy, sizing the dictionary from
// mem (the same memory-level byte budget used to size the predictor's
// hash table).
func Compress(in []byte, strategy Strategy, mem int) []byte {
	switch strategy {
	case StrategyCull:
		return CompressCull(in, mem)
	default:
		return CompressReset(in, mem)
	}
}

// Decompress reverses Compress for the given strategy.
func Decompress(in []byte, strategy Strategy, mem int) []byte {
	switch strategy {
	case StrategyCull:
		return DecompressCull(in, mem)
	default:
		return DecompressReset(in, mem)
	}
}
