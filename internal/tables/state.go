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

package tables

// stateOnBit0 and stateOnBit1 are the bit-history transition tables: state 0
// is the no-history start state, states 1-30 cover every sequence of 1-4
// bits, and states 31-252 represent saturating (n0, n1) count pairs. When a
// count would overflow, the opposite count is discounted so recent history
// dominates stale history.
var stateOnBit0 = [256]uint8{
	1, 3, 143, 4, 5, 6, 7, 8, 9, 10,
	11, 12, 13, 14, 15, 16, 17, 18, 19, 20,
	21, 22, 23, 24, 25, 26, 27, 28, 29, 30,
	31, 32, 33, 34, 35, 36, 37, 38, 39, 40,
	41, 42, 43, 44, 45, 46, 47, 48, 49, 50,
	51, 52, 47, 54, 55, 56, 57, 58, 59, 60,
	61, 62, 63, 64, 65, 66, 67, 68, 69, 6,
	71, 71, 71, 61, 75, 56, 77, 78, 77, 80,
	81, 82, 83, 84, 85, 86, 87, 88, 77, 90,
	91, 92, 80, 94, 95, 96, 97, 98, 99, 90,
	101, 94, 103, 101, 102, 104, 107, 104, 105, 108,
	111, 112, 113, 114, 115, 116, 92, 118, 94, 103,
	119, 122, 123, 94, 113, 126, 113, 128, 129, 114,
	131, 132, 112, 134, 111, 134, 110, 134, 134, 128,
	128, 142, 143, 115, 113, 142, 128, 148, 149, 79,
	148, 142, 148, 150, 155, 149, 157, 149, 159, 149,
	131, 101, 98, 115, 114, 91, 79, 58, 1, 170,
	129, 128, 110, 174, 128, 176, 129, 174, 179, 174,
	176, 141, 157, 179, 185, 157, 187, 188, 168, 151,
	191, 192, 188, 187, 172, 175, 170, 152, 185, 170,
	176, 170, 203, 148, 185, 203, 185, 192, 209, 188,
	211, 192, 213, 214, 188, 216, 168, 84, 54, 54,
	221, 54, 55, 85, 69, 63, 56, 86, 58, 230,
	231, 57, 229, 56, 224, 54, 54, 66, 58, 54,
	61, 57, 222, 78, 85, 82, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0,
}

var stateOnBit1 = [256]uint8{
	2, 163, 169, 163, 165, 89, 245, 217, 245, 245,
	233, 244, 227, 74, 221, 221, 218, 226, 243, 218,
	238, 242, 74, 238, 241, 240, 239, 224, 225, 221,
	232, 72, 224, 228, 223, 225, 238, 73, 167, 76,
	237, 234, 231, 72, 31, 63, 225, 237, 236, 235,
	53, 234, 53, 234, 229, 219, 229, 233, 232, 228,
	226, 72, 74, 222, 75, 220, 167, 57, 218, 70,
	168, 72, 73, 74, 217, 76, 167, 79, 79, 166,
	162, 162, 162, 162, 165, 89, 89, 165, 89, 162,
	93, 93, 93, 161, 100, 93, 93, 93, 93, 93,
	161, 102, 120, 104, 105, 106, 108, 106, 109, 110,
	160, 134, 108, 108, 126, 117, 117, 121, 119, 120,
	107, 124, 117, 117, 125, 127, 124, 139, 130, 124,
	133, 109, 110, 135, 110, 136, 137, 138, 127, 140,
	141, 145, 144, 124, 125, 146, 147, 151, 125, 150,
	127, 152, 153, 154, 156, 139, 158, 139, 156, 139,
	130, 117, 163, 164, 141, 163, 147, 2, 2, 199,
	171, 172, 173, 177, 175, 171, 171, 178, 180, 172,
	181, 182, 183, 184, 186, 178, 189, 181, 181, 190,
	193, 182, 182, 194, 195, 196, 197, 198, 169, 200,
	201, 202, 204, 180, 205, 206, 207, 208, 210, 194,
	212, 184, 215, 193, 184, 208, 193, 163, 219, 168,
	94, 217, 223, 224, 225, 76, 227, 217, 229, 219,
	79, 86, 165, 217, 214, 225, 216, 216, 234, 75,
	214, 237, 74, 74, 163, 217, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0,
}

// NextState transitions a bit-history state by the observed outcome bit.
func NextState(state uint8, bit int) uint8 {
	if bit == 0 {
		return stateOnBit0[state]
	}
	return stateOnBit1[state]
}
