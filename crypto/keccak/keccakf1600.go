// Copyright 2018 The vapash Authors
// This file is part of the vapash library.
//
// The vapash library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The vapash library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the vapash library. If not, see <http://www.gnu.org/licenses/>.

package keccak

import "math/bits"

// roundConstants are the 24 iota step constants of Keccak-f[1600].
var roundConstants = [24]uint64{
	0x0000000000000001, 0x0000000000008082, 0x800000000000808a, 0x8000000080008000,
	0x000000000000808b, 0x0000000080000001, 0x8000000080008081, 0x8000000000008009,
	0x000000000000008a, 0x0000000000000088, 0x0000000080008009, 0x000000008000000a,
	0x000000008000808b, 0x800000000000008b, 0x8000000000008089, 0x8000000000008003,
	0x8000000000008002, 0x8000000000000080, 0x000000000000800a, 0x800000008000000a,
	0x8000000080008081, 0x8000000000008080, 0x0000000080000001, 0x8000000080008008,
}

// Rotation offsets and lane permutation of the rho and pi steps, in the
// order the combined rho-pi walk visits the lanes.
var (
	rhoOffsets = [24]int{
		1, 3, 6, 10, 15, 21, 28, 36, 45, 55, 2, 14,
		27, 41, 56, 8, 25, 43, 62, 18, 39, 61, 20, 44,
	}
	piLanes = [24]int{
		10, 7, 11, 17, 18, 3, 5, 16, 8, 21, 24, 4,
		15, 23, 19, 13, 12, 2, 20, 14, 22, 9, 6, 1,
	}
)

// keccakF1600Generic is the compact table-driven Keccak-f[1600]. All 24
// rounds run theta, rho, pi, chi and iota with no data-dependent branches.
func keccakF1600Generic(a *[25]uint64) {
	var c [5]uint64

	for round := 0; round < 24; round++ {
		// theta
		for i := 0; i < 5; i++ {
			c[i] = a[i] ^ a[i+5] ^ a[i+10] ^ a[i+15] ^ a[i+20]
		}
		for i := 0; i < 5; i++ {
			d := c[(i+4)%5] ^ bits.RotateLeft64(c[(i+1)%5], 1)
			for j := 0; j < 25; j += 5 {
				a[j+i] ^= d
			}
		}
		// rho and pi
		t := a[1]
		for i := 0; i < 24; i++ {
			j := piLanes[i]
			t, a[j] = a[j], bits.RotateLeft64(t, rhoOffsets[i])
		}
		// chi
		for j := 0; j < 25; j += 5 {
			c0, c1, c2, c3, c4 := a[j], a[j+1], a[j+2], a[j+3], a[j+4]
			a[j] = c0 ^ (^c1 & c2)
			a[j+1] = c1 ^ (^c2 & c3)
			a[j+2] = c2 ^ (^c3 & c4)
			a[j+3] = c3 ^ (^c4 & c0)
			a[j+4] = c4 ^ (^c0 & c1)
		}
		// iota
		a[0] ^= roundConstants[round]
	}
}
