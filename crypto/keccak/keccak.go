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

// Package keccak implements the Keccak-f[1600] permutation and the one-shot
// Keccak-256 and Keccak-512 sponges used by the vapash proof of work.
//
// The sponges use the original Keccak padding (a single 0x01 domain byte,
// not the 0x06 byte of standardized SHA-3), absorb message bytes as
// little-endian 64-bit lanes and squeeze the first output bytes of the
// state, also little-endian.
package keccak

import "encoding/binary"

// keccakF1600 is the active permutation backend. It defaults to the
// table-driven implementation; platform init code may swap in a faster
// variant as long as the output stays bit identical.
var keccakF1600 = keccakF1600Generic

// F1600 applies the Keccak-f[1600] permutation to the 25-lane state.
func F1600(state *[25]uint64) {
	keccakF1600(state)
}

// hash absorbs data into a fresh sponge with rate 1600-2*bits and squeezes
// bits/8 output bytes into out. bits must be 256 or 512.
func hash(out []byte, data []byte, bits int) {
	var state [25]uint64

	rateWords := (1600 - 2*bits) / 64
	rateBytes := rateWords * 8

	for len(data) >= rateBytes {
		for i := 0; i < rateWords; i++ {
			state[i] ^= binary.LittleEndian.Uint64(data[i*8:])
		}
		keccakF1600(&state)
		data = data[rateBytes:]
	}

	// Absorb the remaining full lanes of the final block.
	i := 0
	for len(data) >= 8 {
		state[i] ^= binary.LittleEndian.Uint64(data)
		data = data[8:]
		i++
	}
	// Tail bytes plus the 0x01 padding byte share the next lane.
	var last [8]byte
	copy(last[:], data)
	last[len(data)] = 0x01
	state[i] ^= binary.LittleEndian.Uint64(last[:])

	state[rateWords-1] ^= 0x8000000000000000

	keccakF1600(&state)

	for i := 0; i < len(out)/8; i++ {
		binary.LittleEndian.PutUint64(out[i*8:], state[i])
	}
}

// Keccak256 computes the Keccak-256 hash of data.
func Keccak256(data []byte) [32]byte {
	var out [32]byte
	hash(out[:], data, 256)
	return out
}

// Keccak512 computes the Keccak-512 hash of data.
func Keccak512(data []byte) [64]byte {
	var out [64]byte
	hash(out[:], data, 512)
	return out
}

// Keccak256Into writes the Keccak-256 hash of data into dst.
func Keccak256Into(dst *[32]byte, data []byte) {
	hash(dst[:], data, 256)
}

// Keccak512Into writes the Keccak-512 hash of data into dst. dst may alias
// data; the sponge copies everything it needs before producing output.
func Keccak512Into(dst *[64]byte, data []byte) {
	hash(dst[:], data, 512)
}
