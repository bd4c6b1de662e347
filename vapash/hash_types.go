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

package vapash

import (
	"encoding/binary"
	"encoding/hex"
)

// Hash256 is a 256-bit hash in canonical byte form. Word views are defined
// by little-endian loads from the byte form, on any host.
type Hash256 [32]byte

// Hash512 is a 512-bit hash, the light cache item type.
type Hash512 [64]byte

// Hash1024 is a full dataset item: two contiguous 512-bit halves.
type Hash1024 [2]Hash512

// word0 returns the first 64-bit little-endian word, the one boundary
// comparisons are defined on.
func (h *Hash256) word0() uint64 {
	return binary.LittleEndian.Uint64(h[:8])
}

func (h *Hash256) setWord32(i int, w uint32) {
	binary.LittleEndian.PutUint32(h[i*4:], w)
}

func (h *Hash512) word32(i int) uint32 {
	return binary.LittleEndian.Uint32(h[i*4:])
}

// word32 addresses the 32 little-endian uint32 half-words spanning both
// halves of the item.
func (h *Hash1024) word32(i int) uint32 {
	return h[i/16].word32(i % 16)
}

func (h *Hash1024) word64(i int) uint64 {
	return binary.LittleEndian.Uint64(h[i/8][(i%8)*8:])
}

func (h *Hash1024) setWord64(i int, w uint64) {
	binary.LittleEndian.PutUint64(h[i/8][(i%8)*8:], w)
}

// HexToHash256 parses a 64-digit hex string, with or without 0x prefix,
// into a Hash256. Invalid input yields the zero hash.
func HexToHash256(s string) Hash256 {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	var h Hash256
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(h) {
		return Hash256{}
	}
	copy(h[:], b)
	return h
}

// Hex returns the unprefixed hex encoding of the hash.
func (h Hash256) Hex() string {
	return hex.EncodeToString(h[:])
}
