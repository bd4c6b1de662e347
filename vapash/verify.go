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

import "math/big"

// maxUint256 is a big integer representing 2^256-1
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Verify recomputes the proof of work for (header, nonce) in light mode and
// checks it against the claimed mix hash and the boundary. Any mismatch or
// structural problem reports false; there is no error to inspect.
func Verify(ctx *EpochContext, header, mixHash Hash256, nonce uint64, boundary Hash256) bool {
	if ctx == nil || ctx.lightCache == nil {
		return false
	}
	result := HashLight(ctx, header, nonce)
	if result.MixHash != mixHash {
		return false
	}
	return result.FinalHash.word0() < boundary.word0()
}

// SearchLight probes nonces startNonce..startNonce+iterations-1 in order,
// evaluating each in light mode, and returns the first one whose final hash
// beats the boundary. The second return value reports whether any did.
func SearchLight(ctx *EpochContext, header, boundary Hash256, startNonce, iterations uint64) (uint64, bool) {
	target := boundary.word0()
	for i := uint64(0); i < iterations; i++ {
		nonce := startNonce + i
		if result := HashLight(ctx, header, nonce); result.FinalHash.word0() < target {
			return nonce, true
		}
	}
	return 0, false
}

// Search is SearchLight evaluated through the context's full dataset, so
// repeated probes amortize the dataset item derivations.
func Search(ctx *EpochContext, header, boundary Hash256, startNonce, iterations uint64) (uint64, bool) {
	target := boundary.word0()
	for i := uint64(0); i < iterations; i++ {
		nonce := startNonce + i
		if result := Hash(ctx, header, nonce); result.FinalHash.word0() < target {
			return nonce, true
		}
	}
	return 0, false
}

// DifficultyToBoundary converts a positive block difficulty into the
// boundary hash the proof of work is checked against:
// (2^256-1)/difficulty, encoded little-endian so the quotient's low bits
// land in the first 64-bit word the comparisons are defined on.
func DifficultyToBoundary(difficulty *big.Int) Hash256 {
	var boundary Hash256
	if difficulty == nil || difficulty.Sign() <= 0 {
		return boundary
	}
	b := new(big.Int).Div(maxUint256, difficulty).FillBytes(make([]byte, 32))
	for i := 0; i < 16; i++ {
		b[i], b[31-i] = b[31-i], b[i]
	}
	copy(boundary[:], b)
	return boundary
}
