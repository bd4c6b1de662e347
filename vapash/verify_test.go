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
	"math/big"
	"testing"
)

// boundaryAbove builds a boundary whose comparison word is just above the
// given result, so the result passes by the narrowest margin.
func boundaryAbove(r Result) Hash256 {
	var b Hash256
	binary.LittleEndian.PutUint64(b[:8], r.FinalHash.word0()+1)
	return b
}

func TestVerifyRoundTrip(t *testing.T) {
	ctx := epoch0Context(t)
	header := HexToHash256("f5afd2e2ecd7a7c4516e4f0ee4c18c3e3171e9e4fbd7af00ad2b241fe7ad777e")
	const nonce = 0x2348723847

	result := HashLight(ctx, header, nonce)

	if !Verify(ctx, header, result.MixHash, nonce, boundaryAbove(result)) {
		t.Error("verification rejected the seal it just produced")
	}
	// The comparison is strict: a boundary equal to the final hash word fails.
	var tight Hash256
	binary.LittleEndian.PutUint64(tight[:8], result.FinalHash.word0())
	if Verify(ctx, header, result.MixHash, nonce, tight) {
		t.Error("verification passed a boundary equal to the final hash")
	}
	// A wrong mix fails no matter how permissive the boundary is.
	badMix := result.MixHash
	badMix[7] ^= 0xff
	var loose Hash256
	for i := range loose {
		loose[i] = 0xff
	}
	if Verify(ctx, header, badMix, nonce, loose) {
		t.Error("verification accepted a corrupted mix hash")
	}
	// And so does a wrong nonce.
	if Verify(ctx, header, result.MixHash, nonce+1, loose) {
		t.Error("verification accepted a wrong nonce")
	}
	if Verify(nil, header, result.MixHash, nonce, loose) {
		t.Error("verification accepted a nil context")
	}
}

func TestSearch(t *testing.T) {
	ctx := epoch0Context(t)
	full, err := GetGlobalEpochContextFull(0)
	if err != nil {
		t.Fatal(err)
	}
	var header Hash256
	header[3] = 0x5e

	const solution = 37
	boundary := boundaryAbove(HashLight(ctx, header, solution))

	nonce, found := SearchLight(ctx, header, boundary, 30, 20)
	if !found {
		t.Fatal("search missed a window containing a solution")
	}
	if nonce > solution {
		t.Fatalf("search returned %d, past the known solution %d", nonce, solution)
	}
	if r := HashLight(ctx, header, nonce); r.FinalHash.word0() >= boundary.word0() {
		t.Fatalf("search returned non-solution nonce %d", nonce)
	}
	// Both search variants walk nonces in the same order.
	if fullNonce, fullFound := Search(full, header, boundary, 30, 20); !fullFound || fullNonce != nonce {
		t.Fatalf("full search returned (%d, %v), light returned %d", fullNonce, fullFound, nonce)
	}
	// A window without solutions reports absence, even over nonce 0.
	if _, found := SearchLight(ctx, header, Hash256{}, 0, 4); found {
		t.Error("search found a solution for an unsatisfiable boundary")
	}
	if _, found := SearchLight(ctx, header, boundary, solution+1, 0); found {
		t.Error("search found a solution in an empty window")
	}
}

func TestDifficultyToBoundary(t *testing.T) {
	if got := DifficultyToBoundary(big.NewInt(1)); got != hashAllFF() {
		t.Errorf("difficulty 1 boundary = %x", got)
	}
	// (2^256-1) / 2^224 leaves exactly the bottom 32 bits set, which the
	// little-endian encoding puts at the front of the hash.
	diff := new(big.Int).Lsh(big.NewInt(1), 224)
	want := HexToHash256("ffffffff00000000000000000000000000000000000000000000000000000000")
	got := DifficultyToBoundary(diff)
	if got != want {
		t.Errorf("difficulty 2^224 boundary = %x, want %x", got, want)
	}
	if got.word0() != 0xffffffff {
		t.Errorf("difficulty 2^224 comparison word = %#x, want 0xffffffff", got.word0())
	}
	if got := DifficultyToBoundary(nil); got != (Hash256{}) {
		t.Errorf("nil difficulty boundary = %x, want zero", got)
	}
	if got := DifficultyToBoundary(big.NewInt(0)); got != (Hash256{}) {
		t.Errorf("zero difficulty boundary = %x, want zero", got)
	}
}

// Boundaries produced by the helper must interoperate with Verify, not just
// encode the quotient.
func TestDifficultyToBoundaryRoundTrip(t *testing.T) {
	ctx := epoch0Context(t)
	header := HexToHash256("6f3c2a10ed9f4f0b42b1f0cc66233b6d2f0ddca864fc1a8e6b21a537d14ec4c8")
	const nonce = 0x665544332211

	result := HashLight(ctx, header, nonce)

	// Difficulty 2^192 yields a comparison word of 2^64-1, which any seal
	// beats.
	easy := DifficultyToBoundary(new(big.Int).Lsh(big.NewInt(1), 192))
	if easy.word0() != ^uint64(0) {
		t.Fatalf("easy comparison word = %#x, want all ones", easy.word0())
	}
	if !Verify(ctx, header, result.MixHash, nonce, easy) {
		t.Error("seal rejected against the easiest practical boundary")
	}
	// The maximum difficulty yields a comparison word of 1, which no real
	// seal beats.
	hard := DifficultyToBoundary(maxUint256)
	if hard.word0() != 1 {
		t.Fatalf("hard comparison word = %#x, want 1", hard.word0())
	}
	if Verify(ctx, header, result.MixHash, nonce, hard) {
		t.Error("seal accepted against the maximum difficulty boundary")
	}
}

func hashAllFF() Hash256 {
	var h Hash256
	for i := range h {
		h[i] = 0xff
	}
	return h
}
