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

import (
	"bytes"
	"encoding/hex"
	"math/rand"
	"testing"

	"golang.org/x/crypto/sha3"
)

var keccak256Vectors = []struct {
	in   string
	want string
}{
	{"", "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"},
	{"abc", "4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45"},
}

var keccak512Vectors = []struct {
	in   string
	want string
}{
	{
		"",
		"0eab42de4c3ceb9235fc91acffe746b29c29a8c366b7c60e4e67c466f36a4304" +
			"c00fa9caf9d87976ba469bcbe06713b435f091ef2769fb160cdab33d3670680e",
	},
	{
		"abc",
		"18587dc2ea106b9a1563e32b3312421ca164c7f1f07bc922a9c83d77cea3a1e5" +
			"d0c69910739025372dc14ac9642629379540c17e2a65b19d77aa511a9d00bb96",
	},
}

func TestKeccak256Vectors(t *testing.T) {
	for _, tt := range keccak256Vectors {
		got := Keccak256([]byte(tt.in))
		if hex.EncodeToString(got[:]) != tt.want {
			t.Errorf("Keccak256(%q) = %x, want %s", tt.in, got, tt.want)
		}
	}
}

func TestKeccak512Vectors(t *testing.T) {
	for _, tt := range keccak512Vectors {
		got := Keccak512([]byte(tt.in))
		if hex.EncodeToString(got[:]) != tt.want {
			t.Errorf("Keccak512(%q) = %x, want %s", tt.in, got, tt.want)
		}
	}
}

// Cross-checks the one-shot sponges against the x/crypto legacy Keccak over
// every input length spanning several rate blocks.
func TestKeccakAgainstReference(t *testing.T) {
	r := rand.New(rand.NewSource(0x5eed))
	data := make([]byte, 4*136+17)
	r.Read(data)

	for n := 0; n <= len(data); n++ {
		in := data[:n]

		ref256 := sha3.NewLegacyKeccak256()
		ref256.Write(in)
		if got := Keccak256(in); !bytes.Equal(got[:], ref256.Sum(nil)) {
			t.Fatalf("Keccak256 mismatch at length %d", n)
		}

		ref512 := sha3.NewLegacyKeccak512()
		ref512.Write(in)
		if got := Keccak512(in); !bytes.Equal(got[:], ref512.Sum(nil)) {
			t.Fatalf("Keccak512 mismatch at length %d", n)
		}
	}
}

// The backends must be interchangeable bit for bit.
func TestPermutationBackendsAgree(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		var a, b [25]uint64
		for j := range a {
			a[j] = r.Uint64()
			b[j] = a[j]
		}
		keccakF1600Generic(&a)
		keccakF1600Unrolled(&b)
		if a != b {
			t.Fatalf("backend divergence on input %d", i)
		}
	}
}

func TestKeccak512IntoAliasing(t *testing.T) {
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = byte(i)
	}
	want := Keccak512(buf)

	var dst [64]byte
	copy(dst[:], buf)
	Keccak512Into(&dst, dst[:])
	if dst != want {
		t.Fatal("in-place Keccak512 differs from out-of-place result")
	}
}

func BenchmarkKeccak512_64(b *testing.B) {
	data := make([]byte, 64)
	for i := 0; i < b.N; i++ {
		Keccak512(data)
	}
}

func BenchmarkKeccak256_96(b *testing.B) {
	data := make([]byte, 96)
	for i := 0; i < b.N; i++ {
		Keccak256(data)
	}
}
