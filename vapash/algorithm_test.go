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
	"bytes"
	"errors"
	"sync"
	"testing"
)

var (
	epoch0Once sync.Once
	epoch0     *EpochContext
)

// epoch0Context builds the real epoch-0 light cache once and shares it
// between all tests in the package.
func epoch0Context(t testing.TB) *EpochContext {
	epoch0Once.Do(func() {
		epoch0, _ = NewEpochContext(0)
	})
	if epoch0 == nil {
		t.Fatal("failed to build epoch 0 context")
	}
	return epoch0
}

func TestEpochSeed(t *testing.T) {
	if seed := EpochSeed(0); seed != (Hash256{}) {
		t.Errorf("seed of epoch 0 = %x, want all zero", seed)
	}
	// Keccak-256 of 32 zero bytes is a well-known constant.
	want := HexToHash256("290decd9548b62a8d60345a988386fc84ba6bc95484008f6362f93160ef3e563")
	if seed := EpochSeed(1); seed != want {
		t.Errorf("seed of epoch 1 = %x, want %x", seed, want)
	}
	// Each epoch hashes the previous seed once more.
	prev := EpochSeed(170)
	if next := EpochSeed(171); next != Keccak256(prev[:]) {
		t.Errorf("seed of epoch 171 is not the hash of epoch 170's seed")
	}
}

func TestLargestPrime(t *testing.T) {
	tests := []struct{ n, want uint64 }{
		{0, 0}, {1, 0}, {2, 2}, {3, 3}, {4, 3}, {10, 7}, {13, 13},
		{262144, 262139},
	}
	for _, tt := range tests {
		if got := largestPrime(tt.n); got != tt.want {
			t.Errorf("largestPrime(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestNumItems(t *testing.T) {
	if n, err := LightCacheNumItems(0); err != nil || n != 262139 {
		t.Errorf("light cache items of epoch 0 = %d (%v), want 262139", n, err)
	}
	if m, err := FullDatasetNumItems(0); err != nil || m != 8388593 {
		t.Errorf("full dataset items of epoch 0 = %d (%v), want 8388593", m, err)
	}
	// The item counts only ever grow with the epoch.
	prev, _ := LightCacheNumItems(0)
	for _, epoch := range []uint32{1, 2, 100, 1000} {
		n, err := LightCacheNumItems(epoch)
		if err != nil {
			t.Fatalf("epoch %d: %v", epoch, err)
		}
		if n <= prev {
			t.Errorf("light cache shrank between epochs: %d -> %d", prev, n)
		}
		prev = n
	}
}

func TestNumItemsInvalidEpoch(t *testing.T) {
	if _, err := LightCacheNumItems(MaxEpoch + 1); !errors.Is(err, ErrInvalidEpoch) {
		t.Errorf("light cache items past MaxEpoch: err = %v", err)
	}
	if _, err := FullDatasetNumItems(MaxEpoch + 1); !errors.Is(err, ErrInvalidEpoch) {
		t.Errorf("full dataset items past MaxEpoch: err = %v", err)
	}
	if _, err := LightCacheNumItems(MaxEpoch); err != nil {
		t.Errorf("MaxEpoch itself must be usable: %v", err)
	}
}

// Two independent builds of the same epoch must agree byte for byte.
func TestLightCacheDeterminism(t *testing.T) {
	ctx := epoch0Context(t)

	rebuilt := make([]byte, len(ctx.lightCache))
	buildLightCache(rebuilt, ctx.lightCacheNumItems, EpochSeed(0))
	if !bytes.Equal(rebuilt, ctx.lightCache) {
		t.Fatal("light cache differs between independent builds")
	}
}

// The interleaved 1024-bit derivation must produce exactly the two partial
// items it doubles up.
func TestDatasetItemDoubling(t *testing.T) {
	ctx := epoch0Context(t)

	for _, index := range []uint32{0, 1, 13, 1234, 333333} {
		full := CalculateDatasetItem1024(ctx, index)
		if half := CalculateDatasetItem512(ctx, 2*index); full[0] != half {
			t.Errorf("item %d: first half diverges from partial item %d", index, 2*index)
		}
		if half := CalculateDatasetItem512(ctx, 2*index+1); full[1] != half {
			t.Errorf("item %d: second half diverges from partial item %d", index, 2*index+1)
		}
	}
}

func TestEpochOfBlock(t *testing.T) {
	tests := []struct {
		block uint64
		epoch uint32
	}{
		{0, 0}, {29999, 0}, {30000, 1}, {5000000, 166},
		{uint64(MaxEpoch)*EpochLength + 1, MaxEpoch},
		{1 << 62, MaxEpoch + 1},
	}
	for _, tt := range tests {
		if got := EpochOfBlock(tt.block); got != tt.epoch {
			t.Errorf("EpochOfBlock(%d) = %d, want %d", tt.block, got, tt.epoch)
		}
	}
}

func BenchmarkHashLight(b *testing.B) {
	ctx := epoch0Context(b)
	header := HexToHash256("bc544c2baba832600013bd5d1983f592e9557d04b0fb5ef7a100434a5fc8d52a")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		HashLight(ctx, header, uint64(i))
	}
}

func BenchmarkDatasetItem1024(b *testing.B) {
	ctx := epoch0Context(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		CalculateDatasetItem1024(ctx, uint32(i))
	}
}
