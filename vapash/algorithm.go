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
	"errors"

	"gitlab.com/vapory/vapash/common/bitutil"
	"gitlab.com/vapory/vapash/crypto/keccak"
)

const (
	datasetInitBytes   = 1 << 30 // Bytes in dataset at genesis
	datasetGrowthBytes = 1 << 23 // Dataset growth per epoch
	cacheInitBytes     = 1 << 24 // Bytes in cache at genesis
	cacheGrowthBytes   = 1 << 17 // Cache growth per epoch
	mixBytes           = 128     // Width of mix
	hashBytes          = 64      // Hash length in bytes
	hashWords          = 16      // Number of 32 bit ints in a hash
	mixWords           = 32      // Number of 32 bit ints in the mix
	datasetParents     = 256     // Number of parents of each dataset element
	cacheRounds        = 3       // Number of rounds in cache production
	loopAccesses       = 64      // Number of accesses in hashimoto loop
	fnvPrime           = 0x01000193
)

// EpochLength is the number of blocks sharing one cache/dataset epoch.
const EpochLength = 30000

// MaxEpoch is the highest usable epoch number. Beyond it the partial
// dataset item indices (two per full item) no longer fit in 32 bits, which
// the item derivation is defined on.
const MaxEpoch = 32640

// ErrInvalidEpoch is returned when an epoch number is past MaxEpoch.
var ErrInvalidEpoch = errors.New("vapash: epoch number out of range")

// EpochOfBlock maps a block number to its epoch number. Blocks past the
// last representable epoch map to MaxEpoch+1, which every context
// constructor rejects with ErrInvalidEpoch.
func EpochOfBlock(block uint64) uint32 {
	if epoch := block / EpochLength; epoch <= MaxEpoch {
		return uint32(epoch)
	}
	return MaxEpoch + 1
}

// EpochSeed derives the seed hash of an epoch: Keccak-256 iterated epoch
// times over the zero hash.
func EpochSeed(epoch uint32) Hash256 {
	var seed Hash256
	for i := uint32(0); i < epoch; i++ {
		keccak.Keccak256Into((*[32]byte)(&seed), seed[:])
	}
	return seed
}

// largestPrime returns the greatest prime not exceeding n, zero when there
// is none. Plain trial division over odd candidates; the numbers arising
// from epoch parameters keep this well under a millisecond, but execution
// time does depend on the input.
func largestPrime(n uint64) uint64 {
	if n < 2 {
		return 0
	}
	if n == 2 {
		return 2
	}
	if n%2 == 0 {
		n--
	}
	for ; !isOddPrime(n); n -= 2 {
	}
	return n
}

func isOddPrime(n uint64) bool {
	for d := uint64(3); d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// LightCacheNumItems returns the light cache length for an epoch: the
// largest prime count of 64-byte items fitting the epoch's size bound.
func LightCacheNumItems(epoch uint32) (int, error) {
	if epoch > MaxEpoch {
		return 0, ErrInvalidEpoch
	}
	bound := uint64(cacheInitBytes) + uint64(epoch)*cacheGrowthBytes
	return int(largestPrime(bound / hashBytes)), nil
}

// FullDatasetNumItems returns the full dataset length for an epoch: the
// largest prime count of 128-byte items fitting the epoch's size bound.
func FullDatasetNumItems(epoch uint32) (int, error) {
	if epoch > MaxEpoch {
		return 0, ErrInvalidEpoch
	}
	bound := uint64(datasetInitBytes) + uint64(epoch)*datasetGrowthBytes
	return int(largestPrime(bound / mixBytes)), nil
}

// buildLightCache fills cache (numItems 64-byte rows) from the epoch seed.
// The rows are first chained Keccak-512 images of the seed, then reshuffled
// by three rounds of the RandMemoHash construction from Lerner's Strict
// Memory Hard Hashing Functions (2014).
func buildLightCache(cache []byte, numItems int, seed Hash256) {
	keccak.Keccak512Into((*[hashBytes]byte)(cache[:hashBytes]), seed[:])
	for off := hashBytes; off < len(cache); off += hashBytes {
		keccak.Keccak512Into((*[hashBytes]byte)(cache[off:off+hashBytes]), cache[off-hashBytes:off])
	}

	var temp [hashBytes]byte
	for round := 0; round < cacheRounds; round++ {
		for i := 0; i < numItems; i++ {
			var (
				dst = i * hashBytes
				src = ((i - 1 + numItems) % numItems) * hashBytes
				xor = int(binary.LittleEndian.Uint32(cache[dst:])%uint32(numItems)) * hashBytes
			)
			bitutil.XORBytes(temp[:], cache[xor:xor+hashBytes], cache[src:src+hashBytes])
			keccak.Keccak512Into((*[hashBytes]byte)(cache[dst:dst+hashBytes]), temp[:])
		}
	}
}

// fnv is the 32-bit FNV-1-like mixing step. Unlike the FNV spec the prime
// multiplies the whole 32-bit input rather than one octet at a time.
func fnv(u, v uint32) uint32 {
	return u*fnvPrime ^ v
}

// CalculateDatasetItem512 derives one 512-bit dataset item from the light
// cache by folding in 256 pseudo-randomly selected parent rows.
func CalculateDatasetItem512(ctx *EpochContext, index uint32) Hash512 {
	var (
		cache = ctx.lightCache
		n     = uint32(ctx.lightCacheNumItems)
		init  = index
	)
	var mix Hash512
	copy(mix[:], cache[int(index%n)*hashBytes:])
	binary.LittleEndian.PutUint32(mix[:], mix.word32(0)^init)
	keccak.Keccak512Into((*[hashBytes]byte)(&mix), mix[:])

	var words [hashWords]uint32
	for k := range words {
		words[k] = mix.word32(k)
	}
	for j := uint32(0); j < datasetParents; j++ {
		parent := int(fnv(init^j, words[j%hashWords])%n) * hashBytes
		for k := range words {
			words[k] = fnv(words[k], binary.LittleEndian.Uint32(cache[parent+k*4:]))
		}
	}
	for k, w := range words {
		binary.LittleEndian.PutUint32(mix[k*4:], w)
	}
	keccak.Keccak512Into((*[hashBytes]byte)(&mix), mix[:])
	return mix
}

// CalculateDatasetItem1024 derives a full 1024-bit dataset item, the two
// partial items 2*index and 2*index+1 computed interleaved so both walk the
// cache in one pass.
func CalculateDatasetItem1024(ctx *EpochContext, index uint32) Hash1024 {
	var (
		cache = ctx.lightCache
		n     = uint32(ctx.lightCacheNumItems)
		init0 = index * 2
		init1 = index*2 + 1
	)
	var item Hash1024
	copy(item[0][:], cache[int(init0%n)*hashBytes:])
	copy(item[1][:], cache[int(init1%n)*hashBytes:])
	binary.LittleEndian.PutUint32(item[0][:], item[0].word32(0)^init0)
	binary.LittleEndian.PutUint32(item[1][:], item[1].word32(0)^init1)
	keccak.Keccak512Into((*[hashBytes]byte)(&item[0]), item[0][:])
	keccak.Keccak512Into((*[hashBytes]byte)(&item[1]), item[1][:])

	var words0, words1 [hashWords]uint32
	for k := 0; k < hashWords; k++ {
		words0[k] = item[0].word32(k)
		words1[k] = item[1].word32(k)
	}
	for j := uint32(0); j < datasetParents; j++ {
		parent0 := int(fnv(init0^j, words0[j%hashWords])%n) * hashBytes
		for k := range words0 {
			words0[k] = fnv(words0[k], binary.LittleEndian.Uint32(cache[parent0+k*4:]))
		}
		parent1 := int(fnv(init1^j, words1[j%hashWords])%n) * hashBytes
		for k := range words1 {
			words1[k] = fnv(words1[k], binary.LittleEndian.Uint32(cache[parent1+k*4:]))
		}
	}
	for k := 0; k < hashWords; k++ {
		binary.LittleEndian.PutUint32(item[0][k*4:], words0[k])
		binary.LittleEndian.PutUint32(item[1][k*4:], words1[k])
	}
	keccak.Keccak512Into((*[hashBytes]byte)(&item[0]), item[0][:])
	keccak.Keccak512Into((*[hashBytes]byte)(&item[1]), item[1][:])
	return item
}

// Result carries the two digests produced by the hashimoto kernel.
type Result struct {
	FinalHash Hash256 // compared against the boundary
	MixHash   Hash256 // FNV-compressed intermediate, kept for verification
}

// lookupFunc returns full dataset item i, however the caller sources it.
type lookupFunc func(index uint32) Hash1024

// hashimoto aggregates pseudo-random dataset items over the header/nonce
// seed and compresses the mix into the final digest pair.
func hashimoto(datasetNumItems int, header Hash256, nonce uint64, lookup lookupFunc) Result {
	// Combine header and nonce into the 64-byte kernel seed.
	var seedData [40]byte
	copy(seedData[:32], header[:])
	binary.LittleEndian.PutUint64(seedData[32:], nonce)
	seed := keccak.Keccak512(seedData[:])
	seedInit := binary.LittleEndian.Uint32(seed[:4])

	// Start the mix with the replicated seed.
	var mix [mixWords]uint32
	for i := 0; i < hashWords; i++ {
		w := binary.LittleEndian.Uint32(seed[i*4:])
		mix[i], mix[i+hashWords] = w, w
	}
	numItems := uint32(datasetNumItems)
	for i := uint32(0); i < loopAccesses; i++ {
		item := lookup(fnv(i^seedInit, mix[i%mixWords]) % numItems)
		for j := 0; j < mixWords; j++ {
			mix[j] = fnv(mix[j], item.word32(j))
		}
	}

	// Compress the mix down to 256 bits.
	var mixHash Hash256
	for k := 0; k < mixWords/4; k++ {
		mixHash.setWord32(k, fnv(fnv(fnv(mix[k*4], mix[k*4+1]), mix[k*4+2]), mix[k*4+3]))
	}

	var finalData [96]byte
	copy(finalData[:64], seed[:])
	copy(finalData[64:], mixHash[:])
	return Result{FinalHash: Keccak256(finalData[:]), MixHash: mixHash}
}

// Keccak256 hashes data with the library's Keccak-256.
func Keccak256(data []byte) Hash256 {
	return Hash256(keccak.Keccak256(data))
}

// Keccak512 hashes data with the library's Keccak-512.
func Keccak512(data []byte) Hash512 {
	return Hash512(keccak.Keccak512(data))
}

// HashLight computes the proof-of-work digests using only the light cache,
// deriving every accessed dataset item on the fly.
func HashLight(ctx *EpochContext, header Hash256, nonce uint64) Result {
	return hashimoto(ctx.fullDatasetNumItems, header, nonce, func(index uint32) Hash1024 {
		return CalculateDatasetItem1024(ctx, index)
	})
}

// Hash computes the proof-of-work digests through the context's lazy full
// dataset, memoizing every item it touches. A context without a dataset is
// served the light way.
func Hash(ctx *EpochContext, header Hash256, nonce uint64) Result {
	if ctx.fullDataset == nil {
		return HashLight(ctx, header, nonce)
	}
	return hashimoto(ctx.fullDatasetNumItems, header, nonce, ctx.fullDatasetItem)
}
