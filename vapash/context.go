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
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/edsrzf/mmap-go"

	"gitlab.com/vapory/vapash/common/log"
)

const itemWords = mixBytes / 8 // 64-bit words per full dataset item

// EpochContext owns the per-epoch state of the algorithm: the light cache,
// always present and immutable once built, and optionally a lazily
// materialized full dataset.
//
// The light cache may be read from any number of goroutines. The full
// dataset may be read and written concurrently; every slot goes from zero
// to its final value exactly once, with racing writers storing identical
// bytes. Destroy must not overlap any other use of the context.
type EpochContext struct {
	epoch               uint32
	lightCacheNumItems  int
	fullDatasetNumItems int

	lightCache  []byte   // lightCacheNumItems 64-byte rows
	fullDataset []uint64 // itemWords words per dataset item, all-zero means not yet computed
	fullMmap    mmap.MMap
}

// NewEpochContext builds the light cache for an epoch and returns a context
// without a full dataset.
func NewEpochContext(epoch uint32) (*EpochContext, error) {
	numItems, err := LightCacheNumItems(epoch)
	if err != nil {
		return nil, err
	}
	datasetItems, err := FullDatasetNumItems(epoch)
	if err != nil {
		return nil, err
	}
	ctx := &EpochContext{
		epoch:               epoch,
		lightCacheNumItems:  numItems,
		fullDatasetNumItems: datasetItems,
		lightCache:          make([]byte, numItems*hashBytes),
	}
	start := time.Now()
	buildLightCache(ctx.lightCache, numItems, EpochSeed(epoch))
	log.Debug("Built vapash light cache", "epoch", epoch, "items", numItems, "elapsed", time.Since(start))
	return ctx, nil
}

// NewEpochContextFull builds a context whose full dataset region is
// allocated up front and filled item by item as the hashing kernel touches
// it. The region is an anonymous memory mapping, so untouched items cost
// address space but no resident memory.
func NewEpochContextFull(epoch uint32) (*EpochContext, error) {
	ctx, err := NewEpochContext(epoch)
	if err != nil {
		return nil, err
	}
	size := ctx.fullDatasetNumItems * mixBytes
	mem, err := mmap.MapRegion(nil, size, mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, fmt.Errorf("vapash: mapping %d byte full dataset: %w", size, err)
	}
	ctx.fullMmap = mem
	ctx.fullDataset = unsafe.Slice((*uint64)(unsafe.Pointer(&mem[0])), ctx.fullDatasetNumItems*itemWords)
	log.Debug("Mapped vapash full dataset", "epoch", epoch, "items", ctx.fullDatasetNumItems, "bytes", size)
	return ctx, nil
}

// Epoch returns the epoch number the context was built for.
func (ctx *EpochContext) Epoch() uint32 { return ctx.epoch }

// LightCacheNumItems returns the light cache length in 512-bit items.
func (ctx *EpochContext) LightCacheNumItems() int { return ctx.lightCacheNumItems }

// FullDatasetNumItems returns the full dataset length in 1024-bit items,
// whether or not the dataset is materialized.
func (ctx *EpochContext) FullDatasetNumItems() int { return ctx.fullDatasetNumItems }

// HasFullDataset reports whether the context carries a lazy full dataset.
func (ctx *EpochContext) HasFullDataset() bool { return ctx.fullDataset != nil }

// Destroy releases the caches. The context must not be in use, and must not
// be used again.
func (ctx *EpochContext) Destroy() {
	if ctx.fullMmap != nil {
		if err := ctx.fullMmap.Unmap(); err != nil {
			log.Error("Failed to unmap vapash full dataset", "epoch", ctx.epoch, "err", err)
		}
		ctx.fullMmap = nil
	}
	ctx.fullDataset = nil
	ctx.lightCache = nil
}

// fullDatasetItem serves dataset item index from the lazy region. A slot
// whose signal word (the item's first 64-bit word) is zero has not been
// computed yet; the item is derived from the light cache and stored with
// the signal word written last, so a concurrent reader observes either the
// zero slot or the complete item, never a torn mix. Racing writers store
// identical values.
func (ctx *EpochContext) fullDatasetItem(index uint32) Hash1024 {
	words := ctx.fullDataset[int(index)*itemWords : (int(index)+1)*itemWords]
	if atomic.LoadUint64(&words[0]) == 0 {
		item := CalculateDatasetItem1024(ctx, index)
		for k := itemWords - 1; k >= 0; k-- {
			atomic.StoreUint64(&words[k], item.word64(k))
		}
		return item
	}
	var item Hash1024
	for k := 0; k < itemWords; k++ {
		item.setWord64(k, atomic.LoadUint64(&words[k]))
	}
	return item
}

// registryEntry memoizes one context build, successful or not.
type registryEntry struct {
	once sync.Once
	ctx  *EpochContext
	err  error
}

// contextRegistry hands out one shared context per epoch. The map lock
// only guards entry creation; builds for different epochs run in parallel
// while duplicate requests for one epoch block on its entry.
type contextRegistry struct {
	build   func(epoch uint32) (*EpochContext, error)
	mu      sync.Mutex
	entries map[uint32]*registryEntry
}

func newContextRegistry(build func(epoch uint32) (*EpochContext, error)) *contextRegistry {
	return &contextRegistry{build: build, entries: make(map[uint32]*registryEntry)}
}

func (r *contextRegistry) get(epoch uint32) (*EpochContext, error) {
	r.mu.Lock()
	entry, ok := r.entries[epoch]
	if !ok {
		entry = new(registryEntry)
		r.entries[epoch] = entry
	}
	r.mu.Unlock()

	entry.once.Do(func() {
		entry.ctx, entry.err = r.build(epoch)
	})
	return entry.ctx, entry.err
}

var (
	globalLightContexts = newContextRegistry(NewEpochContext)
	globalFullContexts  = newContextRegistry(NewEpochContextFull)
)

// GetGlobalEpochContext returns the process-wide shared light context for
// an epoch, building it on first request. Shared contexts live until the
// process exits and must not be destroyed by callers.
func GetGlobalEpochContext(epoch uint32) (*EpochContext, error) {
	return globalLightContexts.get(epoch)
}

// GetGlobalEpochContextFull is GetGlobalEpochContext for contexts carrying
// a lazy full dataset.
func GetGlobalEpochContextFull(epoch uint32) (*EpochContext, error) {
	return globalFullContexts.get(epoch)
}
