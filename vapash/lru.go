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
	"runtime"
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"

	"gitlab.com/vapory/vapash/common/log"
)

// ctxItem wraps an epoch context with the metadata the engine needs to
// build it lazily, exactly once, from whichever goroutine gets there first.
type ctxItem struct {
	epoch uint32
	full  bool
	once  sync.Once
	ctx   *EpochContext
	err   error
}

func newCtxItem(epoch uint32, full bool) *ctxItem {
	return &ctxItem{epoch: epoch, full: full}
}

// generate builds the context on first call and replays the result after.
func (c *ctxItem) generate() (*EpochContext, error) {
	c.once.Do(func() {
		if c.full {
			c.ctx, c.err = NewEpochContextFull(c.epoch)
			if c.err == nil {
				// The mapping is released when the evicted item falls out of
				// reach, not at eviction time: a hashing goroutine may still
				// hold the context.
				runtime.SetFinalizer(c.ctx, (*EpochContext).Destroy)
			}
		} else {
			c.ctx, c.err = NewEpochContext(c.epoch)
		}
	})
	return c.ctx, c.err
}

// lru tracks contexts by their last use time, keeping at most N of them.
type lru struct {
	what string
	full bool
	mu   sync.Mutex
	// Items are kept in a LRU cache, but there is a special case:
	// We always keep an item for (highest seen epoch) + 1 as the 'future item'.
	cache      *simplelru.LRU
	future     uint32
	futureItem *ctxItem
}

// newlru creates a least-recently-used cache of per-epoch contexts.
func newlru(what string, maxItems int, full bool) *lru {
	if maxItems <= 0 {
		maxItems = 1
	}
	cache, _ := simplelru.NewLRU(maxItems, func(key, value interface{}) {
		log.Trace("Evicted vapash "+what, "epoch", key)
	})
	return &lru{what: what, full: full, cache: cache}
}

// get retrieves or creates an item for the given epoch. The first return
// value is always non-nil. The second return value is non-nil if lru thinks
// that an item will be useful in the near future.
func (l *lru) get(epoch uint32) (item, future *ctxItem) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Get or create the item for the requested epoch.
	if cached, ok := l.cache.Get(epoch); ok {
		item = cached.(*ctxItem)
	} else {
		if l.future > 0 && l.future == epoch {
			item = l.futureItem
		} else {
			log.Trace("Requiring new vapash "+l.what, "epoch", epoch)
			item = newCtxItem(epoch, l.full)
		}
		l.cache.Add(epoch, item)
	}
	// Update the 'future item' if epoch is larger than previously seen.
	if epoch < MaxEpoch && l.future < epoch+1 {
		log.Trace("Requiring new future vapash "+l.what, "epoch", epoch+1)
		future = newCtxItem(epoch+1, l.full)
		l.future = epoch + 1
		l.futureItem = future
	}
	return item, future
}
