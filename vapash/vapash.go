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

// Package vapash implements the vapash proof-of-work algorithm.
//
// The free functions (NewEpochContext, HashLight, Verify, ...) expose the
// raw algorithm over explicit epoch contexts. The Engine type layers the
// usual block-number oriented surface on top, keeping recent contexts in an
// LRU and pre-warming the next epoch.
package vapash

import (
	"errors"
	"time"

	"gitlab.com/vapory/vapash/common/log"
	"gitlab.com/vapory/vapash/common/toml"
)

var (
	// ErrInvalidMixDigest is returned when the claimed mix hash does not
	// match the recomputed one.
	ErrInvalidMixDigest = errors.New("vapash: invalid mix digest")

	// ErrInvalidPoW is returned when the final hash does not beat the
	// boundary.
	ErrInvalidPoW = errors.New("vapash: invalid proof-of-work")
)

// Mode defines the type and amount of PoW verification an engine makes.
type Mode uint

const (
	ModeNormal Mode = iota
	ModeTest
	ModeFake
	ModeFullFake
)

// Config are the configuration parameters of the engine.
type Config struct {
	ContextsInMem int  `toml:"contexts-in-mem"` // Light contexts kept in the LRU
	DatasetsInMem int  `toml:"datasets-in-mem"` // Full-dataset contexts kept in the LRU; 0 disables full mode
	PowMode       Mode `toml:"pow-mode"`
}

// ConfigFromFile loads an engine configuration from a TOML file.
func ConfigFromFile(path string) (*Config, error) {
	config := new(Config)
	if err := toml.DecodeFile(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

// Engine is a block-number oriented front to the algorithm, managing shared
// epoch contexts behind an LRU.
type Engine struct {
	config *Config

	contexts *lru // Light contexts to avoid rebuilding caches too often
	datasets *lru // Full-dataset contexts, only when the config asks for them

	// The fields below are hooks for testing
	shared    *Engine       // Shared engine to avoid cache regeneration
	fakeFail  *uint64       // Block number which fails PoW check even in fake mode, nil for none
	fakeDelay time.Duration // Time delay to sleep for before returning from verify
}

// New creates an engine for the given configuration.
func New(config *Config) *Engine {
	if config.ContextsInMem <= 0 {
		log.Warn("One vapash context must always be in memory", "requested", config.ContextsInMem)
		config.ContextsInMem = 1
	}
	e := &Engine{
		config:   config,
		contexts: newlru("context", config.ContextsInMem, false),
	}
	if config.DatasetsInMem > 0 {
		e.datasets = newlru("dataset", config.DatasetsInMem, true)
	}
	return e
}

// NewTester creates a small engine useful only for testing purposes.
func NewTester() *Engine {
	return New(&Config{ContextsInMem: 1, PowMode: ModeTest})
}

// NewFaker creates an engine with a fake PoW scheme that accepts all seals
// as valid. Hashing still computes real digests.
func NewFaker() *Engine {
	return New(&Config{ContextsInMem: 1, PowMode: ModeFake})
}

// NewFakeFailer creates a fake engine that accepts all seals as valid
// apart from the single block number specified.
func NewFakeFailer(fail uint64) *Engine {
	e := NewFaker()
	e.fakeFail = &fail
	return e
}

// NewFakeDelayer creates a fake engine that accepts all seals as valid, but
// delays verifications by some time.
func NewFakeDelayer(delay time.Duration) *Engine {
	e := NewFaker()
	e.fakeDelay = delay
	return e
}

// NewFullFaker creates an engine with a full fake scheme that accepts all
// seals as valid without any checks whatsoever.
func NewFullFaker() *Engine {
	return New(&Config{ContextsInMem: 1, PowMode: ModeFullFake})
}

// sharedEngine is a full instance that can be shared between multiple callers.
var sharedEngine = New(&Config{ContextsInMem: 3, DatasetsInMem: 1, PowMode: ModeNormal})

// NewShared creates an engine backed by the instance shared between all
// requesters in the same process.
func NewShared() *Engine {
	return &Engine{shared: sharedEngine}
}

// context retrieves the epoch context covering the given block number,
// building it if no earlier call did. With full set (and datasets
// configured) the context carries the lazy full dataset.
func (e *Engine) context(block uint64, full bool) (*EpochContext, error) {
	cache := e.contexts
	if full && e.datasets != nil {
		cache = e.datasets
	}
	item, future := cache.get(EpochOfBlock(block))
	// If an item for the next epoch was requested, generate it concurrently
	// so the epoch transition doesn't stall verification.
	if future != nil && e.config.PowMode == ModeNormal {
		go func() {
			if _, err := future.generate(); err != nil {
				log.Warn("Failed to pre-generate vapash "+cache.what, "epoch", future.epoch, "err", err)
			}
		}()
	}
	return item.generate()
}

// HashByNumber computes the proof-of-work digests for a header hash and
// nonce at the given block number, using the full dataset when the engine
// is configured with one.
func (e *Engine) HashByNumber(block uint64, header Hash256, nonce uint64) (Result, error) {
	if e.shared != nil {
		return e.shared.HashByNumber(block, header, nonce)
	}
	full := e.datasets != nil
	ctx, err := e.context(block, full)
	if err != nil {
		return Result{}, err
	}
	if full {
		return Hash(ctx, header, nonce), nil
	}
	return HashLight(ctx, header, nonce), nil
}

// VerifyByNumber checks a claimed seal at the given block number. It
// returns nil on success, ErrInvalidMixDigest or ErrInvalidPoW on seal
// mismatch, and a context construction error for unusable epochs.
func (e *Engine) VerifyByNumber(block uint64, header, mixHash Hash256, nonce uint64, boundary Hash256) error {
	if e.shared != nil {
		return e.shared.VerifyByNumber(block, header, mixHash, nonce, boundary)
	}
	if e.config.PowMode == ModeFake || e.config.PowMode == ModeFullFake {
		time.Sleep(e.fakeDelay)
		if e.fakeFail != nil && *e.fakeFail == block {
			return ErrInvalidPoW
		}
		return nil
	}
	ctx, err := e.context(block, false)
	if err != nil {
		return err
	}
	result := HashLight(ctx, header, nonce)
	if result.MixHash != mixHash {
		return ErrInvalidMixDigest
	}
	if result.FinalHash.word0() >= boundary.word0() {
		return ErrInvalidPoW
	}
	return nil
}

// SearchByNumber linearly probes the nonce window for a seal beating the
// boundary, through the full dataset when the engine carries one.
func (e *Engine) SearchByNumber(block uint64, header, boundary Hash256, startNonce, iterations uint64) (uint64, bool, error) {
	if e.shared != nil {
		return e.shared.SearchByNumber(block, header, boundary, startNonce, iterations)
	}
	full := e.datasets != nil
	ctx, err := e.context(block, full)
	if err != nil {
		return 0, false, err
	}
	if full {
		nonce, found := Search(ctx, header, boundary, startNonce, iterations)
		return nonce, found, nil
	}
	nonce, found := SearchLight(ctx, header, boundary, startNonce, iterations)
	return nonce, found, nil
}

// SeedHash is the seed to use for generating a verification cache and the
// mining dataset of the epoch covering a block number.
func SeedHash(block uint64) Hash256 {
	return EpochSeed(EpochOfBlock(block))
}
