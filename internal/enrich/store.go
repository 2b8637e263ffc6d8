// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package enrich

import (
	"fmt"
	"time"

	"github.com/tomtom215/boxdstats/internal/cache"
	"github.com/tomtom215/boxdstats/internal/config"
	"github.com/tomtom215/boxdstats/internal/logging"
)

// Store kinds accepted by OpenStore.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreBadger = "badger"
)

// Store keeps positive metadata across reports.
type Store interface {
	Get(key TitleKey) (*Metadata, bool)
	Put(key TitleKey, md *Metadata)
	Close() error
}

// Maintainer is implemented by stores that need periodic upkeep such as
// dropping expired entries or reclaiming disk space.
type Maintainer interface {
	Maintain() error
}

// OpenStore builds the store named by cfg.Store. "none" returns a nil Store.
func OpenStore(cfg config.EnrichmentConfig) (Store, error) {
	switch cfg.Store {
	case "", StoreNone:
		return nil, nil
	case StoreMemory:
		return NewMemoryStore(cfg.MemoryCapacity, cfg.StoreTTL), nil
	case StoreBadger:
		store, err := OpenBadgerStore(cfg.StorePath, cfg.StoreTTL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown metadata store %q", cfg.Store)
	}
}

// MemoryStore is an in-process LRU store.
type MemoryStore struct {
	lru *cache.LRUCache[*Metadata]
}

// NewMemoryStore creates a store of at most capacity entries living ttl each.
func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{lru: cache.NewLRUCache[*Metadata](capacity, ttl)}
}

// Get implements Store.
func (s *MemoryStore) Get(key TitleKey) (*Metadata, bool) {
	return s.lru.Get(string(key))
}

// Put implements Store. Nil metadata is ignored.
func (s *MemoryStore) Put(key TitleKey, md *Metadata) {
	if md == nil {
		return
	}
	s.lru.Add(string(key), md)
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	return s.lru.Len()
}

// Maintain drops expired entries.
func (s *MemoryStore) Maintain() error {
	if n := s.lru.CleanupExpired(); n > 0 {
		logging.Debug().Str("component", "enrich").Int("removed", n).Msg("Expired metadata dropped")
	}
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
