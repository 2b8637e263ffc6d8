// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package enrich

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/boxdstats/internal/logging"
	"github.com/tomtom215/boxdstats/internal/metrics"
	"github.com/tomtom215/boxdstats/internal/tmdb"
)

// Cache type labels for metrics.
const (
	cacheRun    = "run"
	cacheStore  = "store"
	cachePoster = "poster"
)

// Resolver resolves titles to metadata. Cache is the production
// implementation; aggregators depend only on this interface.
type Resolver interface {
	// Get returns a previously resolved entry. The bool reports whether the
	// key has been resolved at all; a nil *Metadata with true is a cached miss.
	Get(key TitleKey) (*Metadata, bool)

	// GetOrFetch returns metadata for title and year, fetching on a miss.
	// Failures resolve to nil.
	GetOrFetch(ctx context.Context, title, year string) *Metadata

	// PosterOnly returns the poster path for title and year using the
	// search step alone. Failures resolve to "".
	PosterOnly(ctx context.Context, title, year string) string
}

var _ Resolver = (*Cache)(nil)

// Cache is the per-report metadata cache. Create one per report.
type Cache struct {
	provider Provider
	enabled  bool
	store    Store

	mu      sync.RWMutex
	details map[TitleKey]*Metadata
	posters map[TitleKey]string

	detailGroup singleflight.Group
	posterGroup singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithStore adds a cross-report store consulted before the provider.
func WithStore(store Store) Option {
	return func(c *Cache) {
		c.store = store
	}
}

// NewCache creates a Cache backed by provider. A nil provider, or one whose
// Enabled method reports false, disables enrichment: every lookup resolves
// to nothing without network traffic.
func NewCache(provider Provider, opts ...Option) *Cache {
	c := &Cache{
		provider: provider,
		enabled:  providerEnabled(provider),
		details:  make(map[TitleKey]*Metadata),
		posters:  make(map[TitleKey]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether lookups can reach the provider.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// Get implements Resolver.
func (c *Cache) Get(key TitleKey) (*Metadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	md, ok := c.details[key]
	return md, ok
}

// Len returns the number of resolved keys, misses included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.details)
}

// GetOrFetch implements Resolver.
func (c *Cache) GetOrFetch(ctx context.Context, title, year string) *Metadata {
	key := NewTitleKey(title, year)
	if md, ok := c.Get(key); ok {
		metrics.RecordCacheAccess(cacheRun, true)
		return md
	}
	metrics.RecordCacheAccess(cacheRun, false)

	if !c.enabled {
		metrics.RecordEnrichmentLookup(metrics.KindDetails, metrics.OutcomeDisabled, 0)
		c.setDetails(key, nil)
		return nil
	}

	v, _, _ := c.detailGroup.Do(string(key), func() (interface{}, error) {
		if md, ok := c.Get(key); ok {
			return md, nil
		}
		md := c.fetch(ctx, key, title, year)
		c.setDetails(key, md)
		return md, nil
	})
	md, _ := v.(*Metadata)
	return md
}

// PosterOnly implements Resolver. A poster already known from a detail
// lookup is reused.
func (c *Cache) PosterOnly(ctx context.Context, title, year string) string {
	key := NewTitleKey(title, year)

	c.mu.RLock()
	poster, ok := c.posters[key]
	if !ok {
		if md, found := c.details[key]; found && md != nil {
			poster, ok = md.PosterPath, true
		}
	}
	c.mu.RUnlock()
	if ok {
		metrics.RecordCacheAccess(cachePoster, true)
		return poster
	}
	metrics.RecordCacheAccess(cachePoster, false)

	if !c.enabled {
		metrics.RecordEnrichmentLookup(metrics.KindSearch, metrics.OutcomeDisabled, 0)
		c.setPoster(key, "")
		return ""
	}

	v, _, _ := c.posterGroup.Do(string(key), func() (interface{}, error) {
		c.mu.RLock()
		poster, ok := c.posters[key]
		c.mu.RUnlock()
		if ok {
			return poster, nil
		}
		if result := c.search(ctx, title, year); result != nil {
			poster = result.PosterPath
		}
		c.setPoster(key, poster)
		return poster, nil
	})
	poster, _ = v.(string)
	return poster
}

func (c *Cache) setDetails(key TitleKey, md *Metadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.details[key] = md
	if md != nil {
		c.posters[key] = md.PosterPath
	}
}

func (c *Cache) setPoster(key TitleKey, poster string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posters[key] = poster
}

// fetch consults the store, then the provider. Only positive results are
// written back to the store.
func (c *Cache) fetch(ctx context.Context, key TitleKey, title, year string) *Metadata {
	if c.store != nil {
		if md, ok := c.store.Get(key); ok {
			metrics.RecordCacheAccess(cacheStore, true)
			return md
		}
		metrics.RecordCacheAccess(cacheStore, false)
	}

	result := c.search(ctx, title, year)
	if result == nil {
		return nil
	}

	start := time.Now()
	details, err := c.provider.Details(ctx, result.ID)
	if err != nil {
		metrics.RecordEnrichmentLookup(metrics.KindDetails, lookupOutcome(err), time.Since(start))
		logging.Ctx(ctx).Debug().Err(err).
			Str("component", "enrich").
			Str("title", title).
			Int("tmdb_id", result.ID).
			Msg("Details lookup failed")
		return nil
	}
	metrics.RecordEnrichmentLookup(metrics.KindDetails, metrics.OutcomeFound, time.Since(start))

	md := NewMetadata(result, details)
	if c.store != nil {
		c.store.Put(key, md)
	}
	return md
}

func (c *Cache) search(ctx context.Context, title, year string) *tmdb.SearchResult {
	start := time.Now()
	result, err := c.provider.Search(ctx, strings.TrimSpace(title), strings.TrimSpace(year))
	if err != nil {
		metrics.RecordEnrichmentLookup(metrics.KindSearch, lookupOutcome(err), time.Since(start))
		if !errors.Is(err, tmdb.ErrNotFound) {
			logging.Ctx(ctx).Debug().Err(err).
				Str("component", "enrich").
				Str("title", title).
				Str("year", year).
				Msg("Search failed")
		}
		return nil
	}
	metrics.RecordEnrichmentLookup(metrics.KindSearch, metrics.OutcomeFound, time.Since(start))
	return result
}

func lookupOutcome(err error) string {
	switch {
	case errors.Is(err, tmdb.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, tmdb.ErrDisabled):
		return metrics.OutcomeDisabled
	default:
		return metrics.OutcomeError
	}
}
