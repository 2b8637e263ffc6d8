// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package enrich

import (
	"context"
	"sync"

	"github.com/tomtom215/boxdstats/internal/logging"
	"github.com/tomtom215/boxdstats/internal/metrics"
)

// Default batch sizes.
const (
	DefaultDetailBatchSize = 25
	DefaultPosterBatchSize = 5
)

// Batcher resolves many titles in fixed-size concurrent batches, waiting
// on a Limiter between batches.
type Batcher struct {
	resolver    Resolver
	limiter     Limiter
	detailBatch int
	posterBatch int
}

// NewBatcher creates a Batcher. A nil limiter means no pacing. Sizes below
// one fall back to the defaults.
func NewBatcher(resolver Resolver, limiter Limiter, detailBatch, posterBatch int) *Batcher {
	if detailBatch < 1 {
		detailBatch = DefaultDetailBatchSize
	}
	if posterBatch < 1 {
		posterBatch = DefaultPosterBatchSize
	}
	return &Batcher{
		resolver:    resolver,
		limiter:     limiter,
		detailBatch: detailBatch,
		posterBatch: posterBatch,
	}
}

// Resolver returns the underlying resolver.
func (b *Batcher) Resolver() Resolver {
	return b.resolver
}

// ResolveAll resolves every unique query. The result has an entry for each
// resolved key; misses map to nil. If ctx is cancelled between batches the
// remaining queries are left out.
func (b *Batcher) ResolveAll(ctx context.Context, queries []Query) map[TitleKey]*Metadata {
	out := make(map[TitleKey]*Metadata, len(queries))
	var pending []Query
	for _, q := range uniqueQueries(queries) {
		if md, ok := b.resolver.Get(q.Key()); ok {
			out[q.Key()] = md
			continue
		}
		pending = append(pending, q)
	}

	var mu sync.Mutex
	b.run(ctx, "details", pending, b.detailBatch, func(q Query) {
		md := b.resolver.GetOrFetch(ctx, q.Title, q.Year)
		mu.Lock()
		out[q.Key()] = md
		mu.Unlock()
	})
	return out
}

// PostersAll resolves a poster path for every unique query. Missing posters
// map to "".
func (b *Batcher) PostersAll(ctx context.Context, queries []Query) map[TitleKey]string {
	unique := uniqueQueries(queries)
	out := make(map[TitleKey]string, len(unique))

	var mu sync.Mutex
	b.run(ctx, "poster", unique, b.posterBatch, func(q Query) {
		poster := b.resolver.PosterOnly(ctx, q.Title, q.Year)
		mu.Lock()
		out[q.Key()] = poster
		mu.Unlock()
	})
	return out
}

func (b *Batcher) run(ctx context.Context, mode string, queries []Query, size int, fn func(Query)) {
	for i, batch := range chunk(queries, size) {
		if i > 0 && b.limiter != nil {
			if err := b.limiter.Wait(ctx); err != nil {
				logging.Ctx(ctx).Debug().Err(err).
					Str("component", "enrich").
					Str("mode", mode).
					Int("batch", i).
					Msg("Batch pacing aborted")
				return
			}
		}
		metrics.EnrichmentBatches.WithLabelValues(mode).Inc()

		var wg sync.WaitGroup
		for _, q := range batch {
			wg.Add(1)
			go func(q Query) {
				defer wg.Done()
				fn(q)
			}(q)
		}
		wg.Wait()
	}
}

func chunk(queries []Query, size int) [][]Query {
	if len(queries) == 0 {
		return nil
	}
	batches := make([][]Query, 0, (len(queries)+size-1)/size)
	for start := 0; start < len(queries); start += size {
		end := start + size
		if end > len(queries) {
			end = len(queries)
		}
		batches = append(batches, queries[start:end])
	}
	return batches
}
