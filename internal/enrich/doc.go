// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

/*
Package enrich resolves diary titles to film metadata.

A title and its release year form a TitleKey. Every unique key is looked up
at most once per report: the Cache remembers both hits and misses, and
concurrent misses on the same key collapse into a single provider call.

	resolver := enrich.NewCache(tmdbClient, enrich.WithStore(store))
	batcher := enrich.NewBatcher(resolver, enrich.NewLimiter(200*time.Millisecond), 25, 5)
	byKey := batcher.ResolveAll(ctx, queries)

Batches of lookups run concurrently. Between batches the Batcher waits on a
Limiter so a large diary does not flood the provider.

A Store optionally carries positive results across reports. Misses are
never stored, so a title that was not found is retried on the next report.
*/
package enrich
