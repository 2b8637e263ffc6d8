// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

/*
Package stats computes the aggregates of a diary report.

Most functions are pure: they take parsed export rows and return values
ready for JSON encoding. The few that need film metadata take an Enricher,
which *enrich.Batcher implements, so lookups stay batched and paced and
share one per-report cache.

Rows that lack a field an aggregate needs are skipped by that aggregate
only. Averages are rounded to two decimal places. Rankings sort by count
descending and break ties by name so the output is deterministic.
*/
package stats
