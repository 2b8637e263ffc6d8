// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package enrich

import "strings"

// TitleKey identifies a film within a report: the trimmed, lower-cased
// title and the release year joined by "::".
type TitleKey string

// NewTitleKey builds the key for title and year. An empty year yields a
// key ending in "::".
func NewTitleKey(title, year string) TitleKey {
	return TitleKey(strings.ToLower(strings.TrimSpace(title)) + "::" + strings.TrimSpace(year))
}

// Query is one title to resolve.
type Query struct {
	Title string
	Year  string
}

// Key returns the query's TitleKey.
func (q Query) Key() TitleKey {
	return NewTitleKey(q.Title, q.Year)
}

// uniqueQueries drops queries whose key was already seen, keeping the
// first occurrence and the input order.
func uniqueQueries(queries []Query) []Query {
	seen := make(map[TitleKey]struct{}, len(queries))
	out := make([]Query, 0, len(queries))
	for _, q := range queries {
		if strings.TrimSpace(q.Title) == "" {
			continue
		}
		key := q.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}
	return out
}
