// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package stats

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tomtom215/boxdstats/internal/tabular"
)

// Entry is one ranked counter key.
type Entry struct {
	Key   string
	Count int
}

// Counter counts occurrences of names.
type Counter struct {
	counts map[string]int
}

// NewCounter returns an empty Counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Add counts name once. Blank names are ignored.
func (c *Counter) Add(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	c.counts[name]++
}

// Count returns how often name was added.
func (c *Counter) Count(name string) int {
	return c.counts[name]
}

// Len returns the number of distinct names.
func (c *Counter) Len() int {
	return len(c.counts)
}

// Ranked returns every name, most frequent first, ties in name order.
func (c *Counter) Ranked() []Entry {
	entries := make([]Entry, 0, len(c.counts))
	for k, v := range c.counts {
		entries = append(entries, Entry{Key: k, Count: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// Top returns the n highest ranked names.
func (c *Counter) Top(n int) []Entry {
	ranked := c.Ranked()
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// NameCount is a ranked genre, country or language.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// YearCount is a count keyed by year.
type YearCount struct {
	Year  string `json:"year"`
	Count int    `json:"count"`
}

// TagCount is a ranked diary tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

func toNameCounts(entries []Entry) []NameCount {
	out := make([]NameCount, len(entries))
	for i, e := range entries {
		out[i] = NameCount{Name: e.Key, Count: e.Count}
	}
	return out
}

func toYearCounts(entries []Entry) []YearCount {
	out := make([]YearCount, len(entries))
	for i, e := range entries {
		out[i] = YearCount{Year: e.Key, Count: e.Count}
	}
	return out
}

func toTagCounts(entries []Entry) []TagCount {
	out := make([]TagCount, len(entries))
	for i, e := range entries {
		out[i] = TagCount{Tag: e.Key, Count: e.Count}
	}
	return out
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// average returns sum/count rounded, or 0 for no values.
func average(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return round2(sum / float64(count))
}

// releaseYear returns the row's year as a normalized string, or "".
func releaseYear(row tabular.Row) string {
	if y, ok := row.Int(tabular.Year); ok {
		return strconv.Itoa(y)
	}
	return ""
}
