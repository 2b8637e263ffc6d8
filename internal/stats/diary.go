// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package stats

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/boxdstats/internal/enrich"
	"github.com/tomtom215/boxdstats/internal/tabular"
)

// maxRewatched is how many rewatched films are reported.
const maxRewatched = 8

// LongestStreak returns the longest run of consecutive calendar days with
// at least one diary entry. Unparseable dates are ignored.
func LongestStreak(diary []tabular.Row) int {
	seen := make(map[string]struct{})
	var days []time.Time
	for _, row := range diary {
		raw := row.Text(tabular.WatchedDate)
		if _, dup := seen[raw]; dup {
			continue
		}
		d, ok := ParseWatchedDate(raw)
		if !ok {
			continue
		}
		seen[raw] = struct{}{}
		days = append(days, d.Date)
	}
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, current := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			current++
			longest = max(longest, current)
		} else {
			current = 1
		}
	}
	return longest
}

// WatchedYear is the diary activity of one calendar year.
type WatchedYear struct {
	Year          string  `json:"year"`
	Count         int     `json:"count"`
	AverageRating float64 `json:"averageRating"`
}

// WatchedYearStats counts diary entries per watched year and averages
// their ratings. The year is the first four characters of the watched
// date and must be digits. Years are sorted ascending.
func WatchedYearStats(diary []tabular.Row) []WatchedYear {
	type acc struct {
		count int
		sum   float64
		rated int
	}
	byYear := make(map[string]*acc)
	for _, row := range diary {
		raw := row.Text(tabular.WatchedDate)
		if raw == "" {
			raw, _ = row.Get("date")
			raw = strings.TrimSpace(raw)
		}
		if len(raw) < 4 || !isDigits(raw[:4]) {
			continue
		}
		year := raw[:4]
		a := byYear[year]
		if a == nil {
			a = &acc{}
			byYear[year] = a
		}
		a.count++
		if rating, ok := row.Float(tabular.Rating); ok {
			a.sum += rating
			a.rated++
		}
	}

	out := make([]WatchedYear, 0, len(byYear))
	for year, a := range byYear {
		out = append(out, WatchedYear{Year: year, Count: a.count, AverageRating: average(a.sum, a.rated)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// TopTags ranks the comma-separated diary tags.
func TopTags(diary []tabular.Row, n int) []TagCount {
	c := NewCounter()
	for _, row := range diary {
		for _, tag := range row.List(tabular.Tags) {
			c.Add(tag)
		}
	}
	return toTagCounts(c.Top(n))
}

// Rewatch is a film logged more than once.
type Rewatch struct {
	Title      string `json:"title"`
	Count      int    `json:"count"`
	PosterPath string `json:"posterPath"`
}

// MostRewatched ranks titles logged more than once in the diary and looks
// up a poster for each by title alone.
func MostRewatched(ctx context.Context, diary []tabular.Row, enricher Enricher) []Rewatch {
	c := NewCounter()
	for _, row := range diary {
		c.Add(row.Text(tabular.Title))
	}

	var out []Rewatch
	for _, e := range c.Ranked() {
		if e.Count < 2 || len(out) == maxRewatched {
			break
		}
		out = append(out, Rewatch{Title: e.Key, Count: e.Count})
	}
	if len(out) == 0 {
		return []Rewatch{}
	}

	queries := make([]enrich.Query, len(out))
	for i, r := range out {
		queries[i] = enrich.Query{Title: r.Title}
	}
	posters := enricher.PostersAll(ctx, queries)
	for i := range out {
		out[i].PosterPath = posters[queries[i].Key()]
	}
	return out
}
