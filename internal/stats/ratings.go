// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package stats

import (
	"strconv"

	"github.com/tomtom215/boxdstats/internal/tabular"
)

// RatingSummary is the mean rating and the count per rating value.
type RatingSummary struct {
	Average      float64
	Distribution map[string]int
}

// YearAverage is an average rating keyed by release year.
type YearAverage struct {
	Year    string  `json:"year"`
	Average float64 `json:"average"`
}

// FormatRating returns the shortest decimal form of a rating: 4, 3.5, 0.5.
func FormatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Ratings summarizes the numeric ratings of the ratings table. Rows
// without a numeric rating are left out of both the mean and the
// distribution.
func Ratings(rows []tabular.Row) RatingSummary {
	summary := RatingSummary{Distribution: make(map[string]int)}
	var sum float64
	var n int
	for _, row := range rows {
		rating, ok := row.Float(tabular.Rating)
		if !ok {
			continue
		}
		sum += rating
		n++
		summary.Distribution[FormatRating(rating)]++
	}
	summary.Average = average(sum, n)
	return summary
}

// AverageRatingByReleaseYear averages ratings per release year, densely
// from the earliest to the latest year. Years without ratings are 0.
func AverageRatingByReleaseYear(rows []tabular.Row) []YearAverage {
	type acc struct {
		sum float64
		n   int
	}
	byYear := make(map[int]*acc)
	for _, row := range rows {
		year, ok := row.Int(tabular.Year)
		if !ok {
			continue
		}
		rating, ok := row.Float(tabular.Rating)
		if !ok {
			continue
		}
		a := byYear[year]
		if a == nil {
			a = &acc{}
			byYear[year] = a
		}
		a.sum += rating
		a.n++
	}

	lo, hi, ok := yearBounds(byYear)
	if !ok {
		return []YearAverage{}
	}
	out := make([]YearAverage, 0, hi-lo+1)
	for y := lo; y <= hi; y++ {
		entry := YearAverage{Year: strconv.Itoa(y)}
		if a := byYear[y]; a != nil {
			entry.Average = average(a.sum, a.n)
		}
		out = append(out, entry)
	}
	return out
}

// TopYears ranks the release years of the watched table by count.
func TopYears(watched []tabular.Row, n int) []YearCount {
	return toYearCounts(yearCounter(watched).Top(n))
}

// MoviesByReleaseYear counts watched films per release year, densely from
// the earliest to the latest year.
func MoviesByReleaseYear(watched []tabular.Row) []YearCount {
	byYear := make(map[int]int)
	for key, count := range yearCounter(watched).counts {
		if y, ok := tabular.ParseInt(key); ok {
			byYear[y] += count
		}
	}

	lo, hi, ok := yearBounds(byYear)
	if !ok {
		return []YearCount{}
	}
	out := make([]YearCount, 0, hi-lo+1)
	for y := lo; y <= hi; y++ {
		out = append(out, YearCount{Year: strconv.Itoa(y), Count: byYear[y]})
	}
	return out
}

// yearCounter counts the raw trimmed year strings of rows.
func yearCounter(rows []tabular.Row) *Counter {
	c := NewCounter()
	for _, row := range rows {
		c.Add(row.Text(tabular.Year))
	}
	return c
}

func yearBounds[V any](byYear map[int]V) (lo, hi int, ok bool) {
	for y := range byYear {
		if !ok || y < lo {
			lo = y
		}
		if !ok || y > hi {
			hi = y
		}
		ok = true
	}
	return lo, hi, ok
}
