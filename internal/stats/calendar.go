// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package stats

import (
	"regexp"
	"sort"
	"time"

	"github.com/tomtom215/boxdstats/internal/tabular"
)

// TotalBucket is the activity bucket aggregating every year.
const TotalBucket = "Total"

// minWeeks is the initial length of a bucket's week series.
const minWeeks = 52

// DayNames lists weekdays Monday first.
var DayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// MonthNames lists months January first.
var MonthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// WatchedDate is a parsed YYYY-MM-DD diary date.
type WatchedDate struct {
	Date       time.Time
	Year       string
	DayIndex   int // 0 is Monday
	Week       int // ISO 8601 week number
	MonthIndex int // 0 is January
}

// Day returns the weekday name.
func (d WatchedDate) Day() string { return DayNames[d.DayIndex] }

// Month returns the month name.
func (d WatchedDate) Month() string { return MonthNames[d.MonthIndex] }

// ParseWatchedDate parses s, which must be exactly YYYY-MM-DD after
// trimming and a real calendar date.
func ParseWatchedDate(s string) (WatchedDate, bool) {
	if !isoDate.MatchString(s) {
		return WatchedDate{}, false
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return WatchedDate{}, false
	}
	_, week := t.ISOWeek()
	return WatchedDate{
		Date:       t,
		Year:       s[:4],
		DayIndex:   (int(t.Weekday()) + 6) % 7,
		Week:       week,
		MonthIndex: int(t.Month()) - 1,
	}, true
}

// DayCount counts diary entries on a weekday.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// WeekCount counts diary entries in an ISO week.
type WeekCount struct {
	Week  int `json:"week"`
	Count int `json:"count"`
}

// MonthCount counts diary entries in a month.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// Bucket is the activity calendar of one year, or of all years.
type Bucket struct {
	Days   []DayCount   `json:"days"`
	Weeks  []WeekCount  `json:"weeks"`
	Months []MonthCount `json:"months"`
}

// NewBucket returns an empty bucket with 52 weeks.
func NewBucket() *Bucket {
	b := &Bucket{
		Days:   make([]DayCount, len(DayNames)),
		Months: make([]MonthCount, len(MonthNames)),
	}
	for i, name := range DayNames {
		b.Days[i] = DayCount{Day: name}
	}
	for i, name := range MonthNames {
		b.Months[i] = MonthCount{Month: name}
	}
	b.EnsureLen(minWeeks)
	return b
}

// EnsureLen grows the week series to at least k weeks.
func (b *Bucket) EnsureLen(k int) {
	for len(b.Weeks) < k {
		b.Weeks = append(b.Weeks, WeekCount{Week: len(b.Weeks) + 1})
	}
}

// Add counts one diary entry.
func (b *Bucket) Add(d WatchedDate) {
	b.Days[d.DayIndex].Count++
	b.Months[d.MonthIndex].Count++
	if d.Week >= 1 {
		b.EnsureLen(d.Week)
		b.Weeks[d.Week-1].Count++
	}
}

// ActivityStats is the diary calendar per year plus the Total bucket.
type ActivityStats struct {
	AvailableYears []string           `json:"availableYears"`
	ByYear         map[string]*Bucket `json:"byYear"`
}

// Activity buckets diary entries by the year, weekday, ISO week and month
// of their watched date. Entries without a valid date are skipped. The
// Total bucket is always present.
func Activity(diary []tabular.Row) ActivityStats {
	total := NewBucket()
	stats := ActivityStats{
		ByYear: map[string]*Bucket{TotalBucket: total},
	}

	for _, row := range diary {
		d, ok := ParseWatchedDate(row.Text(tabular.WatchedDate))
		if !ok {
			continue
		}
		bucket := stats.ByYear[d.Year]
		if bucket == nil {
			bucket = NewBucket()
			stats.ByYear[d.Year] = bucket
		}
		bucket.Add(d)
		total.Add(d)
	}

	years := make([]string, 0, len(stats.ByYear)-1)
	for y := range stats.ByYear {
		if y != TotalBucket {
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	stats.AvailableYears = append([]string{TotalBucket}, years...)
	return stats
}
