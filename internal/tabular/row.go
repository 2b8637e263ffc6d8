// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package tabular

import (
	"math"
	"strconv"
	"strings"
)

// Row is one data line of a table, keyed by header column name.
// Keys preserves the header order.
type Row struct {
	keys   []string
	values map[string]string
}

// NewRow builds a Row from alternating column/value pairs, in order.
// It is mainly useful in tests:
//
//	tabular.NewRow("Name", "Alien", "Year", "1979")
func NewRow(pairs ...string) Row {
	r := Row{values: make(map[string]string, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		r.set(pairs[i], pairs[i+1])
	}
	return r
}

func (r *Row) set(key, value string) {
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Keys returns the column names in header order.
func (r Row) Keys() []string {
	return r.keys
}

// Get returns the raw value of a column.
func (r Row) Get(column string) (string, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Lookup resolves a logical field through its synonym list. The first
// column that is present and non-empty wins.
func (r Row) Lookup(f Field) (string, bool) {
	for _, column := range synonyms[f] {
		if v, ok := r.values[column]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// Text returns the trimmed value of a logical field, or "".
func (r Row) Text(f Field) string {
	v, _ := r.Lookup(f)
	return strings.TrimSpace(v)
}

// Float parses a logical field as a finite decimal number.
func (r Row) Float(f Field) (float64, bool) {
	return ParseFloat(r.Text(f))
}

// Int parses a logical field as an integer.
func (r Row) Int(f Field) (int, bool) {
	return ParseInt(r.Text(f))
}

// List splits a comma-separated field into trimmed, non-empty items.
func (r Row) List(f Field) []string {
	return SplitList(r.Text(f))
}

// ParseFloat parses s as a finite decimal number.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseInt parses s as a base-10 integer.
func ParseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SplitList splits a comma-separated value into trimmed, non-empty items.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
