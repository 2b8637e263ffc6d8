// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

// Package tabular turns comma-separated export tables into rows and resolves
// logical fields (title, year, rating, ...) across header-name variants.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse reads a header line followed by data lines and returns one Row per
// data line, in file order.
//
// Blank lines are ignored. Records that the CSV reader rejects are skipped
// rather than failing the table; only I/O errors are returned.
func Parse(data []byte) ([]Row, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var header []string
	for header == nil {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return []Row{}, nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, fmt.Errorf("read header: %w", err)
		}
		header = make([]string, len(record))
		for i, h := range record {
			header[i] = strings.TrimSpace(h)
		}
	}

	rows := make([]Row, 0, 64)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return rows, fmt.Errorf("read row: %w", err)
		}

		row := Row{values: make(map[string]string, len(header))}
		for i, column := range header {
			if i >= len(record) {
				break
			}
			row.set(column, record[i])
		}
		rows = append(rows, row)
	}

	return rows, nil
}
