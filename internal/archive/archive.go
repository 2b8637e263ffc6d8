// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

// Package archive reads named tables out of an export archive.
//
// Lookups are tolerant: a table name matches any entry whose path ends with
// it, compared case-insensitively, so exports wrapped in a top-level folder
// resolve the same as flat ones.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultMaxEntryBytes bounds the decompressed size of a single entry.
const DefaultMaxEntryBytes int64 = 32 << 20

var (
	// ErrInvalidArchive is returned when the input is not a readable zip archive.
	ErrInvalidArchive = errors.New("archive is not a valid zip file")

	// ErrNotFound is returned when no entry matches the requested table name.
	ErrNotFound = errors.New("table not found in archive")

	// ErrEntryTooLarge is returned when an entry decompresses past the configured limit.
	ErrEntryTooLarge = errors.New("archive entry exceeds size limit")
)

// Archive is an opened export archive. It is safe for concurrent reads.
type Archive struct {
	reader        *zip.Reader
	maxEntryBytes int64
}

// Option configures an Archive.
type Option func(*Archive)

// WithMaxEntryBytes overrides DefaultMaxEntryBytes.
func WithMaxEntryBytes(n int64) Option {
	return func(a *Archive) {
		if n > 0 {
			a.maxEntryBytes = n
		}
	}
}

// Open parses data as a zip archive.
func Open(data []byte, opts ...Option) (*Archive, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	a := &Archive{reader: reader, maxEntryBytes: DefaultMaxEntryBytes}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Read returns the contents of the entry matching name.
//
// An entry matches when its path, lowercased, ends with the lowercased name.
// When several entries match, an exact path match wins, then the entry
// whose match starts on a path boundary with the fewest directories, so
// "diary.csv" resolves to the export's diary and not to "deleted/diary.csv".
func (a *Archive) Read(name string) ([]byte, error) {
	f := a.find(name)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, a.maxEntryBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	if int64(len(data)) > a.maxEntryBytes {
		return nil, fmt.Errorf("%w: %s", ErrEntryTooLarge, f.Name)
	}
	return data, nil
}

func (a *Archive) find(name string) *zip.File {
	want := strings.ToLower(strings.TrimPrefix(name, "/"))
	if want == "" {
		return nil
	}

	var (
		best      *zip.File
		bestRank  = 3
		bestDepth int
	)
	for _, f := range a.reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		path := strings.ToLower(f.Name)
		if !strings.HasSuffix(path, want) {
			continue
		}

		rank := 2
		switch {
		case path == want:
			rank = 0
		case strings.HasSuffix(path, "/"+want):
			rank = 1
		}
		depth := strings.Count(path, "/")

		if best == nil || rank < bestRank || (rank == bestRank && depth < bestDepth) {
			best, bestRank, bestDepth = f, rank, depth
		}
	}
	return best
}

// ListEntries returns the names of entries under pathPrefix whose names end
// with suffix, in archive order. Both comparisons are case-insensitive and
// the prefix may sit below a top-level folder.
func (a *Archive) ListEntries(pathPrefix, suffix string) []string {
	prefix := strings.ToLower(pathPrefix)
	suffix = strings.ToLower(suffix)

	var names []string
	for _, f := range a.reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		path := strings.ToLower(f.Name)
		if !strings.HasSuffix(path, suffix) {
			continue
		}
		if strings.HasPrefix(path, prefix) || strings.Contains(path, "/"+prefix) {
			names = append(names, f.Name)
		}
	}
	return names
}

// Has reports whether a table with the given name exists.
func (a *Archive) Has(name string) bool {
	return a.find(name) != nil
}
