// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func buildZip(t *testing.T, files map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range order {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(files[name])); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestOpenInvalid(t *testing.T) {
	t.Parallel()

	_, err := Open([]byte("definitely not a zip"))
	if !errors.Is(err, ErrInvalidArchive) {
		t.Fatalf("Open() error = %v, want ErrInvalidArchive", err)
	}
}

func TestRead(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"deleted/diary.csv":      "deleted",
		"Diary.CSV":              "root diary",
		"export/watched.csv":     "nested watched",
		"export/deleted/x.csv":   "x",
		"export/ratings.csv":     "ratings",
		"export/likes/films.csv": "liked films",
		"export/likes/lists.csv": "liked lists",
		"export/deleted/ratings": "no extension",
	}
	order := []string{
		"deleted/diary.csv", "Diary.CSV", "export/watched.csv", "export/deleted/x.csv",
		"export/ratings.csv", "export/likes/films.csv", "export/likes/lists.csv", "export/deleted/ratings",
	}
	a, err := Open(buildZip(t, files, order))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	tests := []struct {
		name    string
		want    string
		wantErr error
	}{
		{"diary.csv", "root diary", nil},
		{"deleted/diary.csv", "deleted", nil},
		{"WATCHED.csv", "nested watched", nil},
		{"likes/films.csv", "liked films", nil},
		{"ratings.csv", "ratings", nil},
		{"profile.csv", "", ErrNotFound},
		{"", "", ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := a.Read(tt.name)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Read(%q) error = %v, want %v", tt.name, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read(%q) error = %v", tt.name, err)
			}
			if string(got) != tt.want {
				t.Errorf("Read(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestReadEntryTooLarge(t *testing.T) {
	t.Parallel()

	data := buildZip(t, map[string]string{"diary.csv": strings.Repeat("a", 2048)}, []string{"diary.csv"})
	a, err := Open(data, WithMaxEntryBytes(1024))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := a.Read("diary.csv"); !errors.Is(err, ErrEntryTooLarge) {
		t.Fatalf("Read() error = %v, want ErrEntryTooLarge", err)
	}
}

func TestListEntries(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"deleted/lists/my-favorites.csv": "a",
		"deleted/lists/to-watch.csv":     "b",
		"deleted/lists/readme.txt":       "c",
		"lists/keep.csv":                 "d",
		"deleted/diary.csv":              "e",
	}
	order := []string{
		"deleted/lists/my-favorites.csv", "deleted/lists/to-watch.csv",
		"deleted/lists/readme.txt", "lists/keep.csv", "deleted/diary.csv",
	}
	a, err := Open(buildZip(t, files, order))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	got := a.ListEntries("deleted/lists/", ".csv")
	want := []string{"deleted/lists/my-favorites.csv", "deleted/lists/to-watch.csv"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListEntries() = %v, want %v", got, want)
	}

	if got := a.ListEntries("missing/", ".csv"); len(got) != 0 {
		t.Errorf("ListEntries(missing) = %v, want empty", got)
	}
}

func TestListEntriesNestedFolder(t *testing.T) {
	t.Parallel()

	files := map[string]string{"letterboxd-user/Deleted/Lists/Old-One.CSV": "a"}
	a, err := Open(buildZip(t, files, []string{"letterboxd-user/Deleted/Lists/Old-One.CSV"}))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	got := a.ListEntries("deleted/lists/", ".csv")
	if len(got) != 1 || got[0] != "letterboxd-user/Deleted/Lists/Old-One.CSV" {
		t.Errorf("ListEntries() = %v", got)
	}
}
