// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package report

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/boxdstats/internal/archive"
	"github.com/tomtom215/boxdstats/internal/logging"
	"github.com/tomtom215/boxdstats/internal/tabular"
)

// Table file names inside an export.
const (
	TableWatched         = "watched.csv"
	TableRatings         = "ratings.csv"
	TableDiary           = "diary.csv"
	TableProfile         = "profile.csv"
	TableWatchlist       = "watchlist.csv"
	TableReviews         = "reviews.csv"
	TableComments        = "comments.csv"
	TableDeletedDiary    = "deleted/diary.csv"
	TableDeletedReviews  = "deleted/reviews.csv"
	TableDeletedComments = "deleted/comments.csv"
	TableLikedFilms      = "likes/films.csv"
	TableLikedLists      = "likes/lists.csv"
	TableLikedReviews    = "likes/reviews.csv"

	DeletedListsPrefix = "deleted/lists/"
)

// RequiredTables must be present for a report to be built.
var RequiredTables = []string{TableWatched, TableRatings, TableDiary}

// OptionalTables are read when present and treated as empty otherwise.
var OptionalTables = []string{
	TableProfile,
	TableWatchlist,
	TableReviews,
	TableComments,
	TableDeletedDiary,
	TableDeletedReviews,
	TableDeletedComments,
	TableLikedFilms,
	TableLikedLists,
	TableLikedReviews,
}

// tables holds the parsed rows of every known table, keyed by file name,
// plus the deleted list entries.
type tables struct {
	rows         map[string][]tabular.Row
	deletedLists []string
}

func (t *tables) get(name string) []tabular.Row {
	return t.rows[name]
}

// loadTables reads and parses all known tables concurrently. A required
// table that cannot be read fails the load and cancels the other reads.
// Optional tables that are missing or unreadable come back empty.
func loadTables(ctx context.Context, a *archive.Archive) (*tables, error) {
	names := make([]string, 0, len(RequiredTables)+len(OptionalTables))
	names = append(names, RequiredTables...)
	names = append(names, OptionalTables...)

	parsed := make([][]tabular.Row, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		required := i < len(RequiredTables)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows, err := readTable(a, name)
			if err != nil {
				if required {
					return fmt.Errorf("required table %s: %w", name, err)
				}
				logging.Ctx(ctx).Debug().Err(err).
					Str("component", "report").
					Str("table", name).
					Msg("Optional table unavailable")
				rows = []tabular.Row{}
			}
			parsed[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t := &tables{
		rows:         make(map[string][]tabular.Row, len(names)),
		deletedLists: a.ListEntries(DeletedListsPrefix, ".csv"),
	}
	for i, name := range names {
		t.rows[name] = parsed[i]
	}
	return t, nil
}

func readTable(a *archive.Archive, name string) ([]tabular.Row, error) {
	data, err := a.Read(name)
	if err != nil {
		return nil, err
	}
	rows, err := tabular.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return rows, nil
}
