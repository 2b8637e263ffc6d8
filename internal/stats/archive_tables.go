// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package stats

import (
	"path"
	"strings"

	"github.com/tomtom215/boxdstats/internal/tabular"
)

// Profile is the owner's account details.
type Profile struct {
	Username string `json:"username"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
}

// ProfileFromRows reads the first row of the profile table.
func ProfileFromRows(rows []tabular.Row) Profile {
	if len(rows) == 0 {
		return Profile{}
	}
	row := rows[0]
	return Profile{
		Username: row.Text(tabular.Username),
		Location: row.Text(tabular.Location),
		Bio:      row.Text(tabular.Bio),
	}
}

// LikedTitles returns the trimmed titles of the liked-films table.
func LikedTitles(likes []tabular.Row) map[string]bool {
	liked := make(map[string]bool, len(likes))
	for _, row := range likes {
		if title := row.Text(tabular.Title); title != "" {
			liked[title] = true
		}
	}
	return liked
}

// TopLikedYears ranks the release years of liked films.
func TopLikedYears(likes []tabular.Row, n int) []YearCount {
	return toYearCounts(yearCounter(likes).Top(n))
}

// DeletedListNames turns deleted list file names into display names:
// "deleted/lists/my-favorites.csv" becomes "my favorites".
func DeletedListNames(entries []string) []string {
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		base := path.Base(entry)
		if strings.HasSuffix(strings.ToLower(base), ".csv") {
			base = base[:len(base)-len(".csv")]
		}
		names = append(names, strings.TrimSpace(strings.ReplaceAll(base, "-", " ")))
	}
	return names
}
