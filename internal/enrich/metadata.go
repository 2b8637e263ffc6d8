// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package enrich

import (
	"strings"

	"github.com/tomtom215/boxdstats/internal/tmdb"
)

const (
	// MaxStoredCast is how many billed cast members are kept per film.
	MaxStoredCast = 10

	// MaxCountedCast is how many billed cast members count towards the
	// actor rankings.
	MaxCountedCast = 5
)

// Person is a credited cast or crew member.
type Person struct {
	Name        string `json:"name"`
	ProfilePath string `json:"profilePath,omitempty"`
}

// Metadata is what the engine knows about a film beyond the export.
type Metadata struct {
	TMDBID           int      `json:"tmdbId"`
	Genres           []string `json:"genres"`
	Cast             []Person `json:"cast"`
	Directors        []Person `json:"directors"`
	Runtime          int      `json:"runtime"`
	OriginalLanguage string   `json:"originalLanguage"`
	OriginCountry    string   `json:"originCountry"`
	PosterPath       string   `json:"posterPath"`
}

// CountedCast returns the cast members that count towards rankings.
func (m *Metadata) CountedCast() []Person {
	if m == nil {
		return nil
	}
	if len(m.Cast) > MaxCountedCast {
		return m.Cast[:MaxCountedCast]
	}
	return m.Cast
}

// NewMetadata flattens a search hit and its details. Details may be nil,
// in which case only the poster survives.
func NewMetadata(search *tmdb.SearchResult, details *tmdb.MovieDetails) *Metadata {
	md := &Metadata{
		Genres:    []string{},
		Cast:      []Person{},
		Directors: []Person{},
	}
	if search != nil {
		md.TMDBID = search.ID
		md.PosterPath = search.PosterPath
		md.OriginalLanguage = search.OriginalLanguage
		if len(search.OriginCountry) > 0 {
			md.OriginCountry = search.OriginCountry[0]
		}
	}
	if details == nil {
		return md
	}

	if details.ID != 0 {
		md.TMDBID = details.ID
	}
	if details.PosterPath != "" {
		md.PosterPath = details.PosterPath
	}
	if details.Runtime > 0 {
		md.Runtime = details.Runtime
	}
	if details.OriginalLanguage != "" {
		md.OriginalLanguage = details.OriginalLanguage
	}
	if countries := details.Countries(); len(countries) > 0 {
		md.OriginCountry = countries[0]
	}

	for _, g := range details.Genres {
		if name := strings.TrimSpace(g.Name); name != "" {
			md.Genres = append(md.Genres, name)
		}
	}
	for _, c := range details.Credits.Cast {
		if len(md.Cast) == MaxStoredCast {
			break
		}
		if name := strings.TrimSpace(c.Name); name != "" {
			md.Cast = append(md.Cast, Person{Name: name, ProfilePath: c.ProfilePath})
		}
	}
	for _, c := range details.Credits.Crew {
		if c.Job != "Director" {
			continue
		}
		if name := strings.TrimSpace(c.Name); name != "" {
			md.Directors = append(md.Directors, Person{Name: name, ProfilePath: c.ProfilePath})
		}
	}
	return md
}
