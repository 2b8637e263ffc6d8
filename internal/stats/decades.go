// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package stats

import (
	"context"
	"sort"
	"strconv"

	"github.com/tomtom215/boxdstats/internal/enrich"
	"github.com/tomtom215/boxdstats/internal/tabular"
)

const (
	maxDecades         = 3
	maxMoviesPerDecade = 8
)

// DecadeMovie is a rated film within a decade ranking.
type DecadeMovie struct {
	Title      string  `json:"title"`
	Year       string  `json:"year"`
	UserRating float64 `json:"userRating"`
	RatedDate  string  `json:"ratedDate"`
	PosterPath string  `json:"posterPath"`
}

// Decade is one of the best rated decades.
type Decade struct {
	Decade    string        `json:"decade"`
	Average   float64       `json:"average"`
	TopMovies []DecadeMovie `json:"topMovies"`
}

// TopDecades ranks the decades of the ratings table by mean rating and
// lists each decade's best rated films with posters.
func TopDecades(ctx context.Context, ratings []tabular.Row, enricher Enricher) []Decade {
	type acc struct {
		sum    float64
		movies []DecadeMovie
	}
	byDecade := make(map[int]*acc)
	for _, row := range ratings {
		title := row.Text(tabular.Title)
		year, okYear := row.Int(tabular.Year)
		rating, okRating := row.Float(tabular.Rating)
		if title == "" || !okYear || !okRating {
			continue
		}
		decade := floorDiv(year, 10) * 10
		a := byDecade[decade]
		if a == nil {
			a = &acc{}
			byDecade[decade] = a
		}
		a.sum += rating
		a.movies = append(a.movies, DecadeMovie{
			Title:      title,
			Year:       strconv.Itoa(year),
			UserRating: rating,
			RatedDate:  row.Text(tabular.RatedDate),
		})
	}

	decades := make([]int, 0, len(byDecade))
	for d := range byDecade {
		decades = append(decades, d)
	}
	averages := make(map[int]float64, len(byDecade))
	for d, a := range byDecade {
		averages[d] = average(a.sum, len(a.movies))
	}
	sort.Slice(decades, func(i, j int) bool {
		if averages[decades[i]] != averages[decades[j]] {
			return averages[decades[i]] > averages[decades[j]]
		}
		return decades[i] < decades[j]
	})
	if len(decades) > maxDecades {
		decades = decades[:maxDecades]
	}

	out := make([]Decade, 0, len(decades))
	for _, d := range decades {
		movies := byDecade[d].movies
		SortDecadeMovies(movies)
		if len(movies) > maxMoviesPerDecade {
			movies = movies[:maxMoviesPerDecade]
		}

		queries := make([]enrich.Query, len(movies))
		for i, m := range movies {
			queries[i] = enrich.Query{Title: m.Title, Year: m.Year}
		}
		posters := enricher.PostersAll(ctx, queries)
		for i := range movies {
			movies[i].PosterPath = posters[queries[i].Key()]
		}

		out = append(out, Decade{
			Decade:    strconv.Itoa(d) + "s",
			Average:   averages[d],
			TopMovies: movies,
		})
	}
	return out
}

// SortDecadeMovies orders by rating descending, then by rated date
// descending when both films have one, then by title.
func SortDecadeMovies(movies []DecadeMovie) {
	sort.SliceStable(movies, func(i, j int) bool {
		a, b := movies[i], movies[j]
		if a.UserRating != b.UserRating {
			return a.UserRating > b.UserRating
		}
		if a.RatedDate != "" && b.RatedDate != "" && a.RatedDate != b.RatedDate {
			return a.RatedDate > b.RatedDate
		}
		return a.Title < b.Title
	})
}

// DecadeLabel returns "1990s" for any year of the 1990s.
func DecadeLabel(year int) string {
	return strconv.Itoa(floorDiv(year, 10)*10) + "s"
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
