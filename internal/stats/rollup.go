// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package stats

import (
	"context"
	"math"
	"sort"

	"github.com/tomtom215/boxdstats/internal/codes"
	"github.com/tomtom215/boxdstats/internal/enrich"
	"github.com/tomtom215/boxdstats/internal/tabular"
)

// Ranking sizes.
const (
	TopYearsN      = 5
	TopTagsN       = 5
	TopLikedYearsN = 3
	TopMetadataN   = 10
)

// Enricher resolves film metadata in paced batches. *enrich.Batcher
// implements it.
type Enricher interface {
	ResolveAll(ctx context.Context, queries []enrich.Query) map[enrich.TitleKey]*enrich.Metadata
	PostersAll(ctx context.Context, queries []enrich.Query) map[enrich.TitleKey]string
}

// DiaryLog is one diary entry of a film.
type DiaryLog struct {
	Rating       *float64 `json:"rating"`
	WatchedDate  string   `json:"watchedDate"`
	WatchedYear  *string  `json:"watchedYear"`
	WatchedDay   *string  `json:"watchedDay"`
	WatchedWeek  *int     `json:"watchedWeek"`
	WatchedMonth *string  `json:"watchedMonth"`
	Tags         []string `json:"tags"`
}

// Movie is a watched film with its metadata and diary history. Films
// without metadata keep empty metadata fields.
type Movie struct {
	Title        string     `json:"title"`
	ReleaseYear  *int       `json:"releaseYear"`
	Decade       *string    `json:"decade"`
	PosterPath   string     `json:"posterPath"`
	Liked        bool       `json:"liked"`
	Genres       []string   `json:"genres"`
	Country      string     `json:"country"`
	Language     string     `json:"language"`
	Directors    []string   `json:"directors"`
	Cast         []string   `json:"cast"`
	DiaryLogs    []DiaryLog `json:"diaryLogs"`
	RewatchCount int        `json:"rewatchCount"`
}

// PersonCount is a ranked actor or director.
type PersonCount struct {
	Name        string `json:"name"`
	Count       int    `json:"count"`
	ProfilePath string `json:"profilePath"`
}

// Rollup is everything derived from the metadata of watched films.
type Rollup struct {
	TopGenres           []NameCount
	TopCountries        []NameCount
	TopLanguages        []NameCount
	AllCountries        []NameCount
	TopActorsAllTime    []PersonCount
	TopActorsLogged     []PersonCount
	TopDirectorsAllTime []PersonCount
	TopDirectorsLogged  []PersonCount
	AllMovies           []Movie
}

// BuildRollup resolves every unique watched film, attaches its diary
// entries and liked flag, and ranks genres, countries, languages and
// people. "Logged" rankings only count films with diary entries.
func BuildRollup(ctx context.Context, watched, diary []tabular.Row, liked map[string]bool, enricher Enricher) Rollup {
	type film struct {
		title string
		year  string
	}
	var films []film
	seen := make(map[enrich.TitleKey]struct{})
	for _, row := range watched {
		title := row.Text(tabular.Title)
		if title == "" {
			continue
		}
		year := releaseYear(row)
		key := enrich.NewTitleKey(title, year)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		films = append(films, film{title: title, year: year})
	}

	diaryByTitle := make(map[string][]tabular.Row)
	for _, row := range diary {
		if title := row.Text(tabular.Title); title != "" {
			diaryByTitle[title] = append(diaryByTitle[title], row)
		}
	}

	queries := make([]enrich.Query, len(films))
	for i, f := range films {
		queries[i] = enrich.Query{Title: f.title, Year: f.year}
	}
	resolved := enricher.ResolveAll(ctx, queries)

	genres := NewCounter()
	countries := NewCounter()
	languages := NewCounter()
	actorsAll := newPersonCounter()
	actorsLogged := newPersonCounter()
	directorsAll := newPersonCounter()
	directorsLogged := newPersonCounter()

	movies := make([]Movie, 0, len(films))
	for i, f := range films {
		md := resolved[queries[i].Key()]
		logs := diaryByTitle[f.title]
		movie := newMovie(f.title, f.year, md, logs)
		movie.Liked = liked[f.title]
		movies = append(movies, movie)

		if md == nil {
			continue
		}
		for _, g := range movie.Genres {
			genres.Add(g)
		}
		countries.Add(movie.Country)
		languages.Add(movie.Language)

		cast := md.CountedCast()
		actorsAll.addFilm(cast)
		directorsAll.addFilm(md.Directors)
		if len(logs) > 0 {
			actorsLogged.addFilm(cast)
			directorsLogged.addFilm(md.Directors)
		}
	}

	return Rollup{
		TopGenres:           toNameCounts(genres.Top(TopMetadataN)),
		TopCountries:        toNameCounts(countries.Top(TopMetadataN)),
		TopLanguages:        toNameCounts(languages.Top(TopMetadataN)),
		AllCountries:        toNameCounts(countries.Ranked()),
		TopActorsAllTime:    actorsAll.top(TopMetadataN),
		TopActorsLogged:     actorsLogged.top(TopMetadataN),
		TopDirectorsAllTime: directorsAll.top(TopMetadataN),
		TopDirectorsLogged:  directorsLogged.top(TopMetadataN),
		AllMovies:           movies,
	}
}

func newMovie(title, year string, md *enrich.Metadata, logs []tabular.Row) Movie {
	movie := Movie{
		Title:        title,
		Genres:       []string{},
		Directors:    []string{},
		Cast:         []string{},
		DiaryLogs:    make([]DiaryLog, 0, len(logs)),
		RewatchCount: len(logs),
	}
	if y, ok := tabular.ParseInt(year); ok {
		label := DecadeLabel(y)
		movie.ReleaseYear = &y
		movie.Decade = &label
	}
	for _, row := range logs {
		movie.DiaryLogs = append(movie.DiaryLogs, newDiaryLog(row))
	}
	if md == nil {
		return movie
	}

	movie.PosterPath = md.PosterPath
	movie.Genres = append(movie.Genres, md.Genres...)
	if md.OriginCountry != "" {
		movie.Country = codes.Country(md.OriginCountry)
	}
	if md.OriginalLanguage != "" {
		movie.Language = codes.Language(md.OriginalLanguage)
	}
	for _, p := range md.Directors {
		movie.Directors = append(movie.Directors, p.Name)
	}
	for _, p := range md.Cast {
		movie.Cast = append(movie.Cast, p.Name)
	}
	return movie
}

func newDiaryLog(row tabular.Row) DiaryLog {
	log := DiaryLog{
		WatchedDate: row.Text(tabular.WatchedDate),
		Tags:        row.List(tabular.Tags),
	}
	if log.Tags == nil {
		log.Tags = []string{}
	}
	if rating, ok := row.Float(tabular.Rating); ok {
		log.Rating = &rating
	}
	if d, ok := ParseWatchedDate(log.WatchedDate); ok {
		year, day, month, week := d.Year, d.Day(), d.Month(), d.Week
		log.WatchedYear = &year
		log.WatchedDay = &day
		log.WatchedMonth = &month
		log.WatchedWeek = &week
	}
	return log
}

// personCounter counts the films each person is credited on and keeps the
// first known profile image.
type personCounter struct {
	byName map[string]*PersonCount
}

func newPersonCounter() *personCounter {
	return &personCounter{byName: make(map[string]*PersonCount)}
}

// addFilm counts each distinct person of one film once.
func (c *personCounter) addFilm(people []enrich.Person) {
	seen := make(map[string]struct{}, len(people))
	for _, p := range people {
		if p.Name == "" {
			continue
		}
		if _, dup := seen[p.Name]; dup {
			continue
		}
		seen[p.Name] = struct{}{}

		pc := c.byName[p.Name]
		if pc == nil {
			c.byName[p.Name] = &PersonCount{Name: p.Name, Count: 1, ProfilePath: p.ProfilePath}
			continue
		}
		pc.Count++
		if pc.ProfilePath == "" {
			pc.ProfilePath = p.ProfilePath
		}
	}
}

func (c *personCounter) top(n int) []PersonCount {
	out := make([]PersonCount, 0, len(c.byName))
	for _, pc := range c.byName {
		out = append(out, *pc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// TotalHoursWatched sums the runtime of every diary entry, rewatches
// included, and rounds to whole hours.
func TotalHoursWatched(ctx context.Context, diary []tabular.Row, enricher Enricher) int {
	queries := make([]enrich.Query, 0, len(diary))
	for _, row := range diary {
		if title := row.Text(tabular.Title); title != "" {
			queries = append(queries, enrich.Query{Title: title, Year: releaseYear(row)})
		}
	}
	resolved := enricher.ResolveAll(ctx, queries)

	minutes := 0
	for _, q := range queries {
		if md := resolved[q.Key()]; md != nil && md.Runtime > 0 {
			minutes += md.Runtime
		}
	}
	return int(math.Round(float64(minutes) / 60))
}
