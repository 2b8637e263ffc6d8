// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package report

import (
	"github.com/tomtom215/boxdstats/internal/social"
	"github.com/tomtom215/boxdstats/internal/stats"
)

// Report is the complete statistics document for one export. Every field is
// always present; missing input yields zero values and empty collections.
type Report struct {
	Profile stats.Profile `json:"profile"`

	TotalMovies       int `json:"totalMovies"`
	TotalLoggedMovies int `json:"totalLoggedMovies"`
	TotalWatchlist    int `json:"totalWatchlist"`
	TotalReviews      int `json:"totalReviews"`
	TotalComments     int `json:"totalComments"`
	TotalLikedFilms   int `json:"totalLikedFilms"`
	TotalLikedLists   int `json:"totalLikedLists"`
	TotalLikedReviews int `json:"totalLikedReviews"`
	TotalHoursWatched int `json:"totalHoursWatched"`

	AverageRating              float64             `json:"averageRating"`
	RatingDistribution         map[string]int      `json:"ratingDistribution"`
	TopYears                   []stats.YearCount   `json:"topYears"`
	MoviesByReleaseYear        []stats.YearCount   `json:"moviesByReleaseYear"`
	AverageRatingByReleaseYear []stats.YearAverage `json:"averageRatingByReleaseYear"`
	TopDecades                 []stats.Decade      `json:"topDecades"`

	TopTags             []stats.TagCount    `json:"topTags"`
	MostRewatchedMovies []stats.Rewatch     `json:"mostRewatchedMovies"`
	TopLikedYears       []stats.YearCount   `json:"topLikedYears"`
	LongestStreak       int                 `json:"longestStreak"`
	ActivityStats       stats.ActivityStats `json:"activityStats"`
	WatchedYearStats    []stats.WatchedYear `json:"watchedYearStats"`

	TopInteractedUsers []social.User `json:"topInteractedUsers"`

	DeletedDiaryCount    int      `json:"deletedDiaryCount"`
	DeletedReviewsCount  int      `json:"deletedReviewsCount"`
	DeletedCommentsCount int      `json:"deletedCommentsCount"`
	DeletedListsCount    int      `json:"deletedListsCount"`
	DeletedListsNames    []string `json:"deletedListsNames"`

	TopGenres           []stats.NameCount   `json:"topGenres"`
	TopCountries        []stats.NameCount   `json:"topCountries"`
	TopLanguages        []stats.NameCount   `json:"topLanguages"`
	AllCountries        []stats.NameCount   `json:"allCountries"`
	TopActorsAllTime    []stats.PersonCount `json:"topActorsAllTime"`
	TopActorsLogged     []stats.PersonCount `json:"topActorsLogged"`
	TopDirectorsAllTime []stats.PersonCount `json:"topDirectorsAllTime"`
	TopDirectorsLogged  []stats.PersonCount `json:"topDirectorsLogged"`
	AllMovies           []stats.Movie       `json:"allMovies"`
}

// fillEmpty replaces nil collections so they encode as [] and {}.
func (r *Report) fillEmpty() {
	if r.RatingDistribution == nil {
		r.RatingDistribution = map[string]int{}
	}
	r.TopYears = nonNil(r.TopYears)
	r.MoviesByReleaseYear = nonNil(r.MoviesByReleaseYear)
	r.AverageRatingByReleaseYear = nonNil(r.AverageRatingByReleaseYear)
	r.TopDecades = nonNil(r.TopDecades)
	r.TopTags = nonNil(r.TopTags)
	r.MostRewatchedMovies = nonNil(r.MostRewatchedMovies)
	r.TopLikedYears = nonNil(r.TopLikedYears)
	r.WatchedYearStats = nonNil(r.WatchedYearStats)
	r.TopInteractedUsers = nonNil(r.TopInteractedUsers)
	r.DeletedListsNames = nonNil(r.DeletedListsNames)
	r.TopGenres = nonNil(r.TopGenres)
	r.TopCountries = nonNil(r.TopCountries)
	r.TopLanguages = nonNil(r.TopLanguages)
	r.AllCountries = nonNil(r.AllCountries)
	r.TopActorsAllTime = nonNil(r.TopActorsAllTime)
	r.TopActorsLogged = nonNil(r.TopActorsLogged)
	r.TopDirectorsAllTime = nonNil(r.TopDirectorsAllTime)
	r.TopDirectorsLogged = nonNil(r.TopDirectorsLogged)
	r.AllMovies = nonNil(r.AllMovies)

	if r.ActivityStats.AvailableYears == nil {
		r.ActivityStats.AvailableYears = []string{}
	}
	if r.ActivityStats.ByYear == nil {
		r.ActivityStats.ByYear = map[string]*stats.Bucket{}
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
