// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package tmdb

// SearchResponse is the body of GET /search/movie.
type SearchResponse struct {
	Page         int            `json:"page"`
	Results      []SearchResult `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// SearchResult is one candidate returned by a movie search.
type SearchResult struct {
	ID               int      `json:"id"`
	Title            string   `json:"title"`
	OriginalTitle    string   `json:"original_title"`
	ReleaseDate      string   `json:"release_date"`
	PosterPath       string   `json:"poster_path"`
	OriginalLanguage string   `json:"original_language"`
	OriginCountry    []string `json:"origin_country"`
	GenreIDs         []int    `json:"genre_ids"`
}

// MovieDetails is the body of GET /movie/{id} with credits appended.
type MovieDetails struct {
	ID               int      `json:"id"`
	Title            string   `json:"title"`
	ReleaseDate      string   `json:"release_date"`
	Runtime          int      `json:"runtime"`
	PosterPath       string   `json:"poster_path"`
	OriginalLanguage string   `json:"original_language"`
	OriginCountry    []string `json:"origin_country"`
	Genres           []Genre  `json:"genres"`
	Credits          Credits  `json:"credits"`

	ProductionCountries []ProductionCountry `json:"production_countries"`
}

// Genre is a named TMDb genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ProductionCountry is a country credited with producing the movie.
type ProductionCountry struct {
	ISO3166 string `json:"iso_3166_1"`
	Name    string `json:"name"`
}

// Credits holds the billed cast and the crew.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember is one billed actor, ordered by billing.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	Order       int    `json:"order"`
	ProfilePath string `json:"profile_path"`
}

// CrewMember is one crew credit.
type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

// Countries returns origin_country, falling back to the production
// countries for older records that lack it.
func (d *MovieDetails) Countries() []string {
	if len(d.OriginCountry) > 0 {
		return d.OriginCountry
	}
	codes := make([]string, 0, len(d.ProductionCountries))
	for _, pc := range d.ProductionCountries {
		if pc.ISO3166 != "" {
			codes = append(codes, pc.ISO3166)
		}
	}
	return codes
}
