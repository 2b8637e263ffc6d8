// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

// Package tmdb is a small client for the two TMDb v3 endpoints the engine
// needs: movie search and movie details with credits.
//
// The client never retries. Callers treat any error as "no metadata" for
// the title in question.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/boxdstats/internal/config"
)

// PosterBaseURL is the image CDN prefix for w200 posters.
const PosterBaseURL = "https://image.tmdb.org/t/p/w200"

// maxErrorBodySize limits how much of an error response body is read.
const maxErrorBodySize = 64 * 1024

var (
	// ErrDisabled is returned when no API credential is configured.
	ErrDisabled = errors.New("tmdb: no api key configured")

	// ErrNotFound is returned when a search has no results or a movie id is unknown.
	ErrNotFound = errors.New("tmdb: not found")
)

// APIError is a non-success HTTP response from TMDb.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb: status %d: %s", e.StatusCode, e.Body)
}

// Client calls the TMDb REST API with bearer-token authentication.
// It is safe for concurrent use.
type Client struct {
	baseURL  string
	apiKey   string
	language string
	client   *http.Client
}

// NewClient creates a client from configuration. A nil httpClient gets a
// default client using cfg.Timeout.
func NewClient(cfg config.TMDBConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	language := cfg.Language
	if language == "" {
		language = "en-US"
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		language: language,
		client:   httpClient,
	}
}

// Enabled reports whether the client has a credential.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Search returns the best (first) match for title, optionally narrowed by
// release year. It returns ErrNotFound when there are no results.
func (c *Client) Search(ctx context.Context, title, year string) (*SearchResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrNotFound
	}

	params := url.Values{}
	params.Set("query", title)
	if year = strings.TrimSpace(year); year != "" {
		params.Set("year", year)
	}
	params.Set("language", c.language)

	var resp SearchResponse
	if err := c.get(ctx, "/search/movie?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", title, err)
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("search %q: %w", title, ErrNotFound)
	}
	return &resp.Results[0], nil
}

// Details returns movie details with credits appended.
func (c *Client) Details(ctx context.Context, id int) (*MovieDetails, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}

	params := url.Values{}
	params.Set("language", c.language)
	params.Set("append_to_response", "credits")

	var details MovieDetails
	path := "/movie/" + strconv.Itoa(id) + "?" + params.Encode()
	if err := c.get(ctx, path, &details); err != nil {
		return nil, fmt.Errorf("details %d: %w", id, err)
	}
	return &details, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: string(readBodyForError(resp.Body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// readBodyForError reads at most maxErrorBodySize bytes of a response body.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// PosterURL joins a poster path with PosterBaseURL. An empty path yields "".
func PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return PosterBaseURL + path
}
