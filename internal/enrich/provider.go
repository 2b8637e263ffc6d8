// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package enrich

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/boxdstats/internal/tmdb"
)

// Provider is the metadata source. *tmdb.Client and
// *tmdb.CircuitBreakerClient implement it.
type Provider interface {
	Search(ctx context.Context, title, year string) (*tmdb.SearchResult, error)
	Details(ctx context.Context, id int) (*tmdb.MovieDetails, error)
}

// Limiter paces batches. *rate.Limiter implements it.
type Limiter interface {
	Wait(ctx context.Context) error
}

// NewLimiter returns a token bucket allowing one batch per interval. The
// bucket starts empty so the first wait is paced too.
func NewLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	l := rate.NewLimiter(rate.Every(interval), 1)
	l.Allow()
	return l
}

// enabler is implemented by providers that can be switched off.
type enabler interface {
	Enabled() bool
}

func providerEnabled(p Provider) bool {
	if p == nil {
		return false
	}
	if e, ok := p.(enabler); ok {
		return e.Enabled()
	}
	return true
}
