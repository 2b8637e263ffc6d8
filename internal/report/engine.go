// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/boxdstats/internal/archive"
	"github.com/tomtom215/boxdstats/internal/config"
	"github.com/tomtom215/boxdstats/internal/enrich"
	"github.com/tomtom215/boxdstats/internal/logging"
	"github.com/tomtom215/boxdstats/internal/metrics"
	"github.com/tomtom215/boxdstats/internal/social"
	"github.com/tomtom215/boxdstats/internal/stats"
	"github.com/tomtom215/boxdstats/internal/tmdb"
)

// IsInputError reports whether err means the upload itself is unusable:
// not an archive, a required table missing, or a table over the size cap.
func IsInputError(err error) bool {
	return errors.Is(err, archive.ErrInvalidArchive) ||
		errors.Is(err, archive.ErrNotFound) ||
		errors.Is(err, archive.ErrEntryTooLarge)
}

// Engine builds reports. It holds only process-wide collaborators; each
// Build gets its own enrichment cache and limiter. It is safe for
// concurrent use.
type Engine struct {
	provider    enrich.Provider
	store       enrich.Store
	social      *social.Service
	newLimiter  func() enrich.Limiter
	detailBatch int
	posterBatch int
	maxEntry    int64
	enabled     bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithProvider sets the metadata provider. Without one every film resolves
// to no metadata.
func WithProvider(p enrich.Provider) Option {
	return func(e *Engine) {
		e.provider = p
	}
}

// WithStore shares positive metadata lookups across builds.
func WithStore(s enrich.Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithSocial sets the service used to resolve comment links and avatars.
func WithSocial(s *social.Service) Option {
	return func(e *Engine) {
		e.social = s
	}
}

// WithLimiter sets the factory for the per-build batch limiter.
func WithLimiter(fn func() enrich.Limiter) Option {
	return func(e *Engine) {
		e.newLimiter = fn
	}
}

// WithBatchSizes overrides the detail and poster batch sizes.
func WithBatchSizes(detail, poster int) Option {
	return func(e *Engine) {
		e.detailBatch = detail
		e.posterBatch = poster
	}
}

// WithMaxEntryBytes caps the size of a single decompressed table.
func WithMaxEntryBytes(n int64) Option {
	return func(e *Engine) {
		e.maxEntry = n
	}
}

// NewEngine creates an Engine with default batching and a social service
// pointed at the public site.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		newLimiter:  func() enrich.Limiter { return enrich.NewLimiter(200 * time.Millisecond) },
		detailBatch: enrich.DefaultDetailBatchSize,
		posterBatch: enrich.DefaultPosterBatchSize,
		maxEntry:    archive.DefaultMaxEntryBytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.social == nil {
		e.social = social.NewService(config.SocialConfig{AvatarLimit: 15, PosterLimit: 10}, nil)
	}
	e.enabled = enrich.NewCache(e.provider).Enabled()
	return e
}

// NewEngineFromConfig wires the TMDb client behind its circuit breaker,
// the configured metadata store and the social service.
func NewEngineFromConfig(cfg *config.Config) (*Engine, error) {
	store, err := enrich.OpenStore(cfg.Enrichment)
	if err != nil {
		return nil, fmt.Errorf("open metadata store: %w", err)
	}

	interval := cfg.Enrichment.BatchInterval
	opts := []Option{
		WithStore(store),
		WithSocial(social.NewService(cfg.Social, nil)),
		WithLimiter(func() enrich.Limiter { return enrich.NewLimiter(interval) }),
		WithBatchSizes(cfg.Enrichment.DetailBatchSize, cfg.Enrichment.PosterBatchSize),
		WithMaxEntryBytes(cfg.Archive.MaxEntryBytes),
	}
	if cfg.TMDB.Enabled() {
		opts = append(opts, WithProvider(tmdb.NewCircuitBreakerClient(tmdb.NewClient(cfg.TMDB, nil))))
	} else {
		logging.Warn().Msg("TMDB_API_KEY not set, reports will have no film metadata")
	}
	return NewEngine(opts...), nil
}

// EnrichmentEnabled reports whether films will be enriched.
func (e *Engine) EnrichmentEnabled() bool {
	return e.enabled
}

// Store returns the cross-run metadata store, or nil when none is configured.
func (e *Engine) Store() enrich.Store {
	return e.store
}

// Close releases the metadata store.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Build produces the report for the export archive in data.
func (e *Engine) Build(ctx context.Context, data []byte) (*Report, error) {
	start := time.Now()
	log := logging.Ctx(ctx).With().Str("component", "report").Logger()

	a, err := archive.Open(data, archive.WithMaxEntryBytes(e.maxEntry))
	if err != nil {
		metrics.RecordReportBuild("input_error", time.Since(start), 0)
		return nil, err
	}
	t, err := loadTables(ctx, a)
	if err != nil {
		result := "error"
		if IsInputError(err) {
			result = "input_error"
		}
		metrics.RecordReportBuild(result, time.Since(start), 0)
		return nil, err
	}

	var cacheOpts []enrich.Option
	if e.store != nil {
		cacheOpts = append(cacheOpts, enrich.WithStore(e.store))
	}
	cache := enrich.NewCache(e.provider, cacheOpts...)
	batcher := enrich.NewBatcher(cache, e.newLimiter(), e.detailBatch, e.posterBatch)

	// Comment posters are keyed by title alone and kept apart from the
	// report cache.
	socialPosters := enrich.NewBatcher(enrich.NewCache(e.provider, cacheOpts...), e.newLimiter(), e.detailBatch, e.posterBatch)

	rep := e.assemble(ctx, t, batcher, socialPosters)

	metrics.RecordReportBuild("success", time.Since(start), cache.Len())
	log.Info().
		Int("watched", rep.TotalMovies).
		Int("diary", rep.TotalLoggedMovies).
		Int("titles_resolved", cache.Len()).
		Dur("duration", time.Since(start)).
		Msg("Report built")
	return rep, nil
}

// assemble runs every aggregator and merges the results. The enrichment
// backed aggregators run concurrently and share one cache.
func (e *Engine) assemble(ctx context.Context, t *tables, batcher, socialPosters *enrich.Batcher) *Report {
	watched := t.get(TableWatched)
	ratings := t.get(TableRatings)
	diary := t.get(TableDiary)
	likedFilms := t.get(TableLikedFilms)
	profile := stats.ProfileFromRows(t.get(TableProfile))
	summary := stats.Ratings(ratings)

	rep := &Report{
		Profile:           profile,
		TotalMovies:       len(watched),
		TotalLoggedMovies: len(diary),
		TotalWatchlist:    len(t.get(TableWatchlist)),
		TotalReviews:      len(t.get(TableReviews)),
		TotalComments:     len(t.get(TableComments)),
		TotalLikedFilms:   len(likedFilms),
		TotalLikedLists:   len(t.get(TableLikedLists)),
		TotalLikedReviews: len(t.get(TableLikedReviews)),

		AverageRating:              summary.Average,
		RatingDistribution:         summary.Distribution,
		TopYears:                   stats.TopYears(watched, stats.TopYearsN),
		MoviesByReleaseYear:        stats.MoviesByReleaseYear(watched),
		AverageRatingByReleaseYear: stats.AverageRatingByReleaseYear(ratings),

		TopTags:          stats.TopTags(diary, stats.TopTagsN),
		TopLikedYears:    stats.TopLikedYears(likedFilms, stats.TopLikedYearsN),
		LongestStreak:    stats.LongestStreak(diary),
		ActivityStats:    stats.Activity(diary),
		WatchedYearStats: stats.WatchedYearStats(diary),

		DeletedDiaryCount:    len(t.get(TableDeletedDiary)),
		DeletedReviewsCount:  len(t.get(TableDeletedReviews)),
		DeletedCommentsCount: len(t.get(TableDeletedComments)),
		DeletedListsCount:    len(t.deletedLists),
		DeletedListsNames:    stats.DeletedListNames(t.deletedLists),
	}

	var (
		wg      sync.WaitGroup
		rollup  stats.Rollup
		hours   int
		decades []stats.Decade
		rewatch []stats.Rewatch
		users   []social.User
	)
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}
	run(func() {
		rollup = stats.BuildRollup(ctx, watched, diary, stats.LikedTitles(likedFilms), batcher)
	})
	run(func() { hours = stats.TotalHoursWatched(ctx, diary, batcher) })
	run(func() { decades = stats.TopDecades(ctx, ratings, batcher) })
	run(func() { rewatch = stats.MostRewatched(ctx, diary, batcher) })
	run(func() {
		users = e.social.TopInteractedUsers(ctx, t.get(TableComments), profile.Username, socialPosters)
	})
	wg.Wait()

	rep.TotalHoursWatched = hours
	rep.TopDecades = decades
	rep.MostRewatchedMovies = rewatch
	rep.TopInteractedUsers = users
	rep.TopGenres = rollup.TopGenres
	rep.TopCountries = rollup.TopCountries
	rep.TopLanguages = rollup.TopLanguages
	rep.AllCountries = rollup.AllCountries
	rep.TopActorsAllTime = rollup.TopActorsAllTime
	rep.TopActorsLogged = rollup.TopActorsLogged
	rep.TopDirectorsAllTime = rollup.TopDirectorsAllTime
	rep.TopDirectorsLogged = rollup.TopDirectorsLogged
	rep.AllMovies = rollup.AllMovies

	rep.fillEmpty()
	return rep
}

var (
	_ stats.Enricher      = (*enrich.Batcher)(nil)
	_ social.PosterLookup = (*enrich.Batcher)(nil)
)
