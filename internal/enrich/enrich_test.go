// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/boxdstats/internal/config"
	"github.com/tomtom215/boxdstats/internal/tmdb"
)

// fakeProvider answers every search with a film whose id is derived from
// the title, unless the title is listed in missing.
type fakeProvider struct {
	disabled bool
	missing  map[string]bool
	failing  map[string]bool

	mu      sync.Mutex
	ids     map[int]string
	searchN atomic.Int32
	detailN atomic.Int32
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		missing: map[string]bool{},
		failing: map[string]bool{},
		ids:     map[int]string{},
	}
}

func (f *fakeProvider) Enabled() bool { return !f.disabled }

func (f *fakeProvider) Search(_ context.Context, title, year string) (*tmdb.SearchResult, error) {
	f.searchN.Add(1)
	lower := strings.ToLower(title)
	if f.missing[lower] {
		return nil, tmdb.ErrNotFound
	}
	if f.failing[lower] {
		return nil, &tmdb.APIError{StatusCode: 500}
	}
	f.mu.Lock()
	id := len(f.ids) + 1
	f.ids[id] = lower
	f.mu.Unlock()
	return &tmdb.SearchResult{ID: id, Title: title, PosterPath: "/search-" + lower + ".jpg"}, nil
}

func (f *fakeProvider) Details(_ context.Context, id int) (*tmdb.MovieDetails, error) {
	f.detailN.Add(1)
	f.mu.Lock()
	title := f.ids[id]
	f.mu.Unlock()
	return &tmdb.MovieDetails{
		ID:               id,
		Runtime:          100,
		PosterPath:       "/" + title + ".jpg",
		OriginalLanguage: "en",
		OriginCountry:    []string{"US"},
		Genres:           []tmdb.Genre{{Name: "Horror"}},
		Credits: tmdb.Credits{
			Cast: []tmdb.CastMember{{Name: "Kurt Russell", ProfilePath: "/kr.jpg"}},
			Crew: []tmdb.CrewMember{{Name: "John Carpenter", Job: "Director"}, {Name: "Dean Cundey", Job: "Director of Photography"}},
		},
	}, nil
}

type countingLimiter struct {
	calls atomic.Int32
	err   error
}

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.calls.Add(1)
	return l.err
}

func queries(n int) []Query {
	out := make([]Query, n)
	for i := range out {
		out[i] = Query{Title: fmt.Sprintf("Film %d", i), Year: "2000"}
	}
	return out
}

func TestNewTitleKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title, year string
		want        TitleKey
	}{
		{" The Thing ", "1982", "the thing::1982"},
		{"the thing", "1982", "the thing::1982"},
		{"Alien", "", "alien::"},
		{"ALIEN", " 1979 ", "alien::1979"},
	}
	for _, tt := range tests {
		if got := NewTitleKey(tt.title, tt.year); got != tt.want {
			t.Errorf("NewTitleKey(%q, %q) = %q, want %q", tt.title, tt.year, got, tt.want)
		}
	}
}

func TestResolveAllDeduplicatesTitleKeys(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider()
	b := NewBatcher(NewCache(provider), nil, 25, 5)

	got := b.ResolveAll(context.Background(), []Query{
		{Title: " The Thing ", Year: "1982"},
		{Title: "the thing", Year: "1982"},
	})

	if len(got) != 1 {
		t.Fatalf("ResolveAll() returned %d keys, want 1", len(got))
	}
	md := got[NewTitleKey("the thing", "1982")]
	if md == nil {
		t.Fatal("expected metadata for the thing::1982")
	}
	if provider.searchN.Load() != 1 || provider.detailN.Load() != 1 {
		t.Errorf("provider calls search=%d details=%d, want 1 and 1", provider.searchN.Load(), provider.detailN.Load())
	}
	if len(md.Directors) != 1 || md.Directors[0].Name != "John Carpenter" {
		t.Errorf("Directors = %+v", md.Directors)
	}
}

func TestDisabledProviderMakesNoCalls(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider()
	provider.disabled = true
	c := NewCache(provider)

	if c.Enabled() {
		t.Fatal("Enabled() = true")
	}
	if md := c.GetOrFetch(context.Background(), "Heat", "1995"); md != nil {
		t.Errorf("GetOrFetch() = %+v, want nil", md)
	}
	if poster := c.PosterOnly(context.Background(), "Heat", "1995"); poster != "" {
		t.Errorf("PosterOnly() = %q, want empty", poster)
	}
	if provider.searchN.Load() != 0 || provider.detailN.Load() != 0 {
		t.Error("disabled provider was called")
	}

	nilCache := NewCache(nil)
	if md := nilCache.GetOrFetch(context.Background(), "Heat", "1995"); md != nil {
		t.Error("nil provider returned metadata")
	}
}

func TestNegativeResultsAreCached(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider()
	provider.missing["nowhere"] = true
	provider.failing["broken"] = true
	c := NewCache(provider)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if md := c.GetOrFetch(ctx, "Nowhere", "2001"); md != nil {
			t.Fatal("expected nil for missing title")
		}
		if md := c.GetOrFetch(ctx, "Broken", ""); md != nil {
			t.Fatal("expected nil for failing title")
		}
	}
	if provider.searchN.Load() != 2 {
		t.Errorf("search calls = %d, want 2", provider.searchN.Load())
	}
	md, ok := c.Get(NewTitleKey("nowhere", "2001"))
	if !ok || md != nil {
		t.Errorf("Get() = %v, %v; want nil, true", md, ok)
	}
}

func TestConcurrentMissesCollapse(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider()
	c := NewCache(provider)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.GetOrFetch(context.Background(), "Heat", "1995")
		}()
	}
	wg.Wait()

	if provider.searchN.Load() != 1 {
		t.Errorf("search calls = %d, want 1", provider.searchN.Load())
	}
}

func TestBatcherWaitsBetweenBatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		n         int
		posters   bool
		wantWaits int32
	}{
		{name: "single detail batch", n: 25, wantWaits: 0},
		{name: "three detail batches", n: 60, wantWaits: 2},
		{name: "poster batches of five", n: 12, posters: true, wantWaits: 2},
		{name: "empty", n: 0, wantWaits: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			limiter := &countingLimiter{}
			b := NewBatcher(NewCache(newFakeProvider()), limiter, 25, 5)

			if tt.posters {
				got := b.PostersAll(context.Background(), queries(tt.n))
				if len(got) != tt.n {
					t.Errorf("PostersAll() returned %d, want %d", len(got), tt.n)
				}
			} else {
				got := b.ResolveAll(context.Background(), queries(tt.n))
				if len(got) != tt.n {
					t.Errorf("ResolveAll() returned %d, want %d", len(got), tt.n)
				}
			}
			if limiter.calls.Load() != tt.wantWaits {
				t.Errorf("limiter waits = %d, want %d", limiter.calls.Load(), tt.wantWaits)
			}
		})
	}
}

func TestBatcherStopsWhenLimiterFails(t *testing.T) {
	t.Parallel()

	limiter := &countingLimiter{err: context.Canceled}
	b := NewBatcher(NewCache(newFakeProvider()), limiter, 25, 5)

	got := b.ResolveAll(context.Background(), queries(60))
	if len(got) != 25 {
		t.Errorf("ResolveAll() returned %d, want first batch of 25", len(got))
	}
}

func TestResolveAllSkipsResolvedKeys(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider()
	limiter := &countingLimiter{}
	c := NewCache(provider)
	b := NewBatcher(c, limiter, 25, 5)

	b.ResolveAll(context.Background(), queries(30))
	b.ResolveAll(context.Background(), queries(30))

	if provider.searchN.Load() != 30 {
		t.Errorf("search calls = %d, want 30", provider.searchN.Load())
	}
	if limiter.calls.Load() != 1 {
		t.Errorf("limiter waits = %d, want 1", limiter.calls.Load())
	}
}

func TestPosterOnlyReusesDetails(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider()
	c := NewCache(provider)
	ctx := context.Background()

	md := c.GetOrFetch(ctx, "Alien", "1979")
	if md == nil {
		t.Fatal("GetOrFetch() = nil")
	}
	searches := provider.searchN.Load()

	if poster := c.PosterOnly(ctx, "alien", "1979"); poster != "/alien.jpg" {
		t.Errorf("PosterOnly() = %q, want /alien.jpg", poster)
	}
	if provider.searchN.Load() != searches {
		t.Error("PosterOnly issued a search for a resolved title")
	}

	if poster := c.PosterOnly(ctx, "Aliens", ""); poster != "/search-aliens.jpg" {
		t.Errorf("PosterOnly() = %q", poster)
	}
	if provider.detailN.Load() != 1 {
		t.Errorf("detail calls = %d, want 1", provider.detailN.Load())
	}
}

func TestMemoryStoreSharesPositiveResults(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(10, time.Hour)
	provider := newFakeProvider()
	provider.missing["nowhere"] = true
	ctx := context.Background()

	first := NewCache(provider, WithStore(store))
	first.GetOrFetch(ctx, "Heat", "1995")
	first.GetOrFetch(ctx, "Nowhere", "")
	if store.Len() != 1 {
		t.Fatalf("store holds %d entries, want 1", store.Len())
	}

	second := NewCache(provider, WithStore(store))
	if md := second.GetOrFetch(ctx, "heat", "1995"); md == nil || md.Runtime != 100 {
		t.Errorf("GetOrFetch() from store = %+v", md)
	}
	second.GetOrFetch(ctx, "Nowhere", "")

	// Heat once, Nowhere twice
	if provider.searchN.Load() != 3 {
		t.Errorf("search calls = %d, want 3", provider.searchN.Load())
	}
}

func TestBadgerStoreRoundTrip(t *testing.T) {
	t.Parallel()

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	store := NewBadgerStoreFromDB(db, time.Hour)
	defer func() { _ = store.Close() }()

	key := NewTitleKey("Paris, Texas", "1984")
	if _, ok := store.Get(key); ok {
		t.Fatal("Get() on empty store = true")
	}

	store.Put(key, &Metadata{
		TMDBID:        655,
		Genres:        []string{"Drama"},
		Cast:          []Person{{Name: "Harry Dean Stanton"}},
		Directors:     []Person{{Name: "Wim Wenders"}},
		Runtime:       145,
		OriginCountry: "DE",
	})
	store.Put(NewTitleKey("nothing", ""), nil)

	md, ok := store.Get(key)
	if !ok {
		t.Fatal("Get() after Put = false")
	}
	if md.Runtime != 145 || md.Directors[0].Name != "Wim Wenders" || md.OriginCountry != "DE" {
		t.Errorf("Get() = %+v", md)
	}
	if _, ok := store.Get(NewTitleKey("nothing", "")); ok {
		t.Error("nil metadata was stored")
	}
	if err := store.Maintain(); err != nil {
		t.Errorf("Maintain() error = %v", err)
	}
}

func TestStoresImplementMaintainer(t *testing.T) {
	t.Parallel()

	var _ Maintainer = (*BadgerStore)(nil)
	var m Maintainer = NewMemoryStore(4, time.Nanosecond)

	store := m.(*MemoryStore)
	store.Put(NewTitleKey("Ran", "1985"), &Metadata{TMDBID: 11645})
	time.Sleep(time.Millisecond)
	if err := m.Maintain(); err != nil {
		t.Fatalf("Maintain() error = %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() after Maintain = %d, want 0", store.Len())
	}
}

func TestOpenStore(t *testing.T) {
	t.Parallel()

	store, err := OpenStore(config.EnrichmentConfig{Store: StoreNone})
	if err != nil || store != nil {
		t.Errorf("OpenStore(none) = %v, %v; want nil, nil", store, err)
	}

	store, err = OpenStore(config.EnrichmentConfig{Store: StoreMemory, MemoryCapacity: 10, StoreTTL: time.Hour})
	if err != nil {
		t.Fatalf("OpenStore(memory) error = %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Errorf("OpenStore(memory) = %T", store)
	}

	if _, err := OpenStore(config.EnrichmentConfig{Store: "redis"}); err == nil {
		t.Error("OpenStore(redis) error = nil")
	}
}

func TestNewMetadata(t *testing.T) {
	t.Parallel()

	details := &tmdb.MovieDetails{
		ID:                  1,
		Runtime:             -5,
		ProductionCountries: []tmdb.ProductionCountry{{ISO3166: "IT"}},
		Genres:              []tmdb.Genre{{Name: "Western"}, {Name: " "}},
	}
	for i := 0; i < 14; i++ {
		details.Credits.Cast = append(details.Credits.Cast, tmdb.CastMember{Name: fmt.Sprintf("Actor %02d", i)})
	}
	details.Credits.Cast[3].Name = ""

	md := NewMetadata(&tmdb.SearchResult{ID: 1, PosterPath: "/s.jpg"}, details)

	if len(md.Cast) != MaxStoredCast {
		t.Errorf("len(Cast) = %d, want %d", len(md.Cast), MaxStoredCast)
	}
	if md.Cast[3].Name != "Actor 04" {
		t.Errorf("Cast[3] = %q, want unnamed credits skipped", md.Cast[3].Name)
	}
	if got := md.CountedCast(); len(got) != MaxCountedCast {
		t.Errorf("len(CountedCast()) = %d", len(got))
	}
	if md.Runtime != 0 {
		t.Errorf("Runtime = %d, want 0", md.Runtime)
	}
	if md.OriginCountry != "IT" {
		t.Errorf("OriginCountry = %q, want IT", md.OriginCountry)
	}
	if md.PosterPath != "/s.jpg" {
		t.Errorf("PosterPath = %q", md.PosterPath)
	}
	if len(md.Genres) != 1 {
		t.Errorf("Genres = %v", md.Genres)
	}
	if md.Directors == nil {
		t.Error("Directors is nil, want empty")
	}

	var nilMD *Metadata
	if nilMD.CountedCast() != nil {
		t.Error("nil CountedCast() != nil")
	}
}

func TestNewLimiterPaces(t *testing.T) {
	t.Parallel()

	l := NewLimiter(20 * time.Millisecond)
	start := time.Now()
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("first Wait() returned after %v, want paced", elapsed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewLimiter(time.Hour).Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() on cancelled ctx = %v", err)
	}
}
