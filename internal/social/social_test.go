// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package social

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/boxdstats/internal/config"
	"github.com/tomtom215/boxdstats/internal/enrich"
	"github.com/tomtom215/boxdstats/internal/tabular"
)

var redirects = map[string]string{
	"/boxd.it/a1":   "/alice/film/the-thing/",
	"/boxd.it/a2":   "/alice/film/heat/",
	"/boxd.it/a3":   "/alice/film/the-thing/",
	"/boxd.it/b1":   "/bob/film/alien/",
	"/boxd.it/me":   "/Owner/film/solaris/",
	"/boxd.it/root": "/",
}

func newLetterboxdServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if target, ok := redirects[r.URL.Path]; ok {
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}
		switch r.URL.Path {
		case "/alice/":
			_, _ = w.Write([]byte(`<html><head><meta property="og:image" content="https://a.ltrbxd.com/alice.jpg"></head></html>`))
		case "/bob/":
			_, _ = w.Write([]byte(`<html><head><meta property="og:image" content="https://s.ltrbxd.com/default-avatar.png"></head>
				<body><div class="profile-avatar"><img src="https://a.ltrbxd.com/bob.jpg"></div></body></html>`))
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

type fakePosters struct {
	mu      sync.Mutex
	batches int
	calls   []string
}

func (f *fakePosters) PostersAll(_ context.Context, queries []enrich.Query) map[enrich.TitleKey]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches++
	out := make(map[enrich.TitleKey]string)
	for _, q := range queries {
		if _, seen := out[q.Key()]; seen {
			continue
		}
		f.calls = append(f.calls, q.Title+"|"+q.Year)
		if q.Title == "Heat" {
			out[q.Key()] = ""
			continue
		}
		out[q.Key()] = "/" + strings.ReplaceAll(strings.ToLower(q.Title), " ", "-") + ".jpg"
	}
	return out
}

func newTestService(server *httptest.Server) *Service {
	return NewService(config.SocialConfig{
		LinkTimeout:    5 * time.Second,
		ProfileBaseURL: server.URL,
		AvatarLimit:    15,
		PosterLimit:    10,
	}, server.Client())
}

func TestTopInteractedUsers(t *testing.T) {
	t.Parallel()

	server := newLetterboxdServer(t)
	svc := newTestService(server)

	comment := func(path, text, date string) tabular.Row {
		return tabular.NewRow("Date", date, "Content", server.URL+path, "Comment", text)
	}
	rows := []tabular.Row{
		comment("/boxd.it/b1", "great pick", "2024-01-03"),
		comment("/boxd.it/a1", "so good", "2024-01-01"),
		comment("/boxd.it/me", "talking to myself", "2024-01-02"),
		comment("/boxd.it/a2", "agreed", "2024-01-04"),
		comment("/boxd.it/root", "lost", "2024-01-05"),
		tabular.NewRow("Date", "2024-01-06", "Content", "no link here", "Comment", "x"),
		comment("/boxd.it/a3", "again", "2024-01-07"),
		tabular.NewRow("Date", "2024-01-08", "Content", "http://127.0.0.1:1/boxd.it/down", "Comment", "unreachable"),
	}
	posters := &fakePosters{}

	users := svc.TopInteractedUsers(context.Background(), rows, "owner", posters)

	if len(users) != 2 {
		t.Fatalf("got %d users, want 2: %+v", len(users), users)
	}
	alice, bob := users[0], users[1]
	if alice.Username != "alice" || alice.InteractionCount != 3 {
		t.Errorf("users[0] = %s/%d, want alice/3", alice.Username, alice.InteractionCount)
	}
	if bob.Username != "bob" || bob.InteractionCount != 1 {
		t.Errorf("users[1] = %s/%d, want bob/1", bob.Username, bob.InteractionCount)
	}

	if alice.AvatarURL != "https://a.ltrbxd.com/alice.jpg" {
		t.Errorf("alice avatar = %q", alice.AvatarURL)
	}
	if bob.AvatarURL != "https://a.ltrbxd.com/bob.jpg" {
		t.Errorf("bob avatar = %q", bob.AvatarURL)
	}

	first := alice.Comments[0]
	if first.Movie != "The Thing" || first.Text != "so good" || first.Date != "2024-01-01" {
		t.Errorf("alice.Comments[0] = %+v", first)
	}
	if !strings.HasSuffix(first.FinalURL, "/alice/film/the-thing/") {
		t.Errorf("FinalURL = %q", first.FinalURL)
	}
	if first.PosterURL != "https://image.tmdb.org/t/p/w200/the-thing.jpg" {
		t.Errorf("PosterURL = %q", first.PosterURL)
	}
	if alice.Comments[1].PosterURL != "" {
		t.Errorf("Heat PosterURL = %q, want empty", alice.Comments[1].PosterURL)
	}

	// The Thing, Heat and Alien, each looked up once by title alone in one pass
	if posters.batches != 1 {
		t.Errorf("PostersAll called %d times, want 1", posters.batches)
	}
	if len(posters.calls) != 3 {
		t.Errorf("poster lookups = %v, want 3", posters.calls)
	}
	for _, call := range posters.calls {
		if !strings.HasSuffix(call, "|") {
			t.Errorf("poster lookup %q carried a year", call)
		}
	}
}

func TestTopInteractedUsersLimits(t *testing.T) {
	t.Parallel()

	server := newLetterboxdServer(t)
	svc := NewService(config.SocialConfig{
		LinkTimeout:    5 * time.Second,
		ProfileBaseURL: server.URL,
		AvatarLimit:    1,
		PosterLimit:    0,
	}, server.Client())

	rows := []tabular.Row{
		tabular.NewRow("Content", server.URL+"/boxd.it/a1"),
		tabular.NewRow("Content", server.URL+"/boxd.it/b1"),
		tabular.NewRow("Content", server.URL+"/boxd.it/a2"),
	}
	posters := &fakePosters{}
	users := svc.TopInteractedUsers(context.Background(), rows, "", posters)

	if len(users) != 2 {
		t.Fatalf("got %d users", len(users))
	}
	if users[0].AvatarURL == "" || users[1].AvatarURL != "" {
		t.Errorf("avatars = %q, %q; want only the first", users[0].AvatarURL, users[1].AvatarURL)
	}
	if len(posters.calls) != 0 {
		t.Errorf("poster lookups = %v, want none", posters.calls)
	}
}

func TestTopInteractedUsersNoLinks(t *testing.T) {
	t.Parallel()

	svc := NewService(config.SocialConfig{}, nil)
	users := svc.TopInteractedUsers(context.Background(), []tabular.Row{tabular.NewRow("Content", "hello")}, "me", nil)
	if users == nil || len(users) != 0 {
		t.Errorf("TopInteractedUsers() = %v, want empty non-nil", users)
	}
}

func TestParseFinalURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw      string
		username string
		item     string
	}{
		{"https://letterboxd.com/alice/film/the-thing/", "alice", "The Thing"},
		{"https://letterboxd.com/bob/list/best-of-2023/", "bob", "Best Of 2023"},
		{"https://letterboxd.com/carol/", "carol", ""},
		{"https://letterboxd.com/", UnknownUser, ""},
	}
	for _, tt := range tests {
		u, err := url.Parse(tt.raw)
		if err != nil {
			t.Fatal(err)
		}
		link := parseFinalURL(u)
		if link.Username != tt.username || link.ItemName != tt.item || link.FinalURL != tt.raw {
			t.Errorf("parseFinalURL(%q) = %+v", tt.raw, link)
		}
	}
}

func TestItemName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"the-thing":    "The Thing",
		"2001-a-space": "2001 A Space",
		"solaris":      "Solaris",
		"double--dash": "Double  Dash",
		"":             "",
	}
	for slug, want := range tests {
		if got := ItemName(slug); got != want {
			t.Errorf("ItemName(%q) = %q, want %q", slug, got, want)
		}
	}
}

func TestAvatarFromHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{"og image", `<meta property="og:image" content="https://x/a.jpg">`, "https://x/a.jpg"},
		{"default falls back", `<meta property="og:image" content="https://x/default-avatar.png"><div class="avatar"><img src="https://x/b.jpg"></div>`, "https://x/b.jpg"},
		{"missing og image", `<div class="profile-avatar"><img src="https://x/c.jpg"></div>`, "https://x/c.jpg"},
		{"default without fallback", `<meta property="og:image" content="https://x/default-avatar.png">`, ""},
		{"nothing", `<p>hi</p>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := avatarFromHTML(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("avatarFromHTML() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("avatarFromHTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchAvatarStatus(t *testing.T) {
	t.Parallel()

	server := newLetterboxdServer(t)
	svc := newTestService(server)

	if _, err := svc.FetchAvatar(context.Background(), "nobody"); err != nil {
		t.Errorf("FetchAvatar(nobody) error = %v", err)
	}

	notFound := httptest.NewServer(http.NotFoundHandler())
	defer notFound.Close()
	svc404 := NewService(config.SocialConfig{ProfileBaseURL: notFound.URL}, notFound.Client())
	if _, err := svc404.FetchAvatar(context.Background(), "alice"); err == nil {
		t.Error("FetchAvatar() on 404 error = nil")
	}
}
