// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package social

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/boxdstats/internal/config"
	"github.com/tomtom215/boxdstats/internal/enrich"
	"github.com/tomtom215/boxdstats/internal/logging"
	"github.com/tomtom215/boxdstats/internal/metrics"
	"github.com/tomtom215/boxdstats/internal/tabular"
	"github.com/tomtom215/boxdstats/internal/tmdb"
)

// linkBatchSize is how many short links are resolved concurrently.
const linkBatchSize = 5

// Comment is one comment left on another member's activity.
type Comment struct {
	Date      string `json:"date"`
	Text      string `json:"text"`
	Movie     string `json:"movie"`
	FinalURL  string `json:"finalUrl"`
	PosterURL string `json:"posterUrl"`
}

// User is a member the owner interacted with.
type User struct {
	Username         string    `json:"username"`
	InteractionCount int       `json:"interactionCount"`
	Comments         []Comment `json:"comments"`
	AvatarURL        string    `json:"avatarUrl"`
}

// PosterLookup resolves poster paths for a set of titles in paced batches.
// *enrich.Batcher implements it.
type PosterLookup interface {
	PostersAll(ctx context.Context, queries []enrich.Query) map[enrich.TitleKey]string
}

// Service resolves links and avatars over HTTP.
type Service struct {
	client         *http.Client
	profileBaseURL string
	linkTimeout    time.Duration
	avatarLimit    int
	posterLimit    int
}

// NewService creates a Service. A nil client gets http.DefaultClient's
// redirect policy with no overall timeout; each call is bounded by
// cfg.LinkTimeout instead.
func NewService(cfg config.SocialConfig, client *http.Client) *Service {
	if client == nil {
		client = &http.Client{}
	}
	timeout := cfg.LinkTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	base := strings.TrimRight(cfg.ProfileBaseURL, "/")
	if base == "" {
		base = "https://letterboxd.com"
	}
	return &Service{
		client:         client,
		profileBaseURL: base,
		linkTimeout:    timeout,
		avatarLimit:    cfg.AvatarLimit,
		posterLimit:    cfg.PosterLimit,
	}
}

type pendingComment struct {
	link    string
	comment Comment
}

// TopInteractedUsers ranks the members referenced by short links in the
// comments table, most interactions first. Links that fail to resolve or
// point back at owner are skipped. The top members get avatars, and the
// comments of the top few get poster URLs.
func (s *Service) TopInteractedUsers(ctx context.Context, comments []tabular.Row, owner string, posters PosterLookup) []User {
	log := logging.Ctx(ctx).With().Str("component", "social").Logger()

	var pending []pendingComment
	for _, row := range comments {
		content := row.Text(tabular.Content)
		if !strings.Contains(content, ShortLinkMarker) {
			continue
		}
		pending = append(pending, pendingComment{
			link: content,
			comment: Comment{
				Date: row.Text(tabular.RatedDate),
				Text: row.Text(tabular.Comment),
			},
		})
	}
	if len(pending) == 0 {
		return []User{}
	}

	links := s.resolveLinks(ctx, pending)

	owner = strings.ToLower(strings.TrimSpace(owner))
	byUser := make(map[string]*User)
	var order []*User
	for i, p := range pending {
		link := links[i]
		if link.Username == UnknownUser {
			metrics.SocialLinkResolutions.WithLabelValues("failed").Inc()
			continue
		}
		if owner != "" && strings.ToLower(strings.TrimSpace(link.Username)) == owner {
			metrics.SocialLinkResolutions.WithLabelValues("self").Inc()
			continue
		}
		metrics.SocialLinkResolutions.WithLabelValues("resolved").Inc()

		user, ok := byUser[link.Username]
		if !ok {
			user = &User{Username: link.Username, Comments: []Comment{}}
			byUser[link.Username] = user
			order = append(order, user)
		}
		c := p.comment
		c.Movie = link.ItemName
		c.FinalURL = link.FinalURL
		user.InteractionCount++
		user.Comments = append(user.Comments, c)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].InteractionCount != order[j].InteractionCount {
			return order[i].InteractionCount > order[j].InteractionCount
		}
		return order[i].Username < order[j].Username
	})

	s.attachAvatars(ctx, order)
	s.attachPosters(ctx, order, posters)

	users := make([]User, len(order))
	for i, u := range order {
		users[i] = *u
	}
	log.Debug().Int("comments", len(pending)).Int("users", len(users)).Msg("Ranked interacted users")
	return users
}

// resolveLinks resolves in batches; results line up with pending.
func (s *Service) resolveLinks(ctx context.Context, pending []pendingComment) []Link {
	links := make([]Link, len(pending))
	for start := 0; start < len(pending); start += linkBatchSize {
		end := start + linkBatchSize
		if end > len(pending) {
			end = len(pending)
		}
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				link, err := s.ResolveLink(ctx, pending[i].link)
				if err != nil {
					logging.Ctx(ctx).Debug().Err(err).Str("component", "social").Msg("Short link unresolved")
				}
				links[i] = link
			}(i)
		}
		wg.Wait()
	}
	return links
}

func (s *Service) attachAvatars(ctx context.Context, users []*User) {
	n := max(0, min(s.avatarLimit, len(users)))
	var wg sync.WaitGroup
	for _, u := range users[:n] {
		wg.Add(1)
		go func(u *User) {
			defer wg.Done()
			avatar, err := s.FetchAvatar(ctx, u.Username)
			switch {
			case err != nil:
				metrics.SocialAvatarFetches.WithLabelValues("error").Inc()
				logging.Ctx(ctx).Debug().Err(err).Str("component", "social").Str("username", u.Username).Msg("Avatar fetch failed")
			case avatar == "":
				metrics.SocialAvatarFetches.WithLabelValues("missing").Inc()
			default:
				metrics.SocialAvatarFetches.WithLabelValues("found").Inc()
			}
			u.AvatarURL = avatar
		}(u)
	}
	wg.Wait()
}

// attachPosters looks posters up by item name alone, once per name, in
// one batched pass over the top users' comments.
func (s *Service) attachPosters(ctx context.Context, users []*User, posters PosterLookup) {
	if posters == nil {
		return
	}
	top := users[:max(0, min(s.posterLimit, len(users)))]

	var queries []enrich.Query
	for _, u := range top {
		for _, c := range u.Comments {
			if c.Movie != "" {
				queries = append(queries, enrich.Query{Title: c.Movie})
			}
		}
	}
	if len(queries) == 0 {
		return
	}

	paths := posters.PostersAll(ctx, queries)
	for _, u := range top {
		for i := range u.Comments {
			if movie := u.Comments[i].Movie; movie != "" {
				u.Comments[i].PosterURL = tmdb.PosterURL(paths[enrich.NewTitleKey(movie, "")])
			}
		}
	}
}
