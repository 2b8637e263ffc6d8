// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

// Package social ranks the members a diary owner interacted with through
// comments, resolving boxd.it short links and scraping profile avatars.
package social

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ShortLinkMarker identifies comment content that points at another
// member's activity.
const ShortLinkMarker = "boxd.it"

// UnknownUser is the username of a link that could not be resolved.
const UnknownUser = "unknown"

// Link is a resolved short link.
type Link struct {
	Username string
	ItemName string
	FinalURL string
}

// ResolveLink follows shortURL's redirects with a HEAD request and reads
// the member and item from the final path, /<username>/<kind>/<slug>/.
func (s *Service) ResolveLink(ctx context.Context, shortURL string) (Link, error) {
	ctx, cancel := context.WithTimeout(ctx, s.linkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, strings.TrimSpace(shortURL), http.NoBody)
	if err != nil {
		return Link{Username: UnknownUser}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return Link{Username: UnknownUser}, fmt.Errorf("resolve %s: %w", shortURL, err)
	}
	_ = resp.Body.Close()

	return parseFinalURL(resp.Request.URL), nil
}

func parseFinalURL(u *url.URL) Link {
	link := Link{Username: UnknownUser, FinalURL: u.String()}

	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		link.Username = parts[0]
	}
	if len(parts) > 2 {
		link.ItemName = ItemName(parts[2])
	}
	return link
}

// ItemName turns a URL slug into a display name: "the-thing" becomes
// "The Thing".
func ItemName(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
