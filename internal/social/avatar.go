// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package social

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxProfileBytes   = 2 << 20
	defaultAvatarHint = "default-avatar"
)

// FetchAvatar scrapes the member's profile page for an avatar URL. The
// og:image tag wins unless it is missing or the placeholder avatar, in
// which case the profile avatar image is used. A page without either
// yields "".
func (s *Service) FetchAvatar(ctx context.Context, username string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.linkTimeout)
	defer cancel()

	profileURL := s.profileBaseURL + "/" + url.PathEscape(username) + "/"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch profile %s: %w", username, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch profile %s: status %d", username, resp.StatusCode)
	}

	return avatarFromHTML(io.LimitReader(resp.Body, maxProfileBytes))
}

func avatarFromHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse profile page: %w", err)
	}

	avatar, _ := doc.Find(`meta[property="og:image"]`).First().Attr("content")
	if avatar == "" || strings.Contains(avatar, defaultAvatarHint) {
		for _, sel := range []string{".profile-avatar img", ".avatar img"} {
			if src, ok := doc.Find(sel).First().Attr("src"); ok && src != "" {
				return src, nil
			}
		}
		return "", nil
	}
	return avatar, nil
}
