// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/boxdstats/internal/validation"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks struct-tag rules first, then the cross-field rules that
// tags cannot express.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateEnrichment(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	for _, origin := range c.Server.FrontendURLs {
		if origin == "*" {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("FRONTEND_URLS contains an invalid origin: %q", origin)
		}
		if u.Path != "" && u.Path != "/" {
			return fmt.Errorf("FRONTEND_URLS origin must not contain a path: %q", origin)
		}
	}
	if c.Server.RateLimitRequests > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when RATE_LIMIT_REQUESTS is set")
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	if c.Enrichment.Store == "badger" && strings.TrimSpace(c.Enrichment.StorePath) == "" {
		return fmt.Errorf("ENRICH_STORE_PATH is required when ENRICH_STORE=badger")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
