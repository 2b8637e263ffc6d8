// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

/*
Package config provides centralized configuration management for Boxdstats.

Configuration is layered with Koanf v2, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/boxdstats/config.yaml)
 3. Environment variables, mapped explicitly by envTransformFunc

# Environment Variables

HTTP Server (ServerConfig):
  - HTTP_HOST, PORT (or HTTP_PORT)
  - SERVER_READ_TIMEOUT, SERVER_WRITE_TIMEOUT, SERVER_SHUTDOWN_TIMEOUT
  - MAX_UPLOAD_BYTES: largest accepted export archive (default: 64MiB)
  - FRONTEND_URLS: comma-separated CORS origin whitelist
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW: per-IP upload limit

Metadata Provider (TMDBConfig):
  - TMDB_API_KEY: bearer token; empty disables enrichment
  - TMDB_BASE_URL, TMDB_TIMEOUT, TMDB_LANGUAGE

Enrichment (EnrichmentConfig):
  - ENRICH_DETAIL_BATCH_SIZE (25), ENRICH_POSTER_BATCH_SIZE (5)
  - ENRICH_BATCH_INTERVAL (200ms)
  - ENRICH_STORE: none, memory or badger
  - ENRICH_STORE_PATH, ENRICH_STORE_TTL, ENRICH_MEMORY_CAPACITY

Social (SocialConfig):
  - SOCIAL_LINK_TIMEOUT, SOCIAL_PROFILE_BASE_URL
  - SOCIAL_AVATAR_LIMIT (15), SOCIAL_POSTER_LIMIT (10)

Archive (ArchiveConfig):
  - ARCHIVE_MAX_ENTRY_BYTES

Logging (LoggingConfig):
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
