// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/boxdstats/config.yaml",
	"/etc/boxdstats/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              3000,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      5 * time.Minute, // large exports enrich thousands of titles
			ShutdownTimeout:   15 * time.Second,
			MaxUploadBytes:    64 << 20,
			FrontendURLs:      []string{},
			RateLimitRequests: 10,
			RateLimitWindow:   time.Minute,
		},
		TMDB: TMDBConfig{
			APIKey:   "",
			BaseURL:  "https://api.themoviedb.org/3",
			Timeout:  10 * time.Second,
			Language: "en-US",
		},
		Enrichment: EnrichmentConfig{
			DetailBatchSize: 25,
			PosterBatchSize: 5,
			BatchInterval:   200 * time.Millisecond,
			Store:           "none",
			StorePath:       "/data/metadata",
			StoreTTL:        7 * 24 * time.Hour,
			MemoryCapacity:  5000,

			MaintenanceInterval: 10 * time.Minute,
		},
		Social: SocialConfig{
			LinkTimeout:    10 * time.Second,
			ProfileBaseURL: "https://letterboxd.com",
			AvatarLimit:    15,
			PosterLimit:    10,
		},
		Archive: ArchiveConfig{
			MaxEntryBytes: 32 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file found, or "" if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices.
var sliceConfigPaths = []string{
	"server.frontend_urls",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak in.
var envMappings = map[string]string{
	// Server mappings
	"http_host":               "server.host",
	"http_port":               "server.port",
	"port":                    "server.port",
	"server_read_timeout":     "server.read_timeout",
	"server_write_timeout":    "server.write_timeout",
	"server_shutdown_timeout": "server.shutdown_timeout",
	"max_upload_bytes":        "server.max_upload_bytes",
	"frontend_urls":           "server.frontend_urls",
	"rate_limit_requests":     "server.rate_limit_requests",
	"rate_limit_window":       "server.rate_limit_window",

	// Metadata provider mappings
	"tmdb_api_key":  "tmdb.api_key",
	"tmdb_base_url": "tmdb.base_url",
	"tmdb_timeout":  "tmdb.timeout",
	"tmdb_language": "tmdb.language",

	// Enrichment mappings
	"enrich_detail_batch_size": "enrichment.detail_batch_size",
	"enrich_poster_batch_size": "enrichment.poster_batch_size",
	"enrich_batch_interval":    "enrichment.batch_interval",
	"enrich_store":             "enrichment.store",
	"enrich_store_path":        "enrichment.store_path",
	"enrich_store_ttl":         "enrichment.store_ttl",
	"enrich_memory_capacity":   "enrichment.memory_capacity",

	"enrich_maintenance_interval": "enrichment.maintenance_interval",

	// Social mappings
	"social_link_timeout":     "social.link_timeout",
	"social_profile_base_url": "social.profile_base_url",
	"social_avatar_limit":     "social.avatar_limit",
	"social_poster_limit":     "social.poster_limit",

	// Archive mappings
	"archive_max_entry_bytes": "archive.max_entry_bytes",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - TMDB_API_KEY -> tmdb.api_key
//   - FRONTEND_URLS -> server.frontend_urls
//   - ENRICH_STORE -> enrichment.store
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
