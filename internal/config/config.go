// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	TMDB       TMDBConfig       `koanf:"tmdb"`
	Enrichment EnrichmentConfig `koanf:"enrichment"`
	Social     SocialConfig     `koanf:"social"`
	Archive    ArchiveConfig    `koanf:"archive"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	// MaxUploadBytes caps the size of an uploaded export archive.
	MaxUploadBytes int64 `koanf:"max_upload_bytes" validate:"min=1024"`

	// FrontendURLs is the CORS origin whitelist. Requests without an Origin
	// header are always allowed.
	FrontendURLs []string `koanf:"frontend_urls"`

	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// TMDBConfig holds metadata provider settings.
//
// An empty APIKey is valid: enrichment is disabled and every lookup resolves
// to nothing without touching the network.
type TMDBConfig struct {
	APIKey   string        `koanf:"api_key"`
	BaseURL  string        `koanf:"base_url" validate:"required,url"`
	Timeout  time.Duration `koanf:"timeout" validate:"gt=0"`
	Language string        `koanf:"language" validate:"required"`
}

// Enabled reports whether a provider credential is configured.
func (t TMDBConfig) Enabled() bool {
	return t.APIKey != ""
}

// EnrichmentConfig controls metadata lookup batching and the optional
// cross-run metadata store.
type EnrichmentConfig struct {
	DetailBatchSize int           `koanf:"detail_batch_size" validate:"min=1,max=100"`
	PosterBatchSize int           `koanf:"poster_batch_size" validate:"min=1,max=100"`
	BatchInterval   time.Duration `koanf:"batch_interval" validate:"min=0"`

	// Store selects where positive lookups survive between runs:
	// none, memory or badger.
	Store          string        `koanf:"store" validate:"oneof=none memory badger"`
	StorePath      string        `koanf:"store_path"`
	StoreTTL       time.Duration `koanf:"store_ttl" validate:"min=0"`
	MemoryCapacity int           `koanf:"memory_capacity" validate:"min=1"`

	// MaintenanceInterval is how often the server sweeps expired entries
	// or runs badger value log GC.
	MaintenanceInterval time.Duration `koanf:"maintenance_interval" validate:"min=0"`
}

// SocialConfig holds settings for resolving comment short links and
// scraping profile avatars.
type SocialConfig struct {
	LinkTimeout    time.Duration `koanf:"link_timeout" validate:"gt=0"`
	ProfileBaseURL string        `koanf:"profile_base_url" validate:"required,url"`
	AvatarLimit    int           `koanf:"avatar_limit" validate:"min=0"`
	PosterLimit    int           `koanf:"poster_limit" validate:"min=0"`
}

// ArchiveConfig bounds archive extraction.
type ArchiveConfig struct {
	MaxEntryBytes int64 `koanf:"max_entry_bytes" validate:"min=1024"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
