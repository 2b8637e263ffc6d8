// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package api

import (
	"context"
	"time"

	"github.com/tomtom215/boxdstats/internal/report"
)

// DefaultMaxUploadBytes caps uploads when no limit is configured.
const DefaultMaxUploadBytes int64 = 64 << 20

// ReportBuilder builds a report from an uploaded archive. *report.Engine
// implements it.
type ReportBuilder interface {
	Build(ctx context.Context, data []byte) (*report.Report, error)
	EnrichmentEnabled() bool
}

// Handler serves the API endpoints.
type Handler struct {
	reports        ReportBuilder
	maxUploadBytes int64
	startTime      time.Time
}

// NewHandler creates a Handler. maxUploadBytes <= 0 uses
// DefaultMaxUploadBytes.
func NewHandler(reports ReportBuilder, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{
		reports:        reports,
		maxUploadBytes: maxUploadBytes,
		startTime:      time.Now(),
	}
}
