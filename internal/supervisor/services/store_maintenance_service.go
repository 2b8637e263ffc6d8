// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package services

import (
	"context"
	"time"

	"github.com/tomtom215/boxdstats/internal/enrich"
	"github.com/tomtom215/boxdstats/internal/logging"
)

// DefaultMaintenanceInterval is used when a non-positive interval is given.
const DefaultMaintenanceInterval = 10 * time.Minute

// StoreMaintenanceService periodically calls Maintain on the metadata
// store: expired entries for the memory store, value log GC for badger.
//
// A failed pass is logged and retried on the next tick rather than
// returned, so a busy disk does not put the storage layer into backoff.
type StoreMaintenanceService struct {
	store    enrich.Maintainer
	interval time.Duration
	name     string
}

// NewStoreMaintenanceService creates the service.
func NewStoreMaintenanceService(store enrich.Maintainer, interval time.Duration) *StoreMaintenanceService {
	if interval <= 0 {
		interval = DefaultMaintenanceInterval
	}
	return &StoreMaintenanceService{
		store:    store,
		interval: interval,
		name:     "store-maintenance",
	}
}

// Serve implements suture.Service.
func (s *StoreMaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.store.Maintain(); err != nil {
				logging.Warn().Err(err).Msg("metadata store maintenance failed")
				continue
			}
			logging.Debug().Dur("took", time.Since(start)).Msg("metadata store maintenance done")
		}
	}
}

// String implements fmt.Stringer.
func (s *StoreMaintenanceService) String() string {
	return s.name
}
