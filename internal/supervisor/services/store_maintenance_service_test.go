// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/boxdstats/internal/enrich"
)

type countingMaintainer struct {
	calls atomic.Int32
	err   error
}

func (c *countingMaintainer) Maintain() error {
	c.calls.Add(1)
	return c.err
}

func TestStoreMaintenanceServiceTicks(t *testing.T) {
	t.Parallel()

	for _, failing := range []bool{false, true} {
		m := &countingMaintainer{}
		if failing {
			m.err = errors.New("disk busy")
		}
		svc := NewStoreMaintenanceService(m, 5*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		deadline := time.Now().Add(2 * time.Second)
		for m.calls.Load() < 3 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		cancel()

		if got := m.calls.Load(); got < 3 {
			t.Errorf("failing=%v: Maintain called %d times, want >= 3", failing, got)
		}
		if err := <-errCh; !errors.Is(err, context.Canceled) {
			t.Errorf("failing=%v: Serve() = %v, want context.Canceled", failing, err)
		}
	}
}

func TestStoreMaintenanceServiceDefaults(t *testing.T) {
	t.Parallel()

	svc := NewStoreMaintenanceService(enrich.NewMemoryStore(10, time.Hour), 0)
	if svc.interval != DefaultMaintenanceInterval {
		t.Errorf("interval = %v, want %v", svc.interval, DefaultMaintenanceInterval)
	}
	if svc.String() != "store-maintenance" {
		t.Errorf("String() = %q", svc.String())
	}
}
