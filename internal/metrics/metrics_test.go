// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordEnrichmentLookup(t *testing.T) {
	before := testutil.ToFloat64(EnrichmentLookups.WithLabelValues(KindSearch, OutcomeFound))

	RecordEnrichmentLookup(KindSearch, OutcomeFound, 15*time.Millisecond)
	RecordEnrichmentLookup(KindSearch, OutcomeFound, 0)

	after := testutil.ToFloat64(EnrichmentLookups.WithLabelValues(KindSearch, OutcomeFound))
	if after-before != 2 {
		t.Errorf("lookups delta = %v, want 2", after-before)
	}
}

func TestRecordCacheAccess(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("run"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("run"))

	RecordCacheAccess("run", true)
	RecordCacheAccess("run", false)
	RecordCacheAccess("run", false)

	if d := testutil.ToFloat64(CacheHits.WithLabelValues("run")) - hits; d != 1 {
		t.Errorf("hits delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(CacheMisses.WithLabelValues("run")) - misses; d != 2 {
		t.Errorf("misses delta = %v, want 2", d)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active = %v, want %v", got, before)
	}
}

// TestMetricGathering tests that metrics can be gathered and pass lint
func TestMetricGathering(t *testing.T) {
	RecordAPIRequest("POST", "/api/upload-stats", "200", time.Second)
	RecordReportBuild("success", 2*time.Second, 40)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		t.Errorf("metric %s: %s", p.Metric, p.Text)
	}
}
