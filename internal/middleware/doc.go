// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

/*
Package middleware provides HTTP middleware for request tracking and
Prometheus instrumentation.

Both middlewares have the func(http.Handler) http.Handler shape and plug
straight into chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

RequestID accepts an upstream X-Request-ID or generates a UUID, echoes it on
the response and stores it in the logging context so every log line of the
request carries request_id.

PrometheusMetrics records request counts and latency labelled by the chi
route pattern rather than the raw path, keeping label cardinality bounded.
*/
package middleware
