// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

/*
Package api provides the HTTP surface of Boxdstats.

Routes:

  - POST /api/upload-stats: multipart upload (field "file") of an export
    archive; responds with the report as plain JSON
  - GET /health/live: liveness probe
  - GET /health/ready: readiness probe, including whether film enrichment
    is enabled
  - GET /metrics: Prometheus metrics

Errors use the APIResponse envelope:

	{"success": false, "error": {"code": "VALIDATION_ERROR", "message": "..."}}

A missing file, a file that is not an export archive, or an export without
its required tables is a 400 VALIDATION_ERROR. An upload over the configured
size is a 413. Anything else is a 500 INTERNAL_ERROR.

Middleware stack (outermost first): request ID, Prometheus metrics, real
IP, panic recovery, CORS with the origin whitelist, then per-IP rate
limiting on the upload route.

Usage Example:

	engine, _ := report.NewEngineFromConfig(cfg)
	handler := api.NewHandler(engine, cfg.Server.MaxUploadBytes)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Server))
	srv := &http.Server{Addr: cfg.Server.Address(), Handler: router.SetupChi()}
*/
package api
