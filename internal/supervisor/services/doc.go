// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

// Package services adapts server components to suture's Serve(ctx) model.
//
// HTTPServerService turns ListenAndServe/Shutdown into a context-driven
// service. StoreMaintenanceService ticks enrich.Maintainer stores.
package services
