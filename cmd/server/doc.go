// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

/*
Command server runs the Boxdstats HTTP API.

It accepts a Letterboxd account export (the zip from Settings > Data)
on POST /api/upload-stats and answers with the full statistics report
as JSON. Process layout:

	RootSupervisor ("boxdstats")
	├── StorageSupervisor ("storage-layer")
	│   └── StoreMaintenanceService (ENRICH_STORE=memory or badger)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

# Configuration

Settings come from built-in defaults, then config.yaml, then environment
variables. The ones most deployments touch:

	TMDB_API_KEY      enables film metadata (genres, cast, runtime)
	FRONTEND_URLS     comma separated origins allowed to call the API
	PORT              listen port (default 3000)
	ENRICH_STORE      none, memory or badger
	LOG_LEVEL         debug, info, warn, error

Without TMDB_API_KEY the server still runs; reports carry every
export-derived statistic and empty metadata sections.

# Signals

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server stops
accepting connections and waits up to SERVER_SHUTDOWN_TIMEOUT for
in-flight uploads.
*/
package main
