// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

/*
Package supervisor runs the long-lived parts of the stats server under a
suture v4 supervisor tree.

	RootSupervisor ("boxdstats")
	├── StorageSupervisor ("storage-layer")
	│   └── StoreMaintenanceService (when the metadata store needs upkeep)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with backoff. Supervisor events are logged
through the sutureslog adapter, so restarts show up in the same structured
log stream as request logs.

# Usage

	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))
	if m, ok := store.(enrich.Maintainer); ok {
	    tree.AddStorageService(services.NewStoreMaintenanceService(m, 10*time.Minute))
	}
	return tree.Serve(ctx)

Report builds themselves are request scoped and are not supervised; each
upload runs inside its HTTP handler and ends with the request.
*/
package supervisor
