// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

/*
Package report builds the statistics report for one export archive.

An Engine opens the archive, reads the tables it knows about concurrently,
resolves film metadata through a per-report enrichment cache and merges every
aggregate into a Report.

# Input errors

Only two failures abort a build: the upload is not a readable archive, or one
of the required tables (watched, ratings, diary) is missing. IsInputError
reports whether an error is one of these. Every other problem, from a broken
optional table to an unreachable metadata provider, only empties the affected
fields.

# Usage

	engine, err := report.NewEngineFromConfig(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	rep, err := engine.Build(ctx, data)
	if report.IsInputError(err) {
		// tell the user to upload a proper export
	}
*/
package report
