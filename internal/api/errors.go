// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package api

import "errors"

var (
	// ErrMissingFile indicates the upload had no "file" part.
	ErrMissingFile = errors.New("no file uploaded")

	// ErrOriginNotAllowed indicates a cross-origin request from an origin
	// outside the whitelist.
	ErrOriginNotAllowed = errors.New("origin not allowed")
)
