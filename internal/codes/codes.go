// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

// Package codes maps ISO language and country codes to display names.
//
// The tables are fixed at compile time and never written after package
// initialization, so they are safe for concurrent use.
package codes

import "strings"

// Language returns the display name for an ISO 639-1 code. Unknown codes are
// returned trimmed but otherwise unchanged; an empty code yields "".
func Language(code string) string {
	code = strings.TrimSpace(code)
	if name, ok := languages[code]; ok {
		return name
	}
	return code
}

// Country returns the display name for an ISO 3166-1 alpha-2 code. Unknown
// codes are returned trimmed but otherwise unchanged; an empty code yields "".
func Country(code string) string {
	code = strings.TrimSpace(code)
	if name, ok := countries[code]; ok {
		return name
	}
	return code
}
