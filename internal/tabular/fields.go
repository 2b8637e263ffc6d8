// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package tabular

// Field is a logical column that may appear under several header names.
type Field int

// Logical fields.
const (
	Title Field = iota
	Year
	Rating
	WatchedDate
	Tags
	RatedDate
	Content
	Comment
	Username
	Location
	Bio
)

var fieldNames = map[Field]string{
	Title:       "title",
	Year:        "year",
	Rating:      "rating",
	WatchedDate: "watched date",
	Tags:        "tags",
	RatedDate:   "rated date",
	Content:     "content",
	Comment:     "comment",
	Username:    "username",
	Location:    "location",
	Bio:         "bio",
}

// String returns the field's logical name.
func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// synonyms lists, per logical field, the header names tried in priority
// order. This table is the single place the resolution order is defined.
var synonyms = map[Field][]string{
	Title:       {"Name", "name", "Title"},
	Year:        {"Year", "year", "Year Released", "Release Year"},
	Rating:      {"Rating", "rating"},
	WatchedDate: {"Watched Date", "WatchedDate", "watchedDate", "Date"},
	Tags:        {"Tags", "tags"},
	RatedDate:   {"Date", "date"},
	Content:     {"Content", "content"},
	Comment:     {"Comment", "comment"},
	Username:    {"Username", "username"},
	Location:    {"Location", "location"},
	Bio:         {"Bio", "bio"},
}

// Synonyms returns a copy of the header names tried for f, in priority order.
func Synonyms(f Field) []string {
	return append([]string(nil), synonyms[f]...)
}
