// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

/*
Package library turns a Playnite library export into objective data.

# Pipeline

	SourceReader  file, directory/games.json or http(s) URL -> bytes
	Decode        JSON, BOM-aware JSON, NDJSON, Windows-1252 fallbacks -> any
	Normalize     root shape + per-entry coercion -> []Entry
	Store         memoized by literal path, singleflight, mtime-checked
	Filter        one ordered, short-circuiting pass -> names, entries, facets
	Game          lazy per-instance compute, accessors, templates, Resolve

# Sharing

Store.Load returns the same slice to every caller for a given path. Callers
must treat it as read-only.

# Failure policy

Loader errors are sentinel values (ErrNoPath, ErrNotFound, ErrMissingGamesJSON,
ErrHTTPStatus, ErrUndecodable, ErrUnsupportedShape) so callers can branch
with errors.Is. Game never surfaces them: a library that cannot be loaded
behaves like an empty one and yields the single fallback template.
*/
package library
