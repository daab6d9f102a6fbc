// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package library

import "errors"

// Configuration errors.
var (
	ErrNoPath           = errors.New("no library path configured")
	ErrNotFound         = errors.New("library path does not exist")
	ErrMissingGamesJSON = errors.New("directory does not contain games.json")
)

// Transport errors.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// Data shape errors.
var (
	ErrUndecodable      = errors.New("content is not JSON or NDJSON in any supported encoding")
	ErrUnsupportedShape = errors.New("unsupported library root shape")
)
