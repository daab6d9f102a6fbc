// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package wikipedia

import "errors"

var (
	// ErrHTTPStatus wraps non-200 responses from Wikipedia.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrCircuitOpen is returned while the breaker rejects calls.
	ErrCircuitOpen = errors.New("wikipedia circuit breaker is open")

	// ErrMalformedResponse is returned when a payload lacks the expected fields.
	ErrMalformedResponse = errors.New("malformed wikipedia response")

	// ErrUnknownKind is returned for article kinds other than trending, featured and popular.
	ErrUnknownKind = errors.New("unknown article kind")
)
