// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

/*
Package cache provides the two in-memory caches keepfeed needs.

# Slot

Slot[T] holds one value with a freshness TTL. It backs the trending (1h),
featured (24h) and popular (1h) article lists:

	trending := cache.NewSlot("trending", time.Hour, client.RecentChanges,
	    cache.WithEmpty(func(v []string) bool { return len(v) == 0 }))
	titles, err := trending.Get(ctx)

Get never regresses from "some data" to "no data": when a refresh fails or
comes back empty, the previous value is returned with a nil error and the
outcome is reported as OutcomeStale.

# TTL

TTL[V] is a keyed cache with sliding expiration, used by the host bridge to
keep provider sessions alive between template listing and token resolution.

Both types are safe for concurrent use.
*/
package cache
