// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

/*
Package services adapts keepfeed components to suture.Service.

HTTPServerService wraps *http.Server: ListenAndServe runs in a goroutine and
context cancellation triggers Shutdown with a bounded drain.

ArticleRefresherService restores the trending, featured and popular lists
from snapshots once, then reads them on a ticker so expired lists refresh in
the background.

LibraryWatcherService watches the directories holding local Playnite exports
with fsnotify and invalidates the library memo when an export changes.

Every service returns ctx.Err() on cancellation and an error on failure so
the supervisor can decide whether to restart it.
*/
package services
