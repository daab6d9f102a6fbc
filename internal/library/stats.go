// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package library

// Stats summarizes an unfiltered library.
type Stats struct {
	Games           int         `json:"games"`
	Favorites       int         `json:"favorites"`
	Unplayed        int         `json:"unplayed"`
	PlaytimeMinutes int         `json:"playtime_minutes"`
	Facets          FacetCounts `json:"facets"`
}

// ComputeStats counts games and distinct facet values over all entries.
func ComputeStats(entries []Entry) Stats {
	idx := NewFacetIndex()
	stats := Stats{Games: len(entries)}
	for i := range entries {
		e := &entries[i]
		idx.Add(e)
		if e.Favorite {
			stats.Favorites++
		}
		if e.PlaytimeMinutes == 0 {
			stats.Unplayed++
		}
		stats.PlaytimeMinutes += e.PlaytimeMinutes
	}
	stats.Facets = idx.Counts()
	return stats
}
