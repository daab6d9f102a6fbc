// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package library

// Unlimited sentinels for Criteria bounds.
const (
	NoMaxTimePlayed  = -1
	NoMinReleaseYear = 0
	NoMaxReleaseYear = 9999
)

// Criteria selects which entries survive filtering. Zero minimums and the
// NoMax* sentinels disable a bound.
type Criteria struct {
	MinTimePlayed int `json:"min_time_played" validate:"gte=0"`
	MaxTimePlayed int `json:"max_time_played" validate:"gte=-1"`

	// ExcludedGames matches entry names or ids exactly.
	ExcludedGames              map[string]struct{} `json:"-"`
	ExcludedCompletionStatuses map[string]struct{} `json:"-"`

	MinReleaseYear int `json:"min_release_year" validate:"gte=0,lte=9999"`
	MaxReleaseYear int `json:"max_release_year" validate:"gte=0,lte=9999"`

	MinUserScore      int `json:"min_user_score" validate:"gte=0,lte=100"`
	MinCriticScore    int `json:"min_critic_score" validate:"gte=0,lte=100"`
	MinCommunityScore int `json:"min_community_score" validate:"gte=0,lte=100"`
}

// DefaultCriteria keeps every entry.
func DefaultCriteria() Criteria {
	return Criteria{
		MaxTimePlayed:  NoMaxTimePlayed,
		MinReleaseYear: NoMinReleaseYear,
		MaxReleaseYear: NoMaxReleaseYear,
	}
}

// SetOf builds a lookup set, dropping empty strings.
func SetOf(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// Matches applies the predicates in order and stops at the first failure.
func (c *Criteria) Matches(e *Entry) bool {
	if e.PlaytimeMinutes < c.MinTimePlayed {
		return false
	}
	if c.MaxTimePlayed != NoMaxTimePlayed && e.PlaytimeMinutes > c.MaxTimePlayed {
		return false
	}
	if len(c.ExcludedGames) > 0 {
		if _, ok := c.ExcludedGames[e.Name]; ok {
			return false
		}
		if e.ID != "" {
			if _, ok := c.ExcludedGames[e.ID]; ok {
				return false
			}
		}
	}
	if e.CompletionStatus != nil && len(c.ExcludedCompletionStatuses) > 0 {
		if _, ok := c.ExcludedCompletionStatuses[*e.CompletionStatus]; ok {
			return false
		}
	}
	if e.ReleaseYear != 0 {
		if c.MinReleaseYear != NoMinReleaseYear && e.ReleaseYear < c.MinReleaseYear {
			return false
		}
		if c.MaxReleaseYear != NoMaxReleaseYear && e.ReleaseYear > c.MaxReleaseYear {
			return false
		}
	}
	// A positive minimum also rejects unset (zero) scores.
	if c.MinUserScore > 0 && e.UserScore < c.MinUserScore {
		return false
	}
	if c.MinCriticScore > 0 && e.CriticScore < c.MinCriticScore {
		return false
	}
	if c.MinCommunityScore > 0 && e.CommunityScore < c.MinCommunityScore {
		return false
	}
	return true
}

// Naming controls display names.
type Naming struct {
	IncludeSource bool
}

// Result is the output of one filter pass.
type Result struct {
	Names   []string
	Entries []*Entry
	Facets  *FacetIndex
}

// Filter selects matching entries in input order and accumulates their names
// and facets in the same pass. entries is not modified.
func Filter(entries []Entry, c Criteria, n Naming) Result {
	res := Result{
		Names:   make([]string, 0, len(entries)),
		Entries: make([]*Entry, 0, len(entries)),
		Facets:  NewFacetIndex(),
	}
	for i := range entries {
		e := &entries[i]
		if !c.Matches(e) {
			continue
		}
		res.Names = append(res.Names, e.DisplayName(n.IncludeSource))
		res.Entries = append(res.Entries, e)
		res.Facets.Add(e)
	}
	return res
}
