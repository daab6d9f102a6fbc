// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package library

import (
	"strings"

	"github.com/goccy/go-json"
)

// Entry is one normalized game record.
//
// Facet fields keep the raw export values ({"Name": ...} objects or plain
// strings); FacetNames flattens them when facets are accumulated.
type Entry struct {
	Name             string  `json:"name"`
	ID               string  `json:"id,omitempty"`
	PlaytimeMinutes  int     `json:"playtime_minutes"`
	Source           *string `json:"source,omitempty"`
	CompletionStatus *string `json:"completion_status,omitempty"`
	ReleaseYear      int     `json:"release_year,omitempty"`
	UserScore        int     `json:"user_score,omitempty"`
	CriticScore      int     `json:"critic_score,omitempty"`
	CommunityScore   int     `json:"community_score,omitempty"`

	Tags       []any `json:"tags,omitempty"`
	Genres     []any `json:"genres,omitempty"`
	Features   []any `json:"features,omitempty"`
	Platforms  []any `json:"platforms,omitempty"`
	Categories []any `json:"categories,omitempty"`
	Series     any   `json:"series,omitempty"`

	Favorite bool            `json:"favorite,omitempty"`
	Added    json.RawMessage `json:"added,omitempty"`
	Modified json.RawMessage `json:"modified,omitempty"`
}

// DisplayName returns the name, suffixed with " [Source: X]" when withSource
// is set and the source is known.
func (e *Entry) DisplayName(withSource bool) string {
	if withSource && e.Source != nil {
		return e.Name + " [Source: " + *e.Source + "]"
	}
	return e.Name
}

// FacetNames flattens a raw facet value. It accepts a list or a single
// value, where each item is a string or an object with a Name field.
// Blank names are dropped.
func FacetNames(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if name, ok := itemName(item); ok {
				out = append(out, name)
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if name := strings.TrimSpace(item); name != "" {
				out = append(out, name)
			}
		}
		return out
	default:
		if name, ok := itemName(v); ok {
			return []string{name}
		}
		return nil
	}
}

func itemName(item any) (string, bool) {
	switch v := item.(type) {
	case string:
		name := strings.TrimSpace(v)
		return name, name != ""
	case map[string]any:
		s, ok := v["Name"].(string)
		if !ok {
			s, ok = v["name"].(string)
		}
		if !ok {
			return "", false
		}
		name := strings.TrimSpace(s)
		return name, name != ""
	default:
		return "", false
	}
}
