// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package library

import (
	"strings"

	"github.com/tomtom215/keepfeed/internal/config"
)

// Groups toggles the optional template groups.
type Groups struct {
	Tags       bool `json:"tags"`
	Genres     bool `json:"genres"`
	Platforms  bool `json:"platforms"`
	Categories bool `json:"categories"`
	Series     bool `json:"series"`
	Sources    bool `json:"sources"`
	Features   bool `json:"features"`
	Years      bool `json:"years"`
	Ordinals   bool `json:"ordinals"`
	Playtime   bool `json:"playtime"`

	PlaytimeMinMinutes int `json:"playtime_min_minutes" validate:"gte=1"`
	PlaytimeMaxMinutes int `json:"playtime_max_minutes" validate:"gte=1,gtefield=PlaytimeMinMinutes"`
	PlaytimeStep       int `json:"playtime_step" validate:"gte=1"`
}

// Options fully describes one library provider instance.
type Options struct {
	Path                string   `json:"path"`
	Criteria            Criteria `json:"criteria"`
	IncludeSourceInName bool     `json:"include_source_in_name"`
	Groups              Groups   `json:"groups"`
}

// DefaultOptions enables every group except features and keeps every game.
func DefaultOptions() Options {
	return Options{
		Criteria:            DefaultCriteria(),
		IncludeSourceInName: true,
		Groups: Groups{
			Tags:               true,
			Genres:             true,
			Platforms:          true,
			Categories:         true,
			Series:             true,
			Sources:            true,
			Years:              true,
			Ordinals:           true,
			Playtime:           true,
			PlaytimeMinMinutes: 15,
			PlaytimeMaxMinutes: 120,
			PlaytimeStep:       15,
		},
	}
}

// OptionsFromConfig maps the library configuration section to Options.
func OptionsFromConfig(cfg config.LibraryConfig) Options {
	obj := cfg.Objectives
	return Options{
		Path: cfg.JSONPath,
		Criteria: Criteria{
			MinTimePlayed:              cfg.MinTimePlayed,
			MaxTimePlayed:              cfg.MaxTimePlayed,
			ExcludedGames:              SetOf(cfg.ExcludedGames...),
			ExcludedCompletionStatuses: SetOf(cfg.ExcludedCompletionStatuses...),
			MinReleaseYear:             cfg.MinReleaseYear,
			MaxReleaseYear:             cfg.MaxReleaseYear,
			MinUserScore:               cfg.MinUserScore,
			MinCriticScore:             cfg.MinCriticScore,
			MinCommunityScore:          cfg.MinCommunityScore,
		},
		IncludeSourceInName: cfg.IncludeSourceInName,
		Groups: Groups{
			Tags:               obj.Tags,
			Genres:             obj.Genres,
			Platforms:          obj.Platforms,
			Categories:         obj.Categories,
			Series:             obj.Series,
			Sources:            obj.Sources,
			Features:           obj.Features,
			Years:              obj.Years,
			Ordinals:           obj.Ordinals,
			Playtime:           obj.Playtime,
			PlaytimeMinMinutes: obj.PlaytimeMinMinutes,
			PlaytimeMaxMinutes: obj.PlaytimeMaxMinutes,
			PlaytimeStep:       obj.PlaytimeStep,
		},
	}
}

// ParseOptions overlays a host-supplied option bag on base. Keys use the
// configuration names (min_time_played, excluded_games, objectives.tags...).
// Numeric values that cannot be read as integers fall back to the unlimited
// default for that bound. Inverted playtime bounds are swapped. Unknown keys
// are ignored.
func ParseOptions(base Options, bag map[string]any) Options {
	opts := base
	opts.Criteria.ExcludedGames = cloneSet(base.Criteria.ExcludedGames)
	opts.Criteria.ExcludedCompletionStatuses = cloneSet(base.Criteria.ExcludedCompletionStatuses)

	if v, ok := bag["json_path"].(string); ok {
		opts.Path = strings.TrimSpace(v)
	}

	c := &opts.Criteria
	numeric := []struct {
		key       string
		dst       *int
		unlimited int
	}{
		{"min_time_played", &c.MinTimePlayed, 0},
		{"max_time_played", &c.MaxTimePlayed, NoMaxTimePlayed},
		{"min_release_year", &c.MinReleaseYear, NoMinReleaseYear},
		{"max_release_year", &c.MaxReleaseYear, NoMaxReleaseYear},
		{"min_user_score", &c.MinUserScore, 0},
		{"min_critic_score", &c.MinCriticScore, 0},
		{"min_community_score", &c.MinCommunityScore, 0},
	}
	for _, f := range numeric {
		raw, present := bag[f.key]
		if !present {
			continue
		}
		*f.dst = intOr(raw, f.unlimited)
	}

	if raw, ok := bag["excluded_games"]; ok {
		c.ExcludedGames = SetOf(stringList(raw)...)
	}
	if raw, ok := bag["excluded_completion_statuses"]; ok {
		c.ExcludedCompletionStatuses = SetOf(stringList(raw)...)
	}
	if raw, ok := bag["include_source_in_name"]; ok {
		opts.IncludeSourceInName = toBool(raw)
	}

	groups, _ := bag["objectives"].(map[string]any)
	g := &opts.Groups
	toggles := map[string]*bool{
		"tags":       &g.Tags,
		"genres":     &g.Genres,
		"platforms":  &g.Platforms,
		"categories": &g.Categories,
		"series":     &g.Series,
		"sources":    &g.Sources,
		"features":   &g.Features,
		"years":      &g.Years,
		"ordinals":   &g.Ordinals,
		"playtime":   &g.Playtime,
	}
	for key, dst := range toggles {
		if raw, ok := groups[key]; ok {
			*dst = toBool(raw)
		}
	}
	for key, dst := range map[string]*int{
		"playtime_min_minutes": &g.PlaytimeMinMinutes,
		"playtime_max_minutes": &g.PlaytimeMaxMinutes,
		"playtime_step":        &g.PlaytimeStep,
	} {
		if n, ok := toInt(groups[key]); ok && n > 0 {
			*dst = n
		}
	}
	if g.PlaytimeMinMinutes > g.PlaytimeMaxMinutes {
		g.PlaytimeMinMinutes, g.PlaytimeMaxMinutes = g.PlaytimeMaxMinutes, g.PlaytimeMinMinutes
	}
	return opts
}

// stringList accepts a JSON list or a comma-separated string.
func stringList(raw any) []string {
	switch v := raw.(type) {
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case []string:
		return v
	default:
		return nil
	}
}

func cloneSet(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}
