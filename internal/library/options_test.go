// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package library

import (
	"testing"

	"github.com/tomtom215/keepfeed/internal/config"
	"github.com/tomtom215/keepfeed/internal/validation"
)

func TestParseOptionsMalformedNumbersAreUnlimited(t *testing.T) {
	t.Parallel()

	base := DefaultOptions()
	base.Criteria.MinTimePlayed = 30
	base.Criteria.MaxTimePlayed = 600
	base.Criteria.MinUserScore = 50

	opts := ParseOptions(base, map[string]any{
		"min_time_played":  "lots",
		"max_time_played":  []any{1},
		"max_release_year": nil,
		"min_user_score":   map[string]any{},
		"min_critic_score": "75",
	})

	c := opts.Criteria
	if c.MinTimePlayed != 0 {
		t.Errorf("MinTimePlayed = %d, want 0", c.MinTimePlayed)
	}
	if c.MaxTimePlayed != NoMaxTimePlayed {
		t.Errorf("MaxTimePlayed = %d, want %d", c.MaxTimePlayed, NoMaxTimePlayed)
	}
	if c.MaxReleaseYear != NoMaxReleaseYear {
		t.Errorf("MaxReleaseYear = %d, want %d", c.MaxReleaseYear, NoMaxReleaseYear)
	}
	if c.MinUserScore != 0 {
		t.Errorf("MinUserScore = %d, want 0", c.MinUserScore)
	}
	if c.MinCriticScore != 75 {
		t.Errorf("MinCriticScore = %d, want 75", c.MinCriticScore)
	}
}

func TestParseOptionsOverlay(t *testing.T) {
	t.Parallel()

	base := DefaultOptions()
	base.Path = "/data/games.json"
	base.Criteria.ExcludedGames = SetOf("Keep")

	opts := ParseOptions(base, map[string]any{
		"json_path":                    " https://example.com/lib.json ",
		"excluded_games":               "Doom, Quake ,",
		"excluded_completion_statuses": []any{"Beaten", "Abandoned"},
		"include_source_in_name":       false,
		"objectives": map[string]any{
			"features":      true,
			"tags":          "false",
			"playtime_step": 30.0,
		},
	})

	if opts.Path != "https://example.com/lib.json" {
		t.Errorf("Path = %q", opts.Path)
	}
	if len(opts.Criteria.ExcludedGames) != 2 || !inSet(opts.Criteria.ExcludedGames, "Quake") {
		t.Errorf("ExcludedGames = %v", opts.Criteria.ExcludedGames)
	}
	if !inSet(opts.Criteria.ExcludedCompletionStatuses, "Abandoned") {
		t.Errorf("ExcludedCompletionStatuses = %v", opts.Criteria.ExcludedCompletionStatuses)
	}
	if opts.IncludeSourceInName {
		t.Error("IncludeSourceInName = true, want false")
	}
	if !opts.Groups.Features || opts.Groups.Tags {
		t.Errorf("Groups = %+v", opts.Groups)
	}
	if opts.Groups.PlaytimeStep != 30 {
		t.Errorf("PlaytimeStep = %d, want 30", opts.Groups.PlaytimeStep)
	}

	// The base must not see the overlay's sets.
	if !inSet(base.Criteria.ExcludedGames, "Keep") || len(base.Criteria.ExcludedGames) != 1 {
		t.Errorf("base ExcludedGames mutated: %v", base.Criteria.ExcludedGames)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.LibraryConfig{
		JSONPath:                   "/lib",
		MinTimePlayed:              10,
		MaxTimePlayed:              -1,
		ExcludedGames:              []string{"A", ""},
		ExcludedCompletionStatuses: []string{"Beaten"},
		MaxReleaseYear:             9999,
		MinCommunityScore:          60,
		IncludeSourceInName:        true,
		Objectives: config.LibraryObjectivesConfig{
			Genres:             true,
			PlaytimeMinMinutes: 5,
			PlaytimeMaxMinutes: 10,
			PlaytimeStep:       5,
		},
	}

	opts := OptionsFromConfig(cfg)
	if opts.Path != "/lib" || opts.Criteria.MinTimePlayed != 10 || opts.Criteria.MinCommunityScore != 60 {
		t.Errorf("OptionsFromConfig() = %+v", opts)
	}
	if len(opts.Criteria.ExcludedGames) != 1 {
		t.Errorf("ExcludedGames = %v, want only A", opts.Criteria.ExcludedGames)
	}
	if !opts.Groups.Genres || opts.Groups.Tags || opts.Groups.PlaytimeMaxMinutes != 10 {
		t.Errorf("Groups = %+v", opts.Groups)
	}
}

func TestParseOptionsPlaytimeRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bag      map[string]any
		min, max int
	}{
		{"inverted bounds are swapped", map[string]any{"playtime_min_minutes": 90, "playtime_max_minutes": 30}, 30, 90},
		{"min above default max", map[string]any{"playtime_min_minutes": 200}, 120, 200},
		{"ordered bounds kept", map[string]any{"playtime_min_minutes": "10", "playtime_max_minutes": "20"}, 10, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opts := ParseOptions(DefaultOptions(), map[string]any{"objectives": tt.bag})
			g := opts.Groups
			if g.PlaytimeMinMinutes != tt.min || g.PlaytimeMaxMinutes != tt.max {
				t.Errorf("playtime = [%d, %d], want [%d, %d]", g.PlaytimeMinMinutes, g.PlaytimeMaxMinutes, tt.min, tt.max)
			}
			if err := validation.ValidateStruct(opts); err != nil {
				t.Errorf("ValidateStruct() = %v", err)
			}
		})
	}

	inverted := DefaultOptions()
	inverted.Groups.PlaytimeMinMinutes, inverted.Groups.PlaytimeMaxMinutes = 90, 30
	if err := validation.ValidateStruct(inverted); err == nil {
		t.Error("ValidateStruct() accepted an inverted playtime range")
	}
}
