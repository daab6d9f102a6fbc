// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package library

import (
	"context"
	"errors"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tomtom215/keepfeed/internal/logging"
	"github.com/tomtom215/keepfeed/internal/objective"
)

// FallbackLabel is the only template offered when no games are available.
const FallbackLabel = "Play a random game from your library"

// Tokens served by Game.Resolve.
const (
	TokenGame     = "GAME"
	TokenTag      = "TAG"
	TokenGenre    = "GENRE"
	TokenPlatform = "PLATFORM"
	TokenCategory = "CATEGORY"
	TokenSeries   = "SERIES"
	TokenSource   = "SOURCE"
	TokenFeature  = "FEATURE"
	TokenYear     = "YEAR"
	TokenNth      = "NTH"
	TokenNextNth  = "NEXT_NTH"
	TokenMinutes  = "MINUTES"
)

// diagnosticEnvPrefixes are environment variables echoed in the filter log.
// They never affect filtering.
var diagnosticEnvPrefixes = []string{"PLAYNITE_LIBRARY_MIN_", "PLAYNITE_LIBRARY_MAX_"}

// Game is the Playnite library objective provider.
//
// The filtered view is computed on first use and cached on the instance. A
// failed load is cached as an empty library; a canceled context is not.
type Game struct {
	store   *Store
	opts    Options
	logger  zerolog.Logger
	catalog *objective.Catalog

	mu     sync.Mutex
	ready  atomic.Bool
	result Result
	stats  Stats
	err    error
}

var _ objective.Provider = (*Game)(nil)

// NewGame returns a provider over store configured by opts.
func NewGame(store *Store, opts Options) *Game {
	g := &Game{
		store:  store,
		opts:   opts,
		logger: logging.WithComponent("library"),
	}
	g.catalog = objective.NewCatalog().
		Bind(TokenGame, g.Names).
		Bind(TokenTag, g.Tags).
		Bind(TokenGenre, g.Genres).
		Bind(TokenPlatform, g.Platforms).
		Bind(TokenCategory, g.Categories).
		Bind(TokenSeries, g.Series).
		Bind(TokenSource, g.Sources).
		Bind(TokenFeature, g.Features).
		Bind(TokenYear, objective.Ints(g.ReleaseYearChoices)).
		Bind(TokenNth, g.NthChoices).
		Bind(TokenNextNth, func(context.Context) []string { return g.PlayNextNthChoices() }).
		Bind(TokenMinutes, objective.Range(opts.Groups.PlaytimeMinMinutes, opts.Groups.PlaytimeMaxMinutes, opts.Groups.PlaytimeStep))
	return g
}

// Options returns the provider configuration.
func (g *Game) Options() Options { return g.opts }

func (g *Game) view(ctx context.Context) *Result {
	if g.ready.Load() {
		return &g.result
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ready.Load() {
		return &g.result
	}

	g.logFilterConfig()
	entries, err := g.store.Load(ctx, g.opts.Path)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			empty := Filter(nil, g.opts.Criteria, Naming{})
			return &empty
		}
		g.err = err
		g.logger.Warn().Err(err).Str("path", g.opts.Path).Msg("Library unavailable, serving fallback objectives")
		entries = nil
	}

	g.result = Filter(entries, g.opts.Criteria, Naming{IncludeSource: g.opts.IncludeSourceInName})
	g.stats = ComputeStats(entries)
	g.ready.Store(true)
	g.logger.Debug().
		Int("total", len(entries)).
		Int("kept", len(g.result.Names)).
		Msg("Library filtered")
	return &g.result
}

func (g *Game) logFilterConfig() {
	c := g.opts.Criteria
	event := g.logger.Info().
		Str("path", g.opts.Path).
		Int("min_time_played", c.MinTimePlayed).
		Int("max_time_played", c.MaxTimePlayed).
		Strs("excluded_games", slices.Sorted(maps.Keys(c.ExcludedGames))).
		Strs("excluded_statuses", slices.Sorted(maps.Keys(c.ExcludedCompletionStatuses))).
		Int("min_release_year", c.MinReleaseYear).
		Int("max_release_year", c.MaxReleaseYear).
		Int("min_user_score", c.MinUserScore).
		Int("min_critic_score", c.MinCriticScore).
		Int("min_community_score", c.MinCommunityScore).
		Bool("include_source", g.opts.IncludeSourceInName)

	env := zerolog.Dict()
	found := false
	for _, kv := range os.Environ() {
		key, value, _ := strings.Cut(kv, "=")
		for _, prefix := range diagnosticEnvPrefixes {
			if strings.HasPrefix(key, prefix) {
				env.Str(key, value)
				found = true
			}
		}
	}
	if found {
		event = event.Dict("env", env)
	}
	event.Msg("Library filter configuration")
}

// Err returns the load error behind an empty library, if any.
func (g *Game) Err(ctx context.Context) error {
	g.view(ctx)
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

// Names returns the filtered display names in library order.
func (g *Game) Names(ctx context.Context) []string { return g.view(ctx).Names }

// Entries returns the filtered entries in library order.
func (g *Game) Entries(ctx context.Context) []*Entry { return g.view(ctx).Entries }

// Count returns the number of games that passed the filter.
func (g *Game) Count(ctx context.Context) int { return len(g.view(ctx).Names) }

// Stats summarizes the unfiltered library.
func (g *Game) Stats(ctx context.Context) Stats {
	g.view(ctx)
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}

func (g *Game) Categories(ctx context.Context) []string { return g.view(ctx).Facets.Categories() }
func (g *Game) Series(ctx context.Context) []string     { return g.view(ctx).Facets.Series() }
func (g *Game) Tags(ctx context.Context) []string       { return g.view(ctx).Facets.Tags() }
func (g *Game) Genres(ctx context.Context) []string     { return g.view(ctx).Facets.Genres() }
func (g *Game) Sources(ctx context.Context) []string    { return g.view(ctx).Facets.Sources() }
func (g *Game) Platforms(ctx context.Context) []string  { return g.view(ctx).Facets.Platforms() }
func (g *Game) Features(ctx context.Context) []string   { return g.view(ctx).Facets.Features() }

// ReleaseYearChoices returns the known release years of the filtered games.
func (g *Game) ReleaseYearChoices(ctx context.Context) []int { return g.view(ctx).Facets.Years() }

// NthChoices returns "1st" up to "10th", capped at the filtered library size.
func (g *Game) NthChoices(ctx context.Context) []string {
	return ordinals(1, min(10, g.Count(ctx)))
}

// PlayNextNthChoices returns "2nd".."5th".
func (g *Game) PlayNextNthChoices() []string { return ordinals(2, 5) }

// FacetSummary is every facet of the filtered library.
type FacetSummary struct {
	Categories []string `json:"categories"`
	Series     []string `json:"series"`
	Tags       []string `json:"tags"`
	Genres     []string `json:"genres"`
	Platforms  []string `json:"platforms"`
	Features   []string `json:"features"`
	Sources    []string `json:"sources"`
	Years      []int    `json:"years"`
}

// Facets returns all facet lists at once.
func (g *Game) Facets(ctx context.Context) FacetSummary {
	f := g.view(ctx).Facets
	return FacetSummary{
		Categories: f.Categories(),
		Series:     f.Series(),
		Tags:       f.Tags(),
		Genres:     f.Genres(),
		Platforms:  f.Platforms(),
		Features:   f.Features(),
		Sources:    f.Sources(),
		Years:      f.Years(),
	}
}

// Resolve implements objective.Resolver.
func (g *Game) Resolve(ctx context.Context, token string) ([]string, error) {
	return g.catalog.Resolve(ctx, token)
}

// Templates implements objective.Provider.
func (g *Game) Templates(ctx context.Context) []objective.Template {
	names := g.Names(ctx)
	if len(names) == 0 {
		return []objective.Template{objective.New(FallbackLabel)}
	}

	groups := g.opts.Groups
	minutes, _ := g.Resolve(ctx, TokenMinutes)
	timed := groups.Playtime && len(minutes) > 0

	out := []objective.Template{
		objective.New("Play GAME", TokenGame).Weighted(3),
	}
	if distinct(names) >= 2 {
		out = append(out, objective.New("Play GAME and GAME back to back", TokenGame).Draw(TokenGame, 2))
	}
	if timed {
		out = append(out, objective.New("Play GAME for MINUTES minutes", TokenGame, TokenMinutes).TimeConsuming())
	}

	facet := func(enabled bool, values []string, tpl objective.Template) {
		if enabled && len(values) > 0 {
			out = append(out, tpl)
		}
	}
	facet(groups.Tags, g.Tags(ctx), objective.New("Play a game tagged TAG", TokenTag))
	facet(groups.Genres, g.Genres(ctx), objective.New("Play a GENRE game", TokenGenre))
	facet(groups.Platforms, g.Platforms(ctx), objective.New("Play a game on PLATFORM", TokenPlatform))
	facet(groups.Categories, g.Categories(ctx), objective.New("Play a game from the CATEGORY category", TokenCategory))
	facet(groups.Series, g.Series(ctx), objective.New("Play a game from the SERIES series", TokenSeries))
	facet(groups.Sources, g.Sources(ctx), objective.New("Play a game from your SOURCE library", TokenSource))
	facet(groups.Features, g.Features(ctx), objective.New("Play a game with FEATURE", TokenFeature))

	if groups.Years && len(g.ReleaseYearChoices(ctx)) > 0 {
		out = append(out, objective.New("Play a game released in YEAR", TokenYear))
	}
	if groups.Ordinals {
		out = append(out,
			objective.New("Play the NTH game in your library when sorted by name", TokenNth),
			objective.New("Play GAME, then the game NEXT_NTH after it when sorted by name", TokenGame, TokenNextNth),
		)
	}
	if timed && groups.Tags && len(g.Tags(ctx)) > 0 {
		out = append(out, objective.New("Play a game tagged TAG for MINUTES minutes", TokenTag, TokenMinutes).TimeConsuming())
	}

	return objective.DedupeLabels(out)
}

func distinct(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// ConstraintTemplates implements objective.Provider.
func (g *Game) ConstraintTemplates(ctx context.Context) []objective.Template {
	entries := g.Entries(ctx)
	if len(entries) == 0 {
		return nil
	}

	var favorites, unplayed bool
	for _, e := range entries {
		favorites = favorites || e.Favorite
		unplayed = unplayed || e.PlaytimeMinutes == 0
	}

	var out []objective.Template
	if favorites {
		out = append(out, objective.New("Only play games you have marked as favorites"))
	}
	if unplayed {
		out = append(out, objective.New("Only play games you have never played before"))
	}
	if len(g.Sources(ctx)) > 1 {
		out = append(out, objective.New("Only play games from your SOURCE library", TokenSource))
	}
	if len(g.Platforms(ctx)) > 1 {
		out = append(out, objective.New("Only play games on PLATFORM", TokenPlatform))
	}
	return objective.DedupeLabels(out)
}
