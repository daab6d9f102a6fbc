// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package wikipedia

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/tomtom215/keepfeed/internal/config"
	"github.com/tomtom215/keepfeed/internal/objective"
)

func labels(templates []objective.Template) []string {
	out := make([]string, len(templates))
	for i, tpl := range templates {
		out[i] = tpl.Label
	}
	return out
}

func TestGameTemplates(t *testing.T) {
	t.Parallel()

	src := &staticSource{lists: map[Kind][]string{
		KindTrending: {"Trend"},
		KindFeatured: {"Feat"},
	}}
	opts := DefaultOptions()
	g := NewGame(NewPackManager(t.TempDir(), src), src, opts)
	ctx := context.Background()

	got := labels(g.Templates(ctx))
	for _, want := range []string{
		"Navigate from ARTICLE to ARTICLE",
		"Navigate from ARTICLE to ARTICLE in at most CLICKS clicks",
		"Reach the trending article TRENDING starting from ARTICLE",
		"Reach the featured article FEATURED from ARTICLE",
	} {
		if !slices.Contains(got, want) {
			t.Errorf("Templates() missing %q (got %v)", want, got)
		}
	}
	if slices.Contains(got, "Reach the popular article POPULAR from ARTICLE") {
		t.Error("popular template offered without popular articles")
	}

	rng := rand.New(rand.NewPCG(3, 4))
	for _, tpl := range g.Templates(ctx) {
		if err := tpl.Check(); err != nil {
			t.Errorf("Check() = %v", err)
		}
		rendered, err := objective.Render(ctx, tpl, g, rng)
		if err != nil {
			t.Errorf("Render(%q) error = %v", tpl.Label, err)
			continue
		}
		for _, tok := range []string{TokenArticle, TokenClicks, TokenTrending, TokenFeatured} {
			if strings.Contains(rendered, tok) {
				t.Errorf("Render(%q) = %q still contains %s", tpl.Label, rendered, tok)
			}
		}
	}
}

func TestGameGroupsCanBeDisabled(t *testing.T) {
	t.Parallel()

	src := &staticSource{lists: map[Kind][]string{
		KindTrending: {"Trend"},
		KindFeatured: {"Feat"},
		KindPopular:  {"Pop"},
	}}
	opts := DefaultOptions()
	opts.TrendingObjectives = false
	opts.FeaturedObjectives = false
	opts.PopularObjectives = false
	opts.ClickObjectives = false
	g := NewGame(NewPackManager(t.TempDir(), src), src, opts)

	got := labels(g.Templates(context.Background()))
	if !slices.Equal(got, []string{"Navigate from ARTICLE to ARTICLE"}) {
		t.Errorf("Templates() = %v", got)
	}
	if n := src.calls.Load(); n != 0 {
		t.Errorf("disabled groups queried live lists %d times", n)
	}
}

func TestGameFallbackWithoutArticles(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	m := NewPackManager(base, nil)
	dir := m.PackDir("")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	// A pack of only comments counts as an existing pack, so no defaults
	// are generated and the master list stays empty.
	writeFile(t, filepath.Join(dir, "empty.txt"), "## nothing here\n")

	g := NewGame(m, nil, DefaultOptions())
	got := g.Templates(context.Background())
	if len(got) != 1 || got[0].Label != FallbackLabel || len(got[0].Variables) != 0 {
		t.Errorf("Templates() = %v, want only the fallback", labels(got))
	}
	if live := g.Trending(context.Background()); live == nil || len(live) != 0 {
		t.Errorf("Trending() without a source = %#v, want empty", live)
	}
}

func TestGamePreparesPackDirectoryOnce(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	src := &staticSource{lists: map[Kind][]string{KindTrending: {"Fresh Article"}}}
	opts := DefaultOptions()
	opts.Subfolder = "keep"
	opts.RefreshTrending = true
	opts.TrendingObjectives = false
	opts.FeaturedObjectives = false
	opts.PopularObjectives = false
	g := NewGame(NewPackManager(base, src), src, opts)
	ctx := context.Background()

	dir := g.Dir(ctx)
	if dir != filepath.Join(base, PackDirName, "keep") {
		t.Errorf("Dir() = %q", dir)
	}
	articles := g.Articles(ctx)
	if !slices.Contains(articles, "Fresh Article") {
		t.Error("Articles() missing refreshed trending title")
	}
	_ = g.Templates(ctx)
	_ = g.Dir(ctx)
	if n := src.calls.Load(); n != 1 {
		t.Errorf("source calls = %d, want 1", n)
	}
}

func TestGameResolve(t *testing.T) {
	t.Parallel()

	src := &staticSource{lists: map[Kind][]string{KindPopular: {"Pop"}}}
	opts := DefaultOptions()
	opts.MinClicks, opts.MaxClicks = 2, 4
	g := NewGame(NewPackManager(t.TempDir(), src), src, opts)
	ctx := context.Background()

	clicks, err := g.Resolve(ctx, TokenClicks)
	if err != nil || !slices.Equal(clicks, []string{"2", "3", "4"}) {
		t.Errorf("Resolve(CLICKS) = %v, %v", clicks, err)
	}
	pop, err := g.Resolve(ctx, TokenPopular)
	if err != nil || !slices.Equal(pop, []string{"Pop"}) {
		t.Errorf("Resolve(POPULAR) = %v, %v", pop, err)
	}
	articles, err := g.Resolve(ctx, TokenArticle)
	if err != nil || len(articles) < 2 {
		t.Errorf("Resolve(ARTICLE) = %d titles, %v", len(articles), err)
	}
	if _, err := g.Resolve(ctx, "GAME"); !errors.Is(err, objective.ErrUnknownToken) {
		t.Errorf("Resolve(GAME) error = %v, want ErrUnknownToken", err)
	}
}

func TestGameConstraintTemplates(t *testing.T) {
	t.Parallel()

	g := NewGame(NewPackManager(t.TempDir(), nil), nil, DefaultOptions())
	got := labels(g.ConstraintTemplates(context.Background()))
	for _, want := range []string{"Do not use the back button", "Do not use the search bar after the first click"} {
		if !slices.Contains(got, want) {
			t.Errorf("ConstraintTemplates() missing %q", want)
		}
	}
}

func TestParseOptions(t *testing.T) {
	t.Parallel()

	base := DefaultOptions()
	opts := ParseOptions(base, map[string]any{
		"pack_subfolder":      "run",
		"refresh_popular":     true,
		"trending_objectives": false,
		"click_objectives":    "yes",
		"min_clicks":          12.0,
		"max_clicks":          "5",
	})

	if opts.Subfolder != "run" || !opts.RefreshPopular || opts.TrendingObjectives {
		t.Errorf("ParseOptions() = %+v", opts)
	}
	if !opts.ClickObjectives {
		t.Error("non-bool click_objectives should be ignored")
	}
	if opts.MinClicks != 5 || opts.MaxClicks != 12 {
		t.Errorf("clicks = %d..%d, want 5..12", opts.MinClicks, opts.MaxClicks)
	}

	same := ParseOptions(base, map[string]any{"min_clicks": -3, "max_clicks": "many"})
	if same.MinClicks != base.MinClicks || same.MaxClicks != base.MaxClicks {
		t.Errorf("invalid clicks changed the range to %d..%d", same.MinClicks, same.MaxClicks)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	opts := OptionsFromConfig(&config.WikipediaConfig{
		PackSubfolder:   "sub",
		RefreshFeatured: true,
		ClickObjectives: true,
		MinClicks:       1,
		MaxClicks:       6,
	})
	if opts.Subfolder != "sub" || !opts.RefreshFeatured || opts.TrendingObjectives || opts.MaxClicks != 6 {
		t.Errorf("OptionsFromConfig() = %+v", opts)
	}
	eo := opts.ensureOptions()
	if eo.Subfolder != "sub" || !eo.RefreshFeatured || eo.RefreshTrending {
		t.Errorf("ensureOptions() = %+v", eo)
	}
}
