// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package wikipedia

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tomtom215/keepfeed/internal/logging"
	"github.com/tomtom215/keepfeed/internal/objective"
)

// FallbackLabel is the only template offered when no articles are available.
const FallbackLabel = "Play a round of the Wikipedia Game between two random articles"

// Tokens served by Game.Resolve.
const (
	TokenArticle  = "ARTICLE"
	TokenTrending = "TRENDING"
	TokenFeatured = "FEATURED"
	TokenPopular  = "POPULAR"
	TokenClicks   = "CLICKS"
)

// Game is the Wikipedia Game objective provider.
//
// The pack directory is prepared on first use. Live lists are read through
// the article caches at draw time.
type Game struct {
	packs    *PackManager
	articles ArticleSource
	opts     Options
	logger   zerolog.Logger
	catalog  *objective.Catalog

	mu    sync.Mutex
	ready atomic.Bool
	dir   string
}

var _ objective.Provider = (*Game)(nil)

// NewGame returns a provider using packs and articles. articles may be nil.
func NewGame(packs *PackManager, articles ArticleSource, opts Options) *Game {
	g := &Game{
		packs:    packs,
		articles: articles,
		opts:     opts,
		logger:   logging.WithComponent("wikipedia"),
	}
	g.catalog = objective.NewCatalog().
		Bind(TokenArticle, g.Articles).
		Bind(TokenTrending, g.Trending).
		Bind(TokenFeatured, g.Featured).
		Bind(TokenPopular, g.Popular).
		Bind(TokenClicks, objective.Range(opts.MinClicks, opts.MaxClicks, 1))
	return g
}

// Options returns the provider configuration.
func (g *Game) Options() Options { return g.opts }

// Dir prepares the pack directory if needed and returns it.
func (g *Game) Dir(ctx context.Context) string {
	if g.ready.Load() {
		return g.dir
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ready.Load() {
		return g.dir
	}

	report, err := g.packs.Ensure(ctx, g.opts.ensureOptions())
	if err != nil {
		// Not marked ready: the next call retries.
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			g.logger.Warn().Err(err).Str("dir", report.Dir).Msg("Pack directory could not be prepared")
		}
		return report.Dir
	}
	g.dir = report.Dir
	g.ready.Store(true)
	return g.dir
}

// Articles returns the master article list.
func (g *Game) Articles(ctx context.Context) []string {
	dir := g.Dir(ctx)
	titles, err := g.packs.MasterArticles(dir)
	if err != nil {
		g.logger.Warn().Err(err).Str("dir", dir).Msg("Failed to read article packs")
		return []string{}
	}
	return titles
}

func (g *Game) live(ctx context.Context, kind Kind) []string {
	if g.articles == nil {
		return []string{}
	}
	return g.articles.Get(ctx, kind)
}

// Trending returns the cached trending list.
func (g *Game) Trending(ctx context.Context) []string { return g.live(ctx, KindTrending) }

// Featured returns the cached featured list.
func (g *Game) Featured(ctx context.Context) []string { return g.live(ctx, KindFeatured) }

// Popular returns the cached popular list.
func (g *Game) Popular(ctx context.Context) []string { return g.live(ctx, KindPopular) }

// Resolve implements objective.Resolver.
func (g *Game) Resolve(ctx context.Context, token string) ([]string, error) {
	return g.catalog.Resolve(ctx, token)
}

// Templates implements objective.Provider.
func (g *Game) Templates(ctx context.Context) []objective.Template {
	if len(g.Articles(ctx)) < 2 {
		return []objective.Template{objective.New(FallbackLabel)}
	}

	out := []objective.Template{
		objective.New("Navigate from ARTICLE to ARTICLE", TokenArticle).Draw(TokenArticle, 2).Weighted(3),
	}
	if g.opts.ClickObjectives {
		out = append(out, objective.New("Navigate from ARTICLE to ARTICLE in at most CLICKS clicks", TokenArticle, TokenClicks).
			Draw(TokenArticle, 2).Difficult())
	}
	if g.opts.TrendingObjectives && len(g.Trending(ctx)) > 0 {
		out = append(out, objective.New("Reach the trending article TRENDING starting from ARTICLE", TokenTrending, TokenArticle))
	}
	if g.opts.FeaturedObjectives && len(g.Featured(ctx)) > 0 {
		out = append(out, objective.New("Reach the featured article FEATURED from ARTICLE", TokenFeatured, TokenArticle))
	}
	if g.opts.PopularObjectives && len(g.Popular(ctx)) > 0 {
		out = append(out, objective.New("Reach the popular article POPULAR from ARTICLE", TokenPopular, TokenArticle))
	}
	return objective.DedupeLabels(out)
}

// ConstraintTemplates implements objective.Provider.
func (g *Game) ConstraintTemplates(context.Context) []objective.Template {
	return []objective.Template{
		objective.New("Do not use the back button"),
		objective.New("Do not use the search bar after the first click"),
		objective.New("Do not click links inside infoboxes or navigation boxes"),
		objective.New("Do not open links to year or date articles"),
	}
}
