// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package wikipedia

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/keepfeed/internal/cache"
	"github.com/tomtom215/keepfeed/internal/config"
	"github.com/tomtom215/keepfeed/internal/logging"
	"github.com/tomtom215/keepfeed/internal/metrics"
)

// Kind names one of the live article lists.
type Kind string

const (
	KindTrending Kind = "trending"
	KindFeatured Kind = "featured"
	KindPopular  Kind = "popular"
)

// Kinds lists every article kind in refresh order.
var Kinds = []Kind{KindTrending, KindFeatured, KindPopular}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Fetcher fetches live article lists. *Client implements it.
type Fetcher interface {
	Trending(ctx context.Context, limit int) ([]string, error)
	Featured(ctx context.Context, limit int) ([]string, error)
	Popular(ctx context.Context, limit int) ([]string, error)
}

// ArticlesConfig sets TTLs and limits for the three lists.
type ArticlesConfig struct {
	TrendingTTL   time.Duration
	FeaturedTTL   time.Duration
	PopularTTL    time.Duration
	TrendingLimit int
	FeaturedLimit int
	PopularLimit  int

	// Now overrides time.Now in the cache slots.
	Now func() time.Time
}

// ArticlesConfigFrom maps the wikipedia configuration section.
func ArticlesConfigFrom(cfg *config.WikipediaConfig) ArticlesConfig {
	return ArticlesConfig{
		TrendingTTL:   cfg.TrendingTTL,
		FeaturedTTL:   cfg.FeaturedTTL,
		PopularTTL:    cfg.PopularTTL,
		TrendingLimit: cfg.TrendingLimit,
		FeaturedLimit: cfg.FeaturedLimit,
		PopularLimit:  cfg.PopularLimit,
	}
}

// Articles caches the trending, featured and popular lists.
//
// Each list lives in its own cache.Slot. Accessors never return errors:
// a failed or empty refresh serves the previous non-empty list, and with
// nothing cached the result is an empty list.
type Articles struct {
	fetcher   Fetcher
	snapshots SnapshotStore
	logger    zerolog.Logger
	slots     map[Kind]*cache.Slot[[]string]
}

// NewArticles returns caches backed by fetcher. snapshots may be nil.
func NewArticles(fetcher Fetcher, cfg ArticlesConfig, snapshots SnapshotStore) *Articles {
	a := &Articles{
		fetcher:   fetcher,
		snapshots: snapshots,
		logger:    logging.WithComponent("wikipedia-articles"),
		slots:     make(map[Kind]*cache.Slot[[]string], len(Kinds)),
	}
	a.slots[KindTrending] = a.newSlot(KindTrending, cfg.TrendingTTL, cfg.Now, func(ctx context.Context) ([]string, error) {
		return fetcher.Trending(ctx, cfg.TrendingLimit)
	})
	a.slots[KindFeatured] = a.newSlot(KindFeatured, cfg.FeaturedTTL, cfg.Now, func(ctx context.Context) ([]string, error) {
		return fetcher.Featured(ctx, cfg.FeaturedLimit)
	})
	a.slots[KindPopular] = a.newSlot(KindPopular, cfg.PopularTTL, cfg.Now, func(ctx context.Context) ([]string, error) {
		return fetcher.Popular(ctx, cfg.PopularLimit)
	})
	return a
}

func (a *Articles) newSlot(kind Kind, ttl time.Duration, now func() time.Time, fetch cache.FetchFunc[[]string]) *cache.Slot[[]string] {
	name := string(kind)
	var timed cache.FetchFunc[[]string] = func(ctx context.Context) ([]string, error) {
		start := time.Now()
		titles, err := fetch(ctx)
		metrics.RecordArticleFetch(name, time.Since(start), err)
		return titles, err
	}

	opts := []cache.SlotOption[[]string]{
		cache.WithEmpty(func(v []string) bool { return len(v) == 0 }),
		cache.WithOutcomeHook[[]string](func(o cache.Outcome) {
			metrics.ArticleCacheRequests.WithLabelValues(name, string(o)).Inc()
		}),
		cache.WithStaleHook[[]string](func(err error, age time.Duration) {
			a.logger.Warn().Err(err).Str("kind", name).Dur("age", age).Msg("Article refresh failed, serving stale list")
		}),
		cache.WithPublishHook(func(v []string, fetchedAt time.Time) {
			a.logger.Info().Str("kind", name).Int("articles", len(v)).Msg("Article list refreshed")
			a.save(kind, v, fetchedAt)
		}),
	}
	if now != nil {
		opts = append(opts, cache.WithClock[[]string](now))
	}
	return cache.NewSlot(name, ttl, timed, opts...)
}

// Get returns the list for kind.
func (a *Articles) Get(ctx context.Context, kind Kind) []string {
	slot, ok := a.slots[kind]
	if !ok {
		return []string{}
	}
	titles, err := slot.Get(ctx)
	if err != nil {
		a.logger.Warn().Err(err).Str("kind", string(kind)).Msg("No article list available")
		return []string{}
	}
	return titles
}

// Trending returns recently changed articles.
func (a *Articles) Trending(ctx context.Context) []string { return a.Get(ctx, KindTrending) }

// Featured returns featured articles.
func (a *Articles) Featured(ctx context.Context) []string { return a.Get(ctx, KindFeatured) }

// Popular returns yesterday's most viewed articles.
func (a *Articles) Popular(ctx context.Context) []string { return a.Get(ctx, KindPopular) }

// Status describes one cached list.
type Status struct {
	Kind      Kind      `json:"kind"`
	Articles  int       `json:"articles"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`
	TTL       string    `json:"ttl"`
}

// Status reports what each slot holds without refreshing.
func (a *Articles) Status() []Status {
	out := make([]Status, 0, len(Kinds))
	for _, k := range Kinds {
		slot := a.slots[k]
		st := Status{Kind: k, TTL: slot.TTL().String()}
		if v, at, ok := slot.Peek(); ok {
			st.Articles = len(v)
			st.FetchedAt = at
		}
		out = append(out, st)
	}
	return out
}

// Restore seeds every slot from the snapshot store. Missing snapshots are
// skipped; errors are logged.
func (a *Articles) Restore(ctx context.Context) int {
	if a.snapshots == nil {
		return 0
	}
	restored := 0
	for _, k := range Kinds {
		snap, ok, err := a.snapshots.Load(ctx, k)
		if err != nil {
			a.logger.Warn().Err(err).Str("kind", string(k)).Msg("Failed to load article snapshot")
			continue
		}
		if !ok || len(snap.Articles) == 0 {
			continue
		}
		a.slots[k].Seed(snap.Articles, snap.FetchedAt)
		restored++
		a.logger.Info().Str("kind", string(k)).Int("articles", len(snap.Articles)).Time("fetched_at", snap.FetchedAt).Msg("Article list restored from snapshot")
	}
	return restored
}

func (a *Articles) save(kind Kind, titles []string, fetchedAt time.Time) {
	if a.snapshots == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.snapshots.Save(ctx, kind, Snapshot{Articles: titles, FetchedAt: fetchedAt}); err != nil {
		a.logger.Warn().Err(err).Str("kind", string(kind)).Msg("Failed to save article snapshot")
	}
}
