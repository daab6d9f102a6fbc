// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/keepfeed/internal/logging"
	"github.com/tomtom215/keepfeed/internal/wikipedia"
)

// ArticleCache is the part of *wikipedia.Articles the refresher drives.
type ArticleCache interface {
	Restore(ctx context.Context) int
	Get(ctx context.Context, kind wikipedia.Kind) []string
}

// ArticleRefresherService keeps the live article lists warm so session
// requests rarely wait on Wikipedia.
//
// On first start it seeds the lists from the snapshot store. Every tick it
// reads each list; a read past the list's TTL triggers the refresh, a read
// inside it is free.
type ArticleRefresherService struct {
	articles ArticleCache
	interval time.Duration
	logger   zerolog.Logger
	restored atomic.Bool
	ticks    atomic.Int64
}

// NewArticleRefresherService creates the refresher. A non-positive interval
// means one minute.
func NewArticleRefresherService(articles ArticleCache, interval time.Duration) *ArticleRefresherService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ArticleRefresherService{
		articles: articles,
		interval: interval,
		logger:   logging.WithComponent("article-refresher"),
	}
}

// Serve implements suture.Service.
func (s *ArticleRefresherService) Serve(ctx context.Context) error {
	// A restart must not roll fresher lists back to the snapshot.
	if s.restored.CompareAndSwap(false, true) {
		if n := s.articles.Restore(ctx); n > 0 {
			s.logger.Info().Int("lists", n).Msg("Restored article lists from snapshots")
		}
	}

	s.warm(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.warm(ctx)
		}
	}
}

func (s *ArticleRefresherService) warm(ctx context.Context) {
	s.ticks.Add(1)
	start := time.Now()
	counts := make([]int, len(wikipedia.Kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range wikipedia.Kinds {
		g.Go(func() error {
			counts[i] = len(s.articles.Get(gctx, kind))
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		return
	}
	ev := s.logger.Debug().Dur("elapsed", time.Since(start))
	for i, kind := range wikipedia.Kinds {
		ev = ev.Int(string(kind), counts[i])
	}
	ev.Msg("Article lists checked")
}

// Ticks reports how many warm passes have run.
func (s *ArticleRefresherService) Ticks() int64 {
	return s.ticks.Load()
}

// String implements fmt.Stringer.
func (s *ArticleRefresherService) String() string {
	return "article-refresher"
}
