// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package library

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/keepfeed/internal/logging"
	"github.com/tomtom215/keepfeed/internal/metrics"
)

type memo struct {
	entries []Entry
	origin  string
	stamp   Stamp
	// stamped is false for URLs, which never expire.
	stamped bool
}

// Store memoizes parsed libraries by the literal path string.
//
// Load returns the same slice for the same path until the local file
// changes (mtime or size) or Invalidate is called. Concurrent first loads
// of a path share one read. Returned slices are shared and must not be
// modified.
type Store struct {
	loader Loader
	logger zerolog.Logger

	mu      sync.RWMutex
	entries map[string]*memo
	// loaded records every path that ever loaded, so stats log once per path.
	loaded map[string]struct{}
	group  singleflight.Group
}

// NewStore returns an empty store reading through loader.
func NewStore(loader Loader) *Store {
	return &Store{
		loader:  loader,
		logger:  logging.WithComponent("library-store"),
		entries: make(map[string]*memo),
		loaded:  make(map[string]struct{}),
	}
}

// Load returns the parsed entries for path.
func (s *Store) Load(ctx context.Context, path string) ([]Entry, error) {
	if path == "" {
		return nil, ErrNoPath
	}

	if m, ok := s.lookup(path); ok {
		if !m.stamped {
			metrics.LibraryMemo.WithLabelValues("hit").Inc()
			return m.entries, nil
		}
		if stamp, ok := s.loader.Stat(path); ok && stamp.ModTime.Equal(m.stamp.ModTime) && stamp.Size == m.stamp.Size {
			metrics.LibraryMemo.WithLabelValues("hit").Inc()
			return m.entries, nil
		}
		s.logger.Info().Str("path", path).Msg("Library file changed, reloading")
		metrics.LibraryMemo.WithLabelValues("invalidated").Inc()
		s.drop(path, m)
	} else {
		metrics.LibraryMemo.WithLabelValues("miss").Inc()
	}

	v, err, _ := s.group.Do(path, func() (any, error) {
		// Another caller may have finished the load while we waited.
		if m, ok := s.lookup(path); ok {
			return m.entries, nil
		}
		return s.load(ctx, path)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Entry), nil
}

func (s *Store) load(ctx context.Context, path string) ([]Entry, error) {
	start := time.Now()
	doc, err := s.loader.Read(ctx, path)
	if err != nil {
		origin := OriginFile
		if IsURL(path) {
			origin = OriginURL
		}
		metrics.RecordLibraryLoad(origin, time.Since(start), err)
		return nil, err
	}

	entries, err := Parse(doc.Data)
	metrics.RecordLibraryLoad(doc.Origin, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", doc.Location, err)
	}

	first := s.store(path, &memo{
		entries: entries,
		origin:  doc.Origin,
		stamp:   doc.Stamp,
		stamped: doc.Origin == OriginFile,
	})
	metrics.LibraryGames.WithLabelValues(path).Set(float64(len(entries)))
	if first {
		stats := ComputeStats(entries)
		s.logger.Info().
			Str("path", path).
			Str("origin", doc.Origin).
			Int("games", stats.Games).
			Int("categories", stats.Facets.Categories).
			Int("series", stats.Facets.Series).
			Int("tags", stats.Facets.Tags).
			Int("genres", stats.Facets.Genres).
			Int("platforms", stats.Facets.Platforms).
			Int("features", stats.Facets.Features).
			Int("sources", stats.Facets.Sources).
			Int("years", stats.Facets.Years).
			Dur("elapsed", time.Since(start)).
			Msg("Library loaded")
	}
	return entries, nil
}

// Invalidate drops the memo for path. The next Load reads it again.
func (s *Store) Invalidate(path string) {
	s.mu.Lock()
	_, ok := s.entries[path]
	delete(s.entries, path)
	s.mu.Unlock()
	if ok {
		metrics.LibraryMemo.WithLabelValues("invalidated").Inc()
		s.logger.Debug().Str("path", path).Msg("Library memo invalidated")
	}
}

// Paths returns the memoized paths.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.entries))
	for p := range s.entries {
		out = append(out, p)
	}
	return out
}

func (s *Store) lookup(path string) (*memo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.entries[path]
	return m, ok
}

// drop removes path only if it still maps to old.
func (s *Store) drop(path string, old *memo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries[path] == old {
		delete(s.entries, path)
	}
}

// store records m and reports whether this path was never loaded before.
func (s *Store) store(path string, m *memo) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, seen := s.loaded[path]
	s.entries[path] = m
	s.loaded[path] = struct{}{}
	return !seen
}
