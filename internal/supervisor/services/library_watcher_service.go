// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/tomtom215/keepfeed/internal/library"
	"github.com/tomtom215/keepfeed/internal/logging"
)

// Invalidator drops a memoized library. *library.Store satisfies it.
type Invalidator interface {
	Invalidate(path string)
}

// watchTarget maps a file event back to the library path it belongs to.
type watchTarget struct {
	path string // as configured, the memo key
	name string // base name inside the watched directory
}

// LibraryWatcherService invalidates library memos as soon as the export
// changes on disk, so an edit in Playnite shows up on the next session
// instead of waiting for the stamp check.
//
// Directories are watched rather than files: Playnite's exporter replaces
// games.json with a rename, which drops a watch held on the file itself.
type LibraryWatcherService struct {
	store   Invalidator
	targets map[string][]watchTarget // keyed by watched directory
	logger  zerolog.Logger
	events  atomic.Int64
}

// NewLibraryWatcherService watches the local paths among paths. URLs and
// blank entries are skipped. A path naming a directory watches its
// games.json.
func NewLibraryWatcherService(store Invalidator, paths ...string) *LibraryWatcherService {
	targets := make(map[string][]watchTarget)
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" || library.IsURL(p) {
			continue
		}
		dir, name := filepath.Dir(p), filepath.Base(p)
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			dir, name = p, "games.json"
		}
		dir = filepath.Clean(dir)
		targets[dir] = append(targets[dir], watchTarget{path: p, name: name})
	}
	return &LibraryWatcherService{
		store:   store,
		targets: targets,
		logger:  logging.WithComponent("library-watcher"),
	}
}

// Watching reports whether any local path was configured.
func (s *LibraryWatcherService) Watching() bool {
	return len(s.targets) > 0
}

// Serve implements suture.Service.
func (s *LibraryWatcherService) Serve(ctx context.Context) error {
	if !s.Watching() {
		<-ctx.Done()
		return ctx.Err()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for dir := range s.targets {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		s.logger.Info().Str("dir", dir).Msg("Watching library directory")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events closed")
			}
			s.handle(ev)
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors closed")
			}
			s.logger.Warn().Err(err).Msg("Library watcher error")
		}
	}
}

func (s *LibraryWatcherService) handle(ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}
	dir, name := filepath.Clean(filepath.Dir(ev.Name)), filepath.Base(ev.Name)
	for _, t := range s.targets[dir] {
		if t.name != name {
			continue
		}
		s.events.Add(1)
		s.store.Invalidate(t.path)
		s.logger.Debug().Str("path", t.path).Str("op", ev.Op.String()).Msg("Library changed on disk")
	}
}

// Events reports how many invalidations the watcher has issued.
func (s *LibraryWatcherService) Events() int64 {
	return s.events.Load()
}

// String implements fmt.Stringer.
func (s *LibraryWatcherService) String() string {
	return "library-watcher"
}
