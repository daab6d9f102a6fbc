// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/keepfeed/internal/config"
	"github.com/tomtom215/keepfeed/internal/library"
	"github.com/tomtom215/keepfeed/internal/logging"
	"github.com/tomtom215/keepfeed/internal/wikipedia"
)

// components is the object graph shared by serve and the inspection
// commands. Nothing in it is a package global.
type components struct {
	store     *library.Store
	client    *wikipedia.Client
	snapshots wikipedia.SnapshotStore
	articles  *wikipedia.Articles
	packs     *wikipedia.PackManager
}

func buildComponents(ctx context.Context, cfg *config.Config) (*components, error) {
	c := &components{
		store:  library.NewStore(library.NewLoader(cfg.Library.HTTPTimeout, cfg.Wikipedia.UserAgent)),
		client: wikipedia.NewClient(wikipedia.ClientConfigFrom(&cfg.Wikipedia)),
	}

	snapshots, err := wikipedia.OpenSnapshots(ctx, cfg.Wikipedia.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("open article snapshots: %w", err)
	}
	c.snapshots = snapshots

	c.articles = wikipedia.NewArticles(c.client, wikipedia.ArticlesConfigFrom(&cfg.Wikipedia), snapshots)
	c.packs = wikipedia.NewPackManager(cfg.Wikipedia.PackBaseDir, c.articles)
	return c, nil
}

func (c *components) Close() {
	if c.snapshots == nil {
		return
	}
	if err := c.snapshots.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing article snapshots")
	}
}
