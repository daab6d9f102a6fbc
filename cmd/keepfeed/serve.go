// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/keepfeed/internal/api"
	"github.com/tomtom215/keepfeed/internal/library"
	"github.com/tomtom215/keepfeed/internal/logging"
	"github.com/tomtom215/keepfeed/internal/supervisor"
	"github.com/tomtom215/keepfeed/internal/supervisor/services"
	"github.com/tomtom215/keepfeed/internal/wikipedia"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the host bridge with the article refresher and library watcher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	logging.Info().Str("version", version).Msg("Starting keepfeed with supervisor tree")

	comps, err := buildComponents(ctx, cfg)
	if err != nil {
		return err
	}
	defer comps.Close()

	logging.Info().
		Str("library", cfg.Library.JSONPath).
		Str("pack_dir", comps.packs.PackDir(cfg.Wikipedia.PackSubfolder)).
		Bool("snapshots", comps.snapshots != nil).
		Msg("Configuration loaded")

	handler := api.NewHandler(api.Dependencies{
		Library:       comps.store,
		LibraryBase:   library.OptionsFromConfig(cfg.Library),
		Packs:         comps.packs,
		Articles:      comps.articles,
		WikipediaBase: wikipedia.OptionsFromConfig(&cfg.Wikipedia),
		BreakerState:  comps.client.BreakerState,
		SessionTTL:    cfg.Server.SessionTTL,
	})
	defer handler.Close()

	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Server)))
	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	if cfg.Wikipedia.RefreshInterval > 0 {
		tree.AddCacheService(services.NewArticleRefresherService(comps.articles, cfg.Wikipedia.RefreshInterval))
		logging.Info().Dur("interval", cfg.Wikipedia.RefreshInterval).Msg("Article refresher added to supervisor tree")
	} else {
		// Snapshots still seed the lists when nothing refreshes them.
		comps.articles.Restore(ctx)
	}

	if cfg.Library.Watch {
		watcher := services.NewLibraryWatcherService(comps.store, cfg.Library.JSONPath)
		if watcher.Watching() {
			tree.AddCacheService(watcher)
			logging.Info().Str("path", cfg.Library.JSONPath).Msg("Library watcher added to supervisor tree")
		}
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown requested, waiting for supervisor to finish...")
		treeErr = <-errCh
	case treeErr = <-errCh:
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("keepfeed stopped")
	return nil
}
