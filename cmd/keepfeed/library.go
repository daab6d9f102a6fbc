// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/keepfeed/internal/library"
	"github.com/tomtom215/keepfeed/internal/objective"
)

type libraryTemplatesOutput struct {
	Path        string               `json:"path"`
	Games       int                  `json:"games"`
	LoadError   string               `json:"load_error,omitempty"`
	Templates   []objective.Template `json:"templates"`
	Constraints []objective.Template `json:"constraints"`
}

func newLibraryCmd(a *app) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "library",
		Short: "Inspect the Playnite library provider",
	}
	cmd.PersistentFlags().StringVar(&path, "path", "", "library export file, directory or URL (overrides library.json_path)")

	game := func() *library.Game {
		opts := library.OptionsFromConfig(a.cfg.Library)
		if path != "" {
			opts.Path = path
		}
		store := library.NewStore(library.NewLoader(a.cfg.Library.HTTPTimeout, a.cfg.Wikipedia.UserAgent))
		return library.NewGame(store, opts)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "templates",
			Short: "Print the objective and constraint templates for the filtered library",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ctx, cancel := commandContext(cmd, a.cfg.Library.HTTPTimeout)
				defer cancel()
				g := game()
				out := libraryTemplatesOutput{
					Path:        g.Options().Path,
					Templates:   g.Templates(ctx),
					Constraints: g.ConstraintTemplates(ctx),
					Games:       g.Count(ctx),
				}
				if err := g.Err(ctx); err != nil {
					out.LoadError = err.Error()
				}
				return printJSON(cmd.OutOrStdout(), out)
			},
		},
		&cobra.Command{
			Use:   "facets",
			Short: "Print the sorted facet values of the filtered library",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ctx, cancel := commandContext(cmd, a.cfg.Library.HTTPTimeout)
				defer cancel()
				return printJSON(cmd.OutOrStdout(), game().Facets(ctx))
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Print counts over the whole unfiltered library",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ctx, cancel := commandContext(cmd, a.cfg.Library.HTTPTimeout)
				defer cancel()
				g := game()
				if err := g.Err(ctx); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), g.Stats(ctx))
			},
		},
	)
	return cmd
}

// commandContext bounds one inspection command. A zero timeout means 30s.
func commandContext(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	// Loads and fetches may chain a few requests.
	return context.WithTimeout(parent, 2*timeout)
}
