// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/keepfeed/internal/wikipedia"
)

type packListOutput struct {
	Dir   string               `json:"dir"`
	Packs []wikipedia.PackInfo `json:"packs"`
}

type masterOutput struct {
	Dir      string   `json:"dir"`
	Count    int      `json:"count"`
	Articles []string `json:"articles"`
}

func newPacksCmd(a *app) *cobra.Command {
	var (
		subfolder string
		refresh   []string
	)

	cmd := &cobra.Command{
		Use:   "packs",
		Short: "Manage the Wikipedia Game article packs",
	}
	cmd.PersistentFlags().StringVar(&subfolder, "subfolder", "", "pack subfolder (overrides wikipedia.pack_subfolder)")

	dir := func(m *wikipedia.PackManager) string {
		if subfolder != "" {
			return m.PackDir(subfolder)
		}
		return m.PackDir(a.cfg.Wikipedia.PackSubfolder)
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the pack directory, write the default packs and refresh live lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd, a.cfg.Wikipedia.HTTPTimeout)
			defer cancel()

			comps, err := buildComponents(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer comps.Close()
			comps.articles.Restore(ctx)

			opts := wikipedia.OptionsFromConfig(&a.cfg.Wikipedia)
			if subfolder != "" {
				opts.Subfolder = subfolder
			}
			for _, name := range refresh {
				kind, err := wikipedia.ParseKind(name)
				if err != nil {
					return err
				}
				switch kind {
				case wikipedia.KindTrending:
					opts.RefreshTrending = true
				case wikipedia.KindFeatured:
					opts.RefreshFeatured = true
				case wikipedia.KindPopular:
					opts.RefreshPopular = true
				}
			}

			report, err := comps.packs.Ensure(ctx, wikipedia.EnsureOptions{
				Subfolder:       opts.Subfolder,
				RefreshTrending: opts.RefreshTrending,
				RefreshFeatured: opts.RefreshFeatured,
				RefreshPopular:  opts.RefreshPopular,
			})
			if err != nil {
				return fmt.Errorf("prepare %s: %w", report.Dir, err)
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
	initCmd.Flags().StringSliceVar(&refresh, "refresh", nil, "live lists to write as packs: trending, featured, popular")

	cmd.AddCommand(
		initCmd,
		&cobra.Command{
			Use:   "list",
			Short: "List the packs and their title counts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m := wikipedia.NewPackManager(a.cfg.Wikipedia.PackBaseDir, nil)
				d := dir(m)
				packs, err := m.ListPacks(d)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), packListOutput{Dir: d, Packs: packs})
			},
		},
		&cobra.Command{
			Use:   "master",
			Short: "Print the deduplicated master article list",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m := wikipedia.NewPackManager(a.cfg.Wikipedia.PackBaseDir, nil)
				d := dir(m)
				titles, err := m.MasterArticles(d)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), masterOutput{Dir: d, Count: len(titles), Articles: titles})
			},
		},
	)
	return cmd
}
