// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package main

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/keepfeed/internal/wikipedia"
)

type articlesOutput struct {
	Kind     wikipedia.Kind   `json:"kind"`
	Count    int              `json:"count"`
	Articles []string         `json:"articles"`
	Status   wikipedia.Status `json:"status"`
}

func newArticlesCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:       "articles trending|featured|popular",
		Short:     "Print a live Wikipedia article list",
		Long:      "Print a live article list. A snapshot inside its TTL is served without calling Wikipedia.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(wikipedia.KindTrending), string(wikipedia.KindFeatured), string(wikipedia.KindPopular)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := wikipedia.ParseKind(args[0])
			if err != nil {
				return err
			}

			cfg := *a.cfg
			if limit > 0 {
				switch kind {
				case wikipedia.KindTrending:
					cfg.Wikipedia.TrendingLimit = limit
				case wikipedia.KindFeatured:
					cfg.Wikipedia.FeaturedLimit = limit
				case wikipedia.KindPopular:
					cfg.Wikipedia.PopularLimit = limit
				}
			}

			ctx, cancel := commandContext(cmd, cfg.Wikipedia.HTTPTimeout)
			defer cancel()

			comps, err := buildComponents(ctx, &cfg)
			if err != nil {
				return err
			}
			defer comps.Close()
			comps.articles.Restore(ctx)

			titles := comps.articles.Get(ctx, kind)
			out := articlesOutput{Kind: kind, Count: len(titles), Articles: titles}
			for _, st := range comps.articles.Status() {
				if st.Kind == kind {
					out.Status = st
				}
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum titles to fetch (default from config)")
	return cmd
}
