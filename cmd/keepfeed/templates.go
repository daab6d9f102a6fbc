// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/tomtom215/keepfeed/internal/library"
	"github.com/tomtom215/keepfeed/internal/logging"
	"github.com/tomtom215/keepfeed/internal/objective"
	"github.com/tomtom215/keepfeed/internal/wikipedia"
)

var errUnknownProvider = errors.New("unknown provider")

// sampledObjective is one rendered template.
type sampledObjective struct {
	Template      string `json:"template"`
	Objective     string `json:"objective"`
	Constraint    string `json:"constraint,omitempty"`
	Difficult     bool   `json:"difficult"`
	TimeConsuming bool   `json:"time_consuming"`
}

func newTemplatesCmd(a *app) *cobra.Command {
	var (
		providerName string
		count        int
		seed         uint64
		constraints  bool
	)

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Work with rendered objectives",
	}

	sample := &cobra.Command{
		Use:   "sample",
		Short: "Render random objectives the way the host would",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd, a.cfg.Wikipedia.HTTPTimeout)
			defer cancel()

			comps, err := buildComponents(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer comps.Close()

			var p objective.Provider
			switch providerName {
			case "library":
				p = library.NewGame(comps.store, library.OptionsFromConfig(a.cfg.Library))
			case "wikipedia":
				comps.articles.Restore(ctx)
				p = wikipedia.NewGame(comps.packs, comps.articles, wikipedia.OptionsFromConfig(&a.cfg.Wikipedia))
			default:
				return fmt.Errorf("%w: %q (want library or wikipedia)", errUnknownProvider, providerName)
			}

			if seed == 0 {
				seed = rand.Uint64()
			}
			rng := rand.New(rand.NewPCG(seed, seed))
			out := sampleObjectives(ctx, p, count, constraints, rng)
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	sample.Flags().StringVar(&providerName, "provider", "library", "library or wikipedia")
	sample.Flags().IntVar(&count, "count", 5, "objectives to render")
	sample.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 picks one)")
	sample.Flags().BoolVar(&constraints, "constraints", false, "attach a random constraint to each objective")

	cmd.AddCommand(sample)
	return cmd
}

// sampleObjectives draws count templates by weight and renders each.
// Templates that cannot be rendered are logged and redrawn a bounded
// number of times.
func sampleObjectives(ctx context.Context, p objective.Provider, count int, withConstraints bool, rng *rand.Rand) []sampledObjective {
	templates := p.Templates(ctx)
	var cons []objective.Template
	if withConstraints {
		cons = p.ConstraintTemplates(ctx)
	}

	total := 0
	for _, t := range templates {
		total += max(t.Weight, 1)
	}

	out := make([]sampledObjective, 0, count)
	for attempt := 0; len(out) < count && attempt < 4*count && total > 0; attempt++ {
		t := pickWeighted(templates, total, rng)
		rendered, err := objective.Render(ctx, t, p, rng)
		if err != nil {
			logging.Warn().Err(err).Str("template", t.Label).Msg("Template could not be rendered")
			continue
		}
		s := sampledObjective{
			Template:      t.Label,
			Objective:     rendered,
			Difficult:     t.IsDifficult,
			TimeConsuming: t.IsTimeConsuming,
		}
		if len(cons) > 0 {
			c := cons[rng.IntN(len(cons))]
			if r, err := objective.Render(ctx, c, p, rng); err == nil {
				s.Constraint = r
			}
		}
		out = append(out, s)
	}
	return out
}

func pickWeighted(templates []objective.Template, total int, rng *rand.Rand) objective.Template {
	n := rng.IntN(total)
	for _, t := range templates {
		n -= max(t.Weight, 1)
		if n < 0 {
			return t
		}
	}
	return templates[len(templates)-1]
}
