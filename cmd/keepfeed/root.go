// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/keepfeed/internal/config"
	"github.com/tomtom215/keepfeed/internal/logging"
)

// app carries state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "keepfeed",
		Short:         "Objective data providers for Keymaster's Keep",
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file (default: CONFIG_PATH or ./keepfeed.yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "override logging.level")
	flags.StringVar(&a.logFormat, "log-format", "", "override logging.format (json|console)")

	root.AddCommand(
		newServeCmd(a),
		newLibraryCmd(a),
		newPacksCmd(a),
		newArticlesCmd(a),
		newTemplatesCmd(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFrom(a.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
		Output: cmd.ErrOrStderr(),
	})

	a.cfg = cfg
	return nil
}
