// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

// Package logging provides the process-wide zerolog logger.
//
// Call Init once from main with the values from config.LoggingConfig.
// Until then a JSON logger at info level writes to stderr.
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	logging.Info().Str("path", path).Msg("Library loaded")
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Resolve failed")
//
// Always terminate an event chain with Msg or Send, otherwise nothing is
// written.
//
// SlogHandler adapts the logger for libraries that only speak log/slog,
// such as sutureslog in the supervisor tree.
package logging
