// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

// Command keepfeed serves objective data for Keymaster's Keep games and
// inspects it from the terminal.
//
// # Commands
//
//	keepfeed serve                                     # host bridge, article refresher, library watcher
//	keepfeed library templates|facets|stats [--path]   # Playnite library provider
//	keepfeed packs init|list|master [--subfolder]      # Wikipedia article packs
//	keepfeed articles trending|featured|popular [--limit]
//	keepfeed templates sample --provider library|wikipedia [--count N] [--seed S]
//
// # Configuration
//
// Settings are layered by koanf: built-in defaults, then the YAML file named
// by --config, CONFIG_PATH or ./keepfeed.yaml, then the environment:
//
//	export PLAYNITE_LIBRARY_JSON=/path/to/Playnite/library
//	export KEEPFEED_PACK_DIR=$HOME/.local/share/keepfeed
//	export HTTP_PORT=8089
//	keepfeed serve
//
// Inspection commands print JSON to stdout and log to stderr.
package main

import (
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
