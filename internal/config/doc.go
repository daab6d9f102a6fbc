// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

// Package config loads keepfeed configuration with koanf.
//
// Sources are layered, later ones winning:
//
//  1. defaults from defaultConfig()
//  2. a YAML file (CONFIG_PATH, then keepfeed.yaml, keepfeed.yml, /etc/keepfeed/config.yaml)
//  3. environment variables listed in envMappings
//
// Example keepfeed.yaml:
//
//	library:
//	  json_path: /srv/playnite/export
//	  min_time_played: 30
//	  excluded_completion_statuses: [Abandoned]
//	wikipedia:
//	  pack_base_dir: /var/lib/keepfeed
//	  refresh_trending: true
//	  snapshot:
//	    path: /var/lib/keepfeed/snapshots
//	server:
//	  port: 8089
//
// The loaded Config is validated once; consumers never re-check fields.
package config
