// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

/*
Package wikipedia implements the Wikipedia Game objective provider.

It has three layers:

  - Client talks to the MediaWiki action API and the Wikimedia pageviews
    REST API. Calls are paced by a token bucket and guarded by a circuit
    breaker whose state is exported to Prometheus.
  - Articles keeps the trending, featured and popular lists in TTL slots.
    A failed or empty refresh serves the previous list when one exists, so
    template code never sees an error. Lists can be persisted to Badger or
    Redis and restored at startup.
  - PackManager owns the pack directory: it writes the embedded default
    packs, optionally writes the live lists as packs, and builds the
    deduplicated master article list.

Game ties them together behind the objective.Provider contract.

Pack directory layout:

	<base>/wikipedia_game_packs/[<subfolder>/]<pack>.txt

Each pack holds one article title per line. Blank lines and lines starting
with "##" are ignored.
*/
package wikipedia
