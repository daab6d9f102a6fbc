// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

/*
Package supervisor runs the long-lived parts of keepfeed serve under suture v4.

	RootSupervisor ("keepfeed")
	├── CacheSupervisor ("cache-layer")
	│   ├── ArticleRefresherService (if wikipedia.refresh_interval > 0)
	│   └── LibraryWatcherService   (if library.watch and a local json_path)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff. Supervisor events are logged
through sutureslog into the zerolog logger:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddCacheService(services.NewArticleRefresherService(articles, interval))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	return tree.Serve(ctx)

Cancel the context to shut down; UnstoppedServiceReport lists services that
did not stop within the configured timeout.
*/
package supervisor
