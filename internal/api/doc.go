// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

/*
Package api is the HTTP host bridge for the objective providers.

A host creates a provider session with an option bag, then asks the session
for its objective templates and for the values behind each template token.
Sessions live in a sliding TTL cache keyed by a random UUID.

Routes (all under /api/v1):

	GET  /health
	POST /library/sessions
	GET  /library/sessions/{id}/templates
	GET  /library/sessions/{id}/resolve/{token}
	GET  /library/sessions/{id}/facets
	POST /wikipedia/sessions
	GET  /wikipedia/sessions/{id}/templates
	GET  /wikipedia/sessions/{id}/resolve/{token}
	GET  /wikipedia/articles/{kind}

GET /metrics serves Prometheus metrics outside the versioned prefix.

Every JSON response uses the models-style envelope:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "...", "request_id": "...", "duration_ms": 3}
	}

Errors set status to "error" and fill the error object with a code and a
message. Unknown sessions and tokens are 404; malformed bodies are 400.
*/
package api
