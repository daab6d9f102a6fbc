// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires the handlers to a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for handler.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogging())
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // must be global to answer OPTIONS preflight

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		// Template and article lists run to hundreds of titles.
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Get("/health", router.handler.Health)

		r.Route("/library/sessions", func(r chi.Router) {
			r.Post("/", router.handler.CreateLibrarySession)
			r.Get("/{id}/templates", router.handler.LibraryTemplates)
			r.Get("/{id}/resolve/{token}", router.handler.LibraryResolve)
			r.Get("/{id}/facets", router.handler.LibraryFacets)
		})

		r.Route("/wikipedia", func(r chi.Router) {
			r.Post("/sessions", router.handler.CreateWikipediaSession)
			r.Get("/sessions/{id}/templates", router.handler.WikipediaTemplates)
			r.Get("/sessions/{id}/resolve/{token}", router.handler.WikipediaResolve)
			r.Get("/articles/{kind}", router.handler.WikipediaArticles)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, time.Now(), http.StatusNotFound, ErrCodeNotFound, "route not found", nil)
	})
	return r
}
