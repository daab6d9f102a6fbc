// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/keepfeed/internal/cache"
	"github.com/tomtom215/keepfeed/internal/library"
	"github.com/tomtom215/keepfeed/internal/metrics"
	"github.com/tomtom215/keepfeed/internal/wikipedia"
)

// maxBodySize caps option bag bodies.
const maxBodySize = 1 << 20

// Dependencies are the services the handlers serve from.
type Dependencies struct {
	Library     *library.Store
	LibraryBase library.Options

	Packs         *wikipedia.PackManager
	Articles      *wikipedia.Articles
	WikipediaBase wikipedia.Options

	// BreakerState reports the Wikipedia client breaker. Optional.
	BreakerState func() string

	SessionTTL time.Duration
}

// Handler serves the host bridge endpoints.
type Handler struct {
	deps      Dependencies
	startTime time.Time

	librarySessions   *cache.TTL[*library.Game]
	wikipediaSessions *cache.TTL[*wikipedia.Game]
}

// NewHandler creates a handler. Close releases the session caches.
func NewHandler(deps Dependencies) *Handler {
	ttl := deps.SessionTTL
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	sweep := min(ttl, 5*time.Minute)
	return &Handler{
		deps:              deps,
		startTime:         time.Now(),
		librarySessions:   cache.NewTTL[*library.Game](ttl, sweep),
		wikipediaSessions: cache.NewTTL[*wikipedia.Game](ttl, sweep),
	}
}

// Close stops the session sweepers.
func (h *Handler) Close() {
	h.librarySessions.Close()
	h.wikipediaSessions.Close()
}

func (h *Handler) recordSessions() {
	metrics.ActiveSessions.WithLabelValues("library").Set(float64(h.librarySessions.Len()))
	metrics.ActiveSessions.WithLabelValues("wikipedia").Set(float64(h.wikipediaSessions.Len()))
}

// decodeOptionBag reads a JSON object body. An empty body is an empty bag.
func decodeOptionBag(r *http.Request) (map[string]any, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadBody, err)
	}
	if len(data) > maxBodySize {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrBadBody, maxBodySize)
	}
	bag := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return bag, nil
	}
	if err := json.Unmarshal(data, &bag); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadBody, err)
	}
	if bag == nil {
		bag = map[string]any{}
	}
	return bag, nil
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status   string              `json:"status"`
	Uptime   string              `json:"uptime"`
	Sessions map[string]int      `json:"sessions"`
	Articles []wikipedia.Status  `json:"articles,omitempty"`
	Breaker  string              `json:"breaker,omitempty"`
	Library  map[string][]string `json:"library,omitempty"`
}

// Health reports liveness plus cache and session state.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	h.recordSessions()

	resp := HealthResponse{
		Status: "ok",
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
		Sessions: map[string]int{
			"library":   h.librarySessions.Len(),
			"wikipedia": h.wikipediaSessions.Len(),
		},
	}
	if h.deps.Articles != nil {
		resp.Articles = h.deps.Articles.Status()
	}
	if h.deps.BreakerState != nil {
		resp.Breaker = h.deps.BreakerState()
	}
	if h.deps.Library != nil {
		if paths := h.deps.Library.Paths(); len(paths) > 0 {
			resp.Library = map[string][]string{"loaded": paths}
		}
	}
	respondSuccess(w, r, start, http.StatusOK, resp)
}

// respondResolveError maps a Resolve failure to 404 for unknown tokens.
func respondResolveError(w http.ResponseWriter, r *http.Request, start time.Time, token string, err error) {
	if errors.Is(err, errUnknownToken) {
		respondError(w, r, start, http.StatusNotFound, ErrCodeNotFound, "unknown token: "+token, err)
		return
	}
	respondError(w, r, start, http.StatusInternalServerError, ErrCodeInternalError, "failed to resolve token", err)
}
