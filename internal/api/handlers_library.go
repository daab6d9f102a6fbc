// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/keepfeed/internal/library"
	"github.com/tomtom215/keepfeed/internal/logging"
	"github.com/tomtom215/keepfeed/internal/objective"
	"github.com/tomtom215/keepfeed/internal/validation"
)

var errUnknownToken = objective.ErrUnknownToken

// LibrarySessionResponse is returned when a library session is created.
type LibrarySessionResponse struct {
	ID          string               `json:"id"`
	Games       int                  `json:"games"`
	Templates   []objective.Template `json:"templates"`
	Constraints []objective.Template `json:"constraints"`
	// LoadError is set when the library could not be loaded; the templates
	// are then the fallback only.
	LoadError string `json:"load_error,omitempty"`
}

// TemplatesResponse lists a session's templates.
type TemplatesResponse struct {
	Templates   []objective.Template `json:"templates"`
	Constraints []objective.Template `json:"constraints"`
}

// ResolveResponse lists the candidate values of one token.
type ResolveResponse struct {
	Token  string   `json:"token"`
	Values []string `json:"values"`
}

// CreateLibrarySession builds a Playnite library provider from an option bag.
func (h *Handler) CreateLibrarySession(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	bag, err := decodeOptionBag(r)
	if err != nil {
		respondError(w, r, start, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), err)
		return
	}

	opts := library.ParseOptions(h.deps.LibraryBase, bag)
	if err := validation.ValidateStruct(opts); err != nil {
		respondValidationError(w, r, start, err)
		return
	}
	game := library.NewGame(h.deps.Library, opts)
	ctx := r.Context()

	resp := LibrarySessionResponse{
		ID:          uuid.NewString(),
		Templates:   game.Templates(ctx),
		Constraints: game.ConstraintTemplates(ctx),
		Games:       game.Count(ctx),
	}
	if err := game.Err(ctx); err != nil {
		resp.LoadError = err.Error()
	}

	h.librarySessions.Set(resp.ID, game)
	h.recordSessions()
	logging.Ctx(ctx).Info().
		Str("session", resp.ID).
		Str("path", opts.Path).
		Int("games", resp.Games).
		Msg("Library session created")
	respondSuccess(w, r, start, http.StatusCreated, resp)
}

func (h *Handler) librarySession(w http.ResponseWriter, r *http.Request, start time.Time) (*library.Game, bool) {
	id := chi.URLParam(r, "id")
	game, ok := h.librarySessions.Get(id)
	if !ok {
		respondError(w, r, start, http.StatusNotFound, ErrCodeNotFound, "session not found", ErrSessionNotFound)
		return nil, false
	}
	return game, true
}

// LibraryTemplates returns a library session's templates.
func (h *Handler) LibraryTemplates(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	game, ok := h.librarySession(w, r, start)
	if !ok {
		return
	}
	respondSuccess(w, r, start, http.StatusOK, TemplatesResponse{
		Templates:   game.Templates(r.Context()),
		Constraints: game.ConstraintTemplates(r.Context()),
	})
}

// LibraryResolve returns the values of one token.
func (h *Handler) LibraryResolve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	game, ok := h.librarySession(w, r, start)
	if !ok {
		return
	}
	token := chi.URLParam(r, "token")
	values, err := game.Resolve(r.Context(), token)
	if err != nil {
		respondResolveError(w, r, start, token, err)
		return
	}
	respondSuccess(w, r, start, http.StatusOK, ResolveResponse{Token: token, Values: values})
}

// LibraryFacets returns the facet summary and library stats.
func (h *Handler) LibraryFacets(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	game, ok := h.librarySession(w, r, start)
	if !ok {
		return
	}
	ctx := r.Context()
	respondSuccess(w, r, start, http.StatusOK, map[string]any{
		"facets": game.Facets(ctx),
		"stats":  game.Stats(ctx),
		"games":  game.Count(ctx),
	})
}
