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

	"github.com/tomtom215/keepfeed/internal/logging"
	"github.com/tomtom215/keepfeed/internal/objective"
	"github.com/tomtom215/keepfeed/internal/validation"
	"github.com/tomtom215/keepfeed/internal/wikipedia"
)

// WikipediaSessionResponse is returned when a Wikipedia session is created.
type WikipediaSessionResponse struct {
	ID          string               `json:"id"`
	Dir         string               `json:"dir"`
	Articles    int                  `json:"articles"`
	Templates   []objective.Template `json:"templates"`
	Constraints []objective.Template `json:"constraints"`
}

// ArticlesResponse is one live article list.
type ArticlesResponse struct {
	Kind     wikipedia.Kind `json:"kind"`
	Articles []string       `json:"articles"`
}

// CreateWikipediaSession builds a Wikipedia Game provider from an option bag.
// The pack directory is prepared before responding.
func (h *Handler) CreateWikipediaSession(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	bag, err := decodeOptionBag(r)
	if err != nil {
		respondError(w, r, start, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), err)
		return
	}
	opts := wikipedia.ParseOptions(h.deps.WikipediaBase, bag)
	if err := validation.ValidateStruct(opts); err != nil {
		respondValidationError(w, r, start, err)
		return
	}

	var source wikipedia.ArticleSource
	if h.deps.Articles != nil {
		source = h.deps.Articles
	}
	game := wikipedia.NewGame(h.deps.Packs, source, opts)
	ctx := r.Context()

	resp := WikipediaSessionResponse{
		ID:          uuid.NewString(),
		Dir:         game.Dir(ctx),
		Articles:    len(game.Articles(ctx)),
		Templates:   game.Templates(ctx),
		Constraints: game.ConstraintTemplates(ctx),
	}

	h.wikipediaSessions.Set(resp.ID, game)
	h.recordSessions()
	logging.Ctx(ctx).Info().
		Str("session", resp.ID).
		Str("dir", resp.Dir).
		Int("articles", resp.Articles).
		Msg("Wikipedia session created")
	respondSuccess(w, r, start, http.StatusCreated, resp)
}

func (h *Handler) wikipediaSession(w http.ResponseWriter, r *http.Request, start time.Time) (*wikipedia.Game, bool) {
	game, ok := h.wikipediaSessions.Get(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, r, start, http.StatusNotFound, ErrCodeNotFound, "session not found", ErrSessionNotFound)
		return nil, false
	}
	return game, true
}

// WikipediaTemplates returns a Wikipedia session's templates.
func (h *Handler) WikipediaTemplates(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	game, ok := h.wikipediaSession(w, r, start)
	if !ok {
		return
	}
	respondSuccess(w, r, start, http.StatusOK, TemplatesResponse{
		Templates:   game.Templates(r.Context()),
		Constraints: game.ConstraintTemplates(r.Context()),
	})
}

// WikipediaResolve returns the values of one token.
func (h *Handler) WikipediaResolve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	game, ok := h.wikipediaSession(w, r, start)
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

// WikipediaArticles returns one cached live list.
func (h *Handler) WikipediaArticles(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	kind, err := wikipedia.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondError(w, r, start, http.StatusNotFound, ErrCodeNotFound, err.Error(), err)
		return
	}
	articles := []string{}
	if h.deps.Articles != nil {
		articles = h.deps.Articles.Get(r.Context(), kind)
	}
	respondSuccess(w, r, start, http.StatusOK, ArticlesResponse{Kind: kind, Articles: articles})
}
