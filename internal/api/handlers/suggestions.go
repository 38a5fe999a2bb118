package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Veraticus/fintrack/internal/api/dto"
)

// SuggestionsHandler handles category suggestion requests.
type SuggestionsHandler struct {
	*Base
}

// NewSuggestionsHandler creates a new suggestions handler.
func NewSuggestionsHandler(engine Detection) *SuggestionsHandler {
	return &SuggestionsHandler{
		Base: NewBase(engine),
	}
}

// Suggest handles GET /api/owners/{ownerID}/suggest?description=...
// Omitting the description parameter is the same as an absent description.
func (h *SuggestionsHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var description *string
	if query := r.URL.Query(); query.Has("description") {
		value := query.Get("description")
		description = &value
	}

	suggestion, err := h.engine.SuggestCategory(r.Context(), chi.URLParam(r, "ownerID"), description)
	if err != nil {
		h.WriteEngineError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, suggestion)
}

// Patterns handles GET /api/owners/{ownerID}/category-patterns.
func (h *SuggestionsHandler) Patterns(w http.ResponseWriter, r *http.Request) {
	patterns, err := h.engine.CategoryPatterns(r.Context(), chi.URLParam(r, "ownerID"))
	if err != nil {
		h.WriteEngineError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.CategoryPatternsResponse{
		Patterns: patterns,
		Count:    len(patterns),
	})
}
