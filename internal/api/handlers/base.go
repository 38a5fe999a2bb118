// Package handlers implements the HTTP handlers of the API server.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Veraticus/fintrack/internal/api/dto"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
)

// Detection is the engine surface the handlers serve.
type Detection interface {
	FindDuplicates(ctx context.Context, ownerID string) (*model.DuplicateReport, error)
	CheckDuplicate(ctx context.Context, ownerID string, candidate model.DuplicateCandidate) (*model.DuplicateCheckResult, error)
	SuggestCategory(ctx context.Context, ownerID string, description *string) (*model.CategorySuggestion, error)
	CategoryPatterns(ctx context.Context, ownerID string) ([]model.CategoryPattern, error)
}

// Base provides shared functionality for all handlers.
type Base struct {
	engine Detection
}

// NewBase creates a new base handler serving engine.
func NewBase(engine Detection) *Base {
	return &Base{engine: engine}
}

// WriteJSON writes a JSON response with the given status code.
func (b *Base) WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error response with the given status code.
func (b *Base) WriteError(w http.ResponseWriter, status int, err dto.APIError) {
	b.WriteJSON(w, status, err)
}

// WriteEngineError maps an engine error kind onto a response. Store failures
// get the generic internal error so storage details never reach clients.
func (b *Base) WriteEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		b.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
	default:
		b.WriteError(w, http.StatusInternalServerError, dto.InternalError())
	}
}
