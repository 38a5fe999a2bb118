package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Veraticus/fintrack/internal/api/dto"
	"github.com/Veraticus/fintrack/internal/api/handlers"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEngine records what it was asked and answers with err when set.
type stubEngine struct {
	err         error
	owner       string
	description *string
	candidate   model.DuplicateCandidate
}

func (s *stubEngine) FindDuplicates(_ context.Context, ownerID string) (*model.DuplicateReport, error) {
	s.owner = ownerID
	if s.err != nil {
		return nil, s.err
	}
	return &model.DuplicateReport{Duplicates: []model.DuplicateCandidatePair{}}, nil
}

func (s *stubEngine) CheckDuplicate(_ context.Context, ownerID string, candidate model.DuplicateCandidate) (*model.DuplicateCheckResult, error) {
	s.owner, s.candidate = ownerID, candidate
	if s.err != nil {
		return nil, s.err
	}
	return &model.DuplicateCheckResult{Matches: []model.TransactionSummary{}}, nil
}

func (s *stubEngine) SuggestCategory(_ context.Context, ownerID string, description *string) (*model.CategorySuggestion, error) {
	s.owner, s.description = ownerID, description
	if s.err != nil {
		return nil, s.err
	}
	return &model.CategorySuggestion{}, nil
}

func (s *stubEngine) CategoryPatterns(_ context.Context, ownerID string) ([]model.CategoryPattern, error) {
	s.owner = ownerID
	if s.err != nil {
		return nil, s.err
	}
	return []model.CategoryPattern{}, nil
}

func router(engine handlers.Detection) http.Handler {
	r := chi.NewRouter()
	dup := handlers.NewDuplicatesHandler(engine)
	sug := handlers.NewSuggestionsHandler(engine)
	r.Get("/o/{ownerID}/duplicates", dup.Scan)
	r.Post("/o/{ownerID}/duplicates/check", dup.Check)
	r.Get("/o/{ownerID}/suggest", sug.Suggest)
	r.Get("/o/{ownerID}/patterns", sug.Patterns)
	r.Get("/health", handlers.NewHealthHandler().ServeHTTP)
	return r
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	rec := serve(router(&stubEngine{}), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var response dto.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "ok", response.Status)
	assert.NotEmpty(t, response.Timestamp)
}

func TestHandlers_PassRequestValues(t *testing.T) {
	engine := &stubEngine{}
	h := router(engine)

	rec := serve(h, http.MethodPost, "/o/alice/duplicates/check",
		`{"amount":"-12.5","description":"Refund","date":"2024-03-02"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", engine.owner)
	assert.Equal(t, "-12.5", engine.candidate.Amount.String())
	require.NotNil(t, engine.candidate.Description)
	assert.Equal(t, "Refund", *engine.candidate.Description)
	assert.Equal(t, 2, engine.candidate.Date.Day())

	rec = serve(h, http.MethodGet, "/o/bob/suggest?description=", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob", engine.owner)
	require.NotNil(t, engine.description, "an empty parameter is still present")
	assert.Empty(t, *engine.description)

	rec = serve(h, http.MethodGet, "/o/bob/suggest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, engine.description)
}

func TestHandlers_ErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		name       string
		wantCode   string
		wantStatus int
	}{
		{
			name:       "invalid input",
			err:        common.InvalidInputf("owner id is required"),
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeValidation,
		},
		{
			name:       "store unavailable",
			err:        common.StoreUnavailable(errors.New("disk on fire")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternalError,
		},
		{
			name:       "anything else",
			err:        context.Canceled,
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternalError,
		},
	}

	paths := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/o/alice/duplicates", ""},
		{http.MethodPost, "/o/alice/duplicates/check", `{"amount":1,"date":"2024-03-02"}`},
		{http.MethodGet, "/o/alice/suggest?description=coffee", ""},
		{http.MethodGet, "/o/alice/patterns", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := router(&stubEngine{err: tt.err})
			for _, p := range paths {
				rec := serve(h, p.method, p.path, p.body)
				assert.Equal(t, tt.wantStatus, rec.Code, p.path)

				var apiErr dto.APIError
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
				assert.Equal(t, tt.wantCode, apiErr.Code, p.path)
				assert.NotContains(t, apiErr.Message, "disk on fire")
			}
		})
	}
}
