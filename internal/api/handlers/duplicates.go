package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Veraticus/fintrack/internal/api/dto"
	"github.com/Veraticus/fintrack/internal/duplicate"
	"github.com/Veraticus/fintrack/internal/model"
)

// maxCheckBody caps the duplicate check request body.
const maxCheckBody = 1 << 16

// DuplicatesHandler handles duplicate detection requests.
type DuplicatesHandler struct {
	*Base
}

// NewDuplicatesHandler creates a new duplicates handler.
func NewDuplicatesHandler(engine Detection) *DuplicatesHandler {
	return &DuplicatesHandler{
		Base: NewBase(engine),
	}
}

// Scan handles GET /api/owners/{ownerID}/duplicates.
func (h *DuplicatesHandler) Scan(w http.ResponseWriter, r *http.Request) {
	report, err := h.engine.FindDuplicates(r.Context(), chi.URLParam(r, "ownerID"))
	if err != nil {
		h.WriteEngineError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, report)
}

// Check handles POST /api/owners/{ownerID}/duplicates/check.
func (h *DuplicatesHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckDuplicateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCheckBody)).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid JSON body"))
		return
	}
	if req.Amount == nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("amount is required"))
		return
	}

	date, err := duplicate.ParseDate(req.Date)
	if err != nil {
		h.WriteEngineError(w, err)
		return
	}

	result, err := h.engine.CheckDuplicate(r.Context(), chi.URLParam(r, "ownerID"), model.DuplicateCandidate{
		Amount:      *req.Amount,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		h.WriteEngineError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}
