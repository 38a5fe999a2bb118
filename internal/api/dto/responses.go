package dto

import (
	"time"

	"github.com/Veraticus/fintrack/internal/model"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse reports the service as up at the current time.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// CategoryPatternsResponse wraps the per-category keyword summaries.
type CategoryPatternsResponse struct {
	Patterns []model.CategoryPattern `json:"patterns"`
	Count    int                     `json:"count"`
}
