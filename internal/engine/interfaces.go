package engine

import (
	"context"

	"github.com/Veraticus/fintrack/internal/model"
)

// DuplicateFinder finds transactions recorded more than once.
type DuplicateFinder interface {
	Scan(ctx context.Context, ownerID string) ([]model.DuplicateCandidatePair, error)
	Check(ctx context.Context, ownerID string, candidate model.DuplicateCandidate) (*model.DuplicateCheckResult, error)
}

// CategorySuggester suggests categories from an owner's history.
type CategorySuggester interface {
	Suggest(ctx context.Context, ownerID string, description *string) (*model.CategorySuggestion, error)
	CategoryPatterns(ctx context.Context, ownerID string) ([]model.CategoryPattern, error)
}
