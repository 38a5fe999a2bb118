// Package engine exposes duplicate detection and category suggestion as the
// four operations callers use, translating failures into the error kinds
// callers act on.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/duplicate"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/pattern"
	"github.com/Veraticus/fintrack/internal/service"
)

// Engine runs read-only detection queries against the transaction store.
type Engine struct {
	duplicates DuplicateFinder
	suggester  CategorySuggester
	logger     *slog.Logger
}

// New creates an engine reading from store. A nil logger uses slog.Default().
func New(store service.TransactionReader, logger *slog.Logger) *Engine {
	return NewWithComponents(duplicate.NewDetector(store), pattern.NewSuggester(store), logger)
}

// NewWithComponents creates an engine from explicit components.
func NewWithComponents(duplicates DuplicateFinder, suggester CategorySuggester, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		duplicates: duplicates,
		suggester:  suggester,
		logger:     logger,
	}
}

// FindDuplicates scans the owner's recent transactions for probable duplicates.
func (e *Engine) FindDuplicates(ctx context.Context, ownerID string) (*model.DuplicateReport, error) {
	start := time.Now()

	pairs, err := e.duplicates.Scan(ctx, ownerID)
	if err != nil {
		return nil, e.fail(ctx, "find_duplicates", ownerID, err)
	}

	e.logger.DebugContext(ctx, "Duplicate scan finished",
		"owner_id", ownerID,
		"pairs", len(pairs),
		"duration", time.Since(start))

	return &model.DuplicateReport{Duplicates: pairs, Count: len(pairs)}, nil
}

// CheckDuplicate reports whether candidate repeats a stored transaction.
func (e *Engine) CheckDuplicate(ctx context.Context, ownerID string, candidate model.DuplicateCandidate) (*model.DuplicateCheckResult, error) {
	result, err := e.duplicates.Check(ctx, ownerID, candidate)
	if err != nil {
		return nil, e.fail(ctx, "check_duplicate", ownerID, err)
	}
	return result, nil
}

// SuggestCategory returns the best category guess for description.
func (e *Engine) SuggestCategory(ctx context.Context, ownerID string, description *string) (*model.CategorySuggestion, error) {
	suggestion, err := e.suggester.Suggest(ctx, ownerID, description)
	if err != nil {
		return nil, e.fail(ctx, "suggest_category", ownerID, err)
	}

	e.logger.DebugContext(ctx, "Category suggested",
		"owner_id", ownerID,
		"category_id", suggestion.CategoryID,
		"confidence", suggestion.Confidence,
		"match_count", suggestion.MatchCount)

	return suggestion, nil
}

// CategoryPatterns summarizes the owner's categories by their common words.
func (e *Engine) CategoryPatterns(ctx context.Context, ownerID string) ([]model.CategoryPattern, error) {
	patterns, err := e.suggester.CategoryPatterns(ctx, ownerID)
	if err != nil {
		return nil, e.fail(ctx, "category_patterns", ownerID, err)
	}
	return patterns, nil
}

// fail passes invalid input through and turns everything else into a store failure.
func (e *Engine) fail(ctx context.Context, operation, ownerID string, err error) error {
	if errors.Is(err, common.ErrInvalidInput) {
		e.logger.DebugContext(ctx, "Rejected invalid input",
			"operation", operation,
			"owner_id", ownerID,
			"error", err)
		return err
	}

	e.logger.ErrorContext(ctx, "Transaction store read failed",
		"operation", operation,
		"owner_id", ownerID,
		"error", err)
	return common.StoreUnavailable(err)
}
