// Package pattern suggests categories for new transactions from an owner's
// history and summarizes how each category is usually described.
package pattern

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/service"
	"github.com/Veraticus/fintrack/internal/similarity"
)

const (
	// HistoryWindow is how many described transactions a suggestion reads.
	HistoryWindow = 500
	// MinDescriptionLength is the shortest trimmed description worth scoring.
	MinDescriptionLength = 2
	// MatchThreshold is the per-transaction score a historical row must exceed to count.
	MatchThreshold = 0.3

	frequencyBoostStep = 0.1
	maxFrequencyBoost  = 0.3
)

// Suggester ranks an owner's categories against a new description.
type Suggester struct {
	store service.TransactionReader
}

// NewSuggester creates a new category suggester.
func NewSuggester(store service.TransactionReader) *Suggester {
	return &Suggester{store: store}
}

// categoryScore accumulates the matches for one category.
type categoryScore struct {
	categoryID int
	score      float64
	count      int
}

func (c categoryScore) finalScore() float64 {
	avg := c.score / float64(c.count)
	boost := math.Min(float64(c.count)*frequencyBoostStep, maxFrequencyBoost)
	return avg + boost
}

// confidence is the final score clamped to 1.
func (c categoryScore) confidence() float64 {
	return math.Min(c.finalScore(), 1)
}

// Suggest returns the most likely category for description. A description
// that is absent or shorter than two characters after trimming returns an
// empty suggestion without touching the store.
func (s *Suggester) Suggest(ctx context.Context, ownerID string, description *string) (*model.CategorySuggestion, error) {
	if description == nil || utf8.RuneCountInString(strings.TrimSpace(*description)) < MinDescriptionLength {
		return &model.CategorySuggestion{}, nil
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, common.InvalidInputf("owner id is required")
	}

	input := strings.ToLower(strings.TrimSpace(*description))

	history, err := s.store.RecentTransactions(ctx, service.TransactionFilter{
		OwnerID:       ownerID,
		DescribedOnly: true,
		Limit:         HistoryWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction history: %w", err)
	}

	best, ok := pickBest(scoreHistory(input, history))
	if !ok {
		return &model.CategorySuggestion{}, nil
	}

	suggestion := &model.CategorySuggestion{
		CategoryID: model.IntPtr(best.categoryID),
		Confidence: best.confidence(),
		MatchCount: best.count,
	}
	suggestion.CategoryName = s.categoryName(ctx, ownerID, best.categoryID)

	return suggestion, nil
}

// ScoreDescription scores one historical description against a normalized
// input: bigram similarity plus keyword overlap, clamped to 1.
func ScoreDescription(input, historical string) float64 {
	historical = strings.ToLower(historical)
	score := similarity.Score(input, historical) + keywordOverlap(input, historical)
	return math.Min(score, 1)
}

// scoreHistory groups qualifying historical matches by category in the order
// categories are first seen.
func scoreHistory(input string, history []model.Transaction) []categoryScore {
	var groups []categoryScore
	positions := make(map[string]int)

	for _, txn := range history {
		if !txn.HasDescription() || !txn.HasCategory() {
			continue
		}

		total := ScoreDescription(input, *txn.Description)
		if total <= MatchThreshold {
			continue
		}

		key := model.CategoryKey(*txn.CategoryID)
		i, ok := positions[key]
		if !ok {
			i = len(groups)
			positions[key] = i
			groups = append(groups, categoryScore{categoryID: *txn.CategoryID})
		}
		groups[i].score += total
		groups[i].count++
	}

	return groups
}

// pickBest returns the group with the highest final score; the earliest group wins ties.
func pickBest(groups []categoryScore) (categoryScore, bool) {
	var best categoryScore
	found := false
	bestScore := 0.0

	for _, g := range groups {
		if g.count == 0 {
			continue
		}
		if score := g.finalScore(); !found || score > bestScore {
			best, bestScore, found = g, score, true
		}
	}
	return best, found
}

// categoryName looks up a label for the suggestion. Failures only cost the label.
func (s *Suggester) categoryName(ctx context.Context, ownerID string, categoryID int) string {
	categories, err := s.store.GetCategories(ctx, ownerID)
	if err != nil {
		slog.Warn("Failed to load category names", "owner_id", ownerID, "error", err)
		return ""
	}
	for _, cat := range categories {
		if cat.ID == categoryID {
			return cat.Name
		}
	}
	return ""
}

// CategoryPatterns groups the owner's described, categorized transactions by
// category, busiest first, and lists each category's most common words.
func (s *Suggester) CategoryPatterns(ctx context.Context, ownerID string) ([]model.CategoryPattern, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, common.InvalidInputf("owner id is required")
	}

	txns, err := s.store.RecentTransactions(ctx, service.TransactionFilter{
		OwnerID:       ownerID,
		DescribedOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	categories, err := s.store.GetCategories(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	names := make(map[int]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}

	type group struct {
		descriptions []string
		categoryID   int
	}
	var groups []*group
	byKey := make(map[string]*group)

	for _, txn := range txns {
		if !txn.HasDescription() || !txn.HasCategory() {
			continue
		}
		key := model.CategoryKey(*txn.CategoryID)
		g, ok := byKey[key]
		if !ok {
			g = &group{categoryID: *txn.CategoryID}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.descriptions = append(g.descriptions, *txn.Description)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].descriptions) > len(groups[j].descriptions)
	})

	patterns := make([]model.CategoryPattern, 0, len(groups))
	for _, g := range groups {
		patterns = append(patterns, model.CategoryPattern{
			CategoryID:       g.categoryID,
			CategoryName:     names[g.categoryID],
			TransactionCount: len(g.descriptions),
			TopKeywords:      TopKeywords(g.descriptions, TopKeywordCount),
		})
	}

	return patterns, nil
}
