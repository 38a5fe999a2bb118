// Package duplicate finds transactions that were probably recorded twice.
package duplicate

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/service"
	"github.com/Veraticus/fintrack/internal/similarity"
	"github.com/shopspring/decimal"
)

const (
	// ScanWindow is how many recent transactions a full scan compares.
	ScanWindow = 500
	// ScanDayThreshold is the largest day gap a scanned pair may have.
	ScanDayThreshold = 3.0
	// ScanSimilarityThreshold is the description similarity a scanned pair must exceed
	// when the amounts are not exactly equal.
	ScanSimilarityThreshold = 0.6

	// CheckWindowDays is how far either side of the candidate date a check looks.
	CheckWindowDays = 3
	// CheckMatchLimit caps how many store matches a check considers.
	CheckMatchLimit = 5
	// CheckSimilarityThreshold is the description similarity a check match must exceed.
	CheckSimilarityThreshold = 0.5

	msPerDay = 86400000.0
)

var (
	amountTolerance = decimal.RequireFromString("0.01")
	checkBandLow    = decimal.RequireFromString("0.99")
	checkBandHigh   = decimal.RequireFromString("1.01")
)

// Detector finds duplicate transactions for an owner.
type Detector struct {
	store service.TransactionReader
}

// NewDetector creates a detector reading from store.
func NewDetector(store service.TransactionReader) *Detector {
	return &Detector{store: store}
}

// Scan compares the owner's most recent transactions pairwise and returns
// every probable duplicate pair in scan order.
func (d *Detector) Scan(ctx context.Context, ownerID string) ([]model.DuplicateCandidatePair, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, common.InvalidInputf("owner id is required")
	}

	txns, err := d.store.RecentTransactions(ctx, service.TransactionFilter{
		OwnerID: ownerID,
		Limit:   ScanWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load recent transactions: %w", err)
	}

	return FindPairs(ctx, txns)
}

// FindPairs runs the pairwise duplicate pass over txns in the order given.
// Each transaction is compared with every transaction indexed before it, then
// indexed itself. It returns ctx.Err() if ctx is cancelled between rows.
func FindPairs(ctx context.Context, txns []model.Transaction) ([]model.DuplicateCandidatePair, error) {
	index := newOrderedIndex(len(txns))
	pairs := []model.DuplicateCandidatePair{}

	for _, txn := range txns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		key := newScanKey(txn)
		for _, entry := range index.entries {
			if pair, ok := comparePair(entry, txn, key); ok {
				pairs = append(pairs, pair)
			}
		}
		index.set(key, txn)
	}

	return pairs, nil
}

func comparePair(existing indexEntry, txn model.Transaction, key scanKey) (model.DuplicateCandidatePair, bool) {
	if txn.ID == existing.txn.ID {
		return model.DuplicateCandidatePair{}, false
	}
	if !txn.Amount.Sub(existing.key.amount).Abs().LessThan(amountTolerance) {
		return model.DuplicateCandidatePair{}, false
	}

	daysDiff := math.Abs(float64(key.day.Sub(existing.key.day).Milliseconds())) / msPerDay
	if daysDiff > ScanDayThreshold {
		return model.DuplicateCandidatePair{}, false
	}

	score := similarity.Score(
		strings.ToLower(txn.DescriptionText()),
		strings.ToLower(existing.key.description),
	)
	if score <= ScanSimilarityThreshold && !txn.Amount.Equal(existing.key.amount) {
		return model.DuplicateCandidatePair{}, false
	}

	return model.DuplicateCandidatePair{
		Original:   existing.txn,
		Duplicate:  txn,
		Similarity: score,
		DaysDiff:   int(math.Round(daysDiff)),
	}, true
}

// Check looks for stored transactions that the candidate would duplicate:
// amount within 1%, date within three days either side, and a description
// similarity above CheckSimilarityThreshold. Unlike Scan there is no
// exact-amount fallback, so a candidate without a description never matches.
func (d *Detector) Check(ctx context.Context, ownerID string, candidate model.DuplicateCandidate) (*model.DuplicateCheckResult, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, common.InvalidInputf("owner id is required")
	}
	if err := ValidateCandidate(candidate); err != nil {
		return nil, err
	}

	low, high := amountBand(candidate.Amount)
	start := candidate.Date.AddDate(0, 0, -CheckWindowDays)
	end := candidate.Date.AddDate(0, 0, CheckWindowDays)

	matches, err := d.store.RecentTransactions(ctx, service.TransactionFilter{
		OwnerID:   ownerID,
		MinAmount: &low,
		MaxAmount: &high,
		StartDate: &start,
		EndDate:   &end,
		Limit:     CheckMatchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load nearby transactions: %w", err)
	}

	result := &model.DuplicateCheckResult{Matches: []model.TransactionSummary{}}
	description := strings.ToLower(candidateDescription(candidate))
	for _, match := range matches {
		if similarity.Score(description, strings.ToLower(match.DescriptionText())) > CheckSimilarityThreshold {
			result.Matches = append(result.Matches, match.Summary())
		}
	}
	result.IsDuplicate = len(result.Matches) > 0

	return result, nil
}

// amountBand returns the inclusive ±1% band around amount, ordered low to high.
func amountBand(amount decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	low := amount.Mul(checkBandLow)
	high := amount.Mul(checkBandHigh)
	if low.GreaterThan(high) {
		return high, low
	}
	return low, high
}

func candidateDescription(c model.DuplicateCandidate) string {
	if c.Description == nil {
		return ""
	}
	return *c.Description
}

// ValidateCandidate rejects candidates that cannot be checked.
func ValidateCandidate(c model.DuplicateCandidate) error {
	if c.Date.IsZero() {
		return common.InvalidInputf("date is required")
	}
	return nil
}

// ParseCandidate builds a candidate from raw request values. The date may be
// RFC 3339 or a plain YYYY-MM-DD day.
func ParseCandidate(amount string, description *string, date string) (model.DuplicateCandidate, error) {
	parsedAmount, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return model.DuplicateCandidate{}, common.InvalidInputf("amount %q is not a number", amount)
	}

	parsedDate, err := ParseDate(date)
	if err != nil {
		return model.DuplicateCandidate{}, err
	}

	return model.DuplicateCandidate{
		Amount:      parsedAmount,
		Description: description,
		Date:        parsedDate,
	}, nil
}

// ParseDate accepts RFC 3339 timestamps and YYYY-MM-DD days.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, common.InvalidInputf("date is required")
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, common.InvalidInputf("date %q is not RFC 3339 or YYYY-MM-DD", value)
}
