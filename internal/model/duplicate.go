package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DuplicateCandidatePair links a transaction to an earlier-seen one it probably repeats.
type DuplicateCandidatePair struct {
	Original   Transaction `json:"original"`
	Duplicate  Transaction `json:"duplicate"`
	Similarity float64     `json:"similarity"`
	DaysDiff   int         `json:"days_diff"`
}

// DuplicateCheckResult is the outcome of checking one candidate against history.
type DuplicateCheckResult struct {
	Matches     []TransactionSummary `json:"matches"`
	IsDuplicate bool                 `json:"is_duplicate"`
}

// DuplicateCandidate is a not-yet-stored transaction to check before insert.
type DuplicateCandidate struct {
	Date        time.Time
	Description *string
	Amount      decimal.Decimal
}

// DuplicateReport is the result of a full duplicate scan.
type DuplicateReport struct {
	Duplicates []DuplicateCandidatePair `json:"duplicates"`
	Count      int                      `json:"count"`
}
