// Package model defines the core domain models used throughout the application.
package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether money came in or went out.
type TransactionType string

const (
	// TypeIncome marks money received.
	TypeIncome TransactionType = "income"
	// TypeExpense marks money spent.
	TypeExpense TransactionType = "expense"
)

// Valid reports whether the type is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single recorded income or expense owned by one account.
// Description and CategoryID are optional; nil means the value was never set.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Description *string         `json:"description,omitempty"`
	CategoryID  *int            `json:"category_id,omitempty"`
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
}

// DescriptionText returns the description, treating an absent one as empty.
func (t Transaction) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// HasDescription reports whether the transaction carries a non-blank description.
func (t Transaction) HasDescription() bool {
	return t.Description != nil && strings.TrimSpace(*t.Description) != ""
}

// HasCategory reports whether the transaction has been assigned a category.
func (t Transaction) HasCategory() bool {
	return t.CategoryID != nil
}

// Summary returns the shortened view used in duplicate check responses.
func (t Transaction) Summary() TransactionSummary {
	return TransactionSummary{
		ID:          t.ID,
		Amount:      t.Amount,
		Description: t.DescriptionText(),
		Date:        t.Date,
	}
}

// TransactionSummary is a trimmed projection of a transaction.
type TransactionSummary struct {
	Date        time.Time       `json:"date"`
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// StringPtr returns a pointer to s. Handy for optional descriptions.
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to i. Handy for optional category ids.
func IntPtr(i int) *int {
	return &i
}
