package testutil

import (
	"time"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TxnOption customizes a fixture transaction.
type TxnOption func(*model.Transaction)

// NewTxn builds an expense owned by ownerID with a fresh id.
func NewTxn(ownerID, amount, description string, date time.Time, opts ...TxnOption) model.Transaction {
	txn := model.Transaction{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Amount:  decimal.RequireFromString(amount),
		Date:    date,
		Type:    model.TypeExpense,
	}
	if description != "" {
		txn.Description = model.StringPtr(description)
	}
	for _, opt := range opts {
		opt(&txn)
	}
	return txn
}

// WithID sets a fixed transaction id.
func WithID(id string) TxnOption {
	return func(t *model.Transaction) { t.ID = id }
}

// WithCategory files the transaction under categoryID.
func WithCategory(categoryID int) TxnOption {
	return func(t *model.Transaction) { t.CategoryID = model.IntPtr(categoryID) }
}

// WithType sets the transaction type.
func WithType(txnType model.TransactionType) TxnOption {
	return func(t *model.Transaction) { t.Type = txnType }
}

// Day returns midday UTC on the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}
