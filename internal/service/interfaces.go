// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

// TransactionFilter narrows a transaction query to one owner and optional ranges.
// Nil bounds are unbounded; range bounds are inclusive.
type TransactionFilter struct {
	MinAmount     *decimal.Decimal
	MaxAmount     *decimal.Decimal
	StartDate     *time.Time
	EndDate       *time.Time
	OwnerID       string
	Limit         int
	DescribedOnly bool
}

// TransactionReader is the read side of the store the detection engine consumes.
type TransactionReader interface {
	// RecentTransactions returns the owner's transactions matching filter,
	// most recent first, capped at filter.Limit when it is positive.
	RecentTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	// GetCategories returns the owner's categories.
	GetCategories(ctx context.Context, ownerID string) ([]model.Category, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	TransactionReader

	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	SetTransactionCategory(ctx context.Context, transactionID string, categoryID *int) error
	GetTransactionCount(ctx context.Context, ownerID string) (int, error)

	// Category operations
	GetCategoryByName(ctx context.Context, ownerID, name string) (*model.Category, error)
	GetCategoryByID(ctx context.Context, id int) (*model.Category, error)
	CreateCategory(ctx context.Context, ownerID, name string, categoryType model.CategoryType) (*model.Category, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
