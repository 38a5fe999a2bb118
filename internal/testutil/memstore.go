package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/service"
)

// MemoryStore is an in-memory service.TransactionReader for engine tests.
// It applies filters the same way the SQLite store does.
type MemoryStore struct {
	Err          error
	Transactions []model.Transaction
	Categories   []model.Category
	Filters      []service.TransactionFilter
	mu           sync.Mutex
}

// NewMemoryStore creates a store holding txns.
func NewMemoryStore(txns ...model.Transaction) *MemoryStore {
	return &MemoryStore{Transactions: txns}
}

// RecentTransactions implements service.TransactionReader.
func (m *MemoryStore) RecentTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Filters = append(m.Filters, filter)
	if m.Err != nil {
		return nil, m.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []model.Transaction
	for _, txn := range m.Transactions {
		if matchesFilter(txn, filter) {
			out = append(out, txn)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// GetCategories implements service.TransactionReader.
func (m *MemoryStore) GetCategories(_ context.Context, ownerID string) ([]model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	var out []model.Category
	for _, cat := range m.Categories {
		if cat.OwnerID == ownerID {
			out = append(out, cat)
		}
	}
	return out, nil
}

// QueryCount returns how many transaction queries the store has served.
func (m *MemoryStore) QueryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Filters)
}

func matchesFilter(txn model.Transaction, f service.TransactionFilter) bool {
	if txn.OwnerID != f.OwnerID {
		return false
	}
	if f.MinAmount != nil && txn.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && txn.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	if f.StartDate != nil && txn.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && txn.Date.After(*f.EndDate) {
		return false
	}
	if f.DescribedOnly && (txn.Description == nil || strings.TrimSpace(*txn.Description) == "") {
		return false
	}
	return true
}
