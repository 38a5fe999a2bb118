// Package testutil provides test fixtures and stores for fintrack packages.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/storage"
)

// TestDB is a migrated in-memory database seeded with one owner's categories.
type TestDB struct {
	Storage    *storage.SQLiteStorage
	t          *testing.T
	categories map[string]model.Category
	OwnerID    string
}

// SetupTestDB creates a new in-memory test database and seeds ownerID's
// expense categories. Cleanup is registered on t.
//
// Example:
//
//	db := testutil.SetupTestDB(t, "alice", "Groceries", "Dining")
//	db.Seed(testutil.NewTxn("alice", "12.50", "Pizza", testutil.Day(2024, 3, 1),
//		testutil.WithCategory(db.MustGetCategory("Dining").ID)))
func SetupTestDB(t *testing.T, ownerID string, categoryNames ...string) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db := &TestDB{
		Storage:    store,
		OwnerID:    ownerID,
		categories: make(map[string]model.Category, len(categoryNames)),
		t:          t,
	}
	for _, name := range categoryNames {
		cat, err := store.CreateCategory(ctx, ownerID, name, model.CategoryTypeExpense)
		if err != nil {
			t.Fatalf("failed to seed category %q: %v", name, err)
		}
		db.categories[name] = *cat
	}
	return db
}

// MustGetCategory returns the seeded category with the given name or fails the test.
func (db *TestDB) MustGetCategory(name string) model.Category {
	db.t.Helper()
	cat, ok := db.categories[name]
	if !ok {
		db.t.Fatalf("category %q not found in test data", name)
	}
	return cat
}

// Seed saves txns or fails the test.
func (db *TestDB) Seed(txns ...model.Transaction) {
	db.t.Helper()
	if len(txns) == 0 {
		return
	}
	if err := db.Storage.SaveTransactions(context.Background(), txns); err != nil {
		db.t.Fatalf("failed to seed transactions: %v", err)
	}
}
