package model

import (
	"strconv"
	"time"
)

// CategoryType indicates whether a category is for income or expense.
type CategoryType string

const (
	// CategoryTypeIncome represents categories for income transactions.
	CategoryTypeIncome CategoryType = "income"
	// CategoryTypeExpense represents categories for expense transactions.
	CategoryTypeExpense CategoryType = "expense"
)

// Category is an owner-defined label transactions can be filed under.
type Category struct {
	CreatedAt time.Time    `json:"created_at"`
	OwnerID   string       `json:"owner_id"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	ID        int          `json:"id"`
}

// CategoryKey canonicalizes a category id into a map key.
func CategoryKey(id int) string {
	return strconv.Itoa(id)
}
