// Package dto holds the JSON request and response shapes of the HTTP API.
package dto

import "github.com/shopspring/decimal"

// CheckDuplicateRequest is the body of POST /api/owners/{ownerID}/duplicates/check.
// Amount may be sent as a JSON number or a numeric string. Date is RFC 3339
// or YYYY-MM-DD.
type CheckDuplicateRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description,omitempty"`
	Date        string           `json:"date"`
}
