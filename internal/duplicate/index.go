package duplicate

import (
	"time"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

// scanKey identifies a transaction by amount, calendar day and raw description.
type scanKey struct {
	day         time.Time
	description string
	amount      decimal.Decimal
}

func newScanKey(txn model.Transaction) scanKey {
	return scanKey{
		amount:      txn.Amount,
		day:         truncateToDay(txn.Date),
		description: txn.DescriptionText(),
	}
}

func (k scanKey) String() string {
	return k.amount.String() + "-" + k.day.Format(time.RFC3339) + "-" + k.description
}

type indexEntry struct {
	txn model.Transaction
	key scanKey
}

// orderedIndex is an insertion-ordered map from scanKey to the last
// transaction stored under it. Re-setting a key replaces its transaction but
// keeps its original position.
type orderedIndex struct {
	positions map[string]int
	entries   []indexEntry
}

func newOrderedIndex(capacity int) *orderedIndex {
	return &orderedIndex{
		positions: make(map[string]int, capacity),
		entries:   make([]indexEntry, 0, capacity),
	}
}

func (o *orderedIndex) set(key scanKey, txn model.Transaction) {
	k := key.String()
	if i, ok := o.positions[k]; ok {
		o.entries[i].txn = txn
		return
	}
	o.positions[k] = len(o.entries)
	o.entries = append(o.entries, indexEntry{key: key, txn: txn})
}

func (o *orderedIndex) len() int {
	return len(o.entries)
}

// truncateToDay zeroes the time of day in the timestamp's own location.
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
