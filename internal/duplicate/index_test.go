package duplicate

import (
	"testing"
	"time"

	"github.com/Veraticus/fintrack/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOrderedIndex_SetKeepsPosition(t *testing.T) {
	day := testutil.Day(2024, time.January, 2)
	a := testutil.NewTxn(owner, "5.00", "Latte", day, testutil.WithID("a"))
	b := testutil.NewTxn(owner, "6.00", "Bagel", day, testutil.WithID("b"))
	c := testutil.NewTxn(owner, "5.00", "Latte", day.Add(time.Hour), testutil.WithID("c"))

	idx := newOrderedIndex(3)
	idx.set(newScanKey(a), a)
	idx.set(newScanKey(b), b)
	idx.set(newScanKey(c), c)

	assert.Equal(t, 2, idx.len())
	assert.Equal(t, "c", idx.entries[0].txn.ID)
	assert.Equal(t, "b", idx.entries[1].txn.ID)
}

func TestTruncateToDay(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	in := time.Date(2024, time.February, 29, 22, 15, 30, 500, loc)

	got := truncateToDay(in)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestScanKey_String(t *testing.T) {
	txn := testutil.NewTxn(owner, "42.50", "Coffee Shop", time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, "42.5-2024-03-01T00:00:00Z-Coffee Shop", newScanKey(txn).String())
}
