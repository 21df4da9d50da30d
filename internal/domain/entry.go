// internal/domain/entry.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is the smallest unit of the ledger: one signed amount attributed to
// one account within one bill. Positive means the account is owed money (it
// paid out), negative means the account owes its share.
//
// Entries are only ever created as a byproduct of committing a bill and only
// deleted when their bill is deleted or re-split.
type Entry struct {
	ID        int64           `db:"id" json:"id"`
	AccountID int64           `db:"account_id" json:"account_id"`
	BillID    int64           `db:"bill_id" json:"bill_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"` // NUMERIC(10, 2) in DB
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Allocation is one participant's share as produced by the split allocator.
type Allocation struct {
	AccountID int64           `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"` // negative: the share owed
}

// SumEntries returns the signed sum of all entries.
func SumEntries(entries []Entry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// SumPositiveEntries returns the sum of the positive entries only, i.e. the
// money attributed to the buyers of a bill.
func SumPositiveEntries(entries []Entry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		if e.Amount.IsPositive() {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}

// SumNegativeEntries returns the sum of the negative entries only.
func SumNegativeEntries(entries []Entry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		if e.Amount.IsNegative() {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}
