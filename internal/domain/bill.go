// internal/domain/bill.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"share-ledger/internal/util"
)

// Bill is an expense event: one buyer's payment decomposed into signed ledger
// entries for every participant. The stored amount must always reconcile with
// the bill's entries (see CheckIntegrity).
type Bill struct {
	ID          int64           `db:"id" json:"id"`
	CreatorID   int64           `db:"creator_id" json:"creator_id"` // Who recorded the bill, informational
	Amount      decimal.Decimal `db:"amount" json:"amount"`         // NUMERIC(10, 2) in DB
	Title       string          `db:"title" json:"title"`
	Description string          `db:"description" json:"description"`
	Repayment   bool            `db:"repayment" json:"repayment"` // Immutable after creation
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`

	// Categories are attached labels, loaded separately (many-to-many).
	Categories []Category `db:"-" json:"categories,omitempty"`
}

// NewBill creates an unsaved bill draft. The amount is reconciled from the
// entries before commit, so the draft amount is provisional.
func NewBill(creatorID int64, title, description string, amount decimal.Decimal, repayment bool) *Bill {
	return &Bill{
		CreatorID:   creatorID,
		Amount:      amount,
		Title:       title,
		Description: description,
		Repayment:   repayment,
		CreatedAt:   time.Now().UTC(),
	}
}

// CheckIntegrity verifies the conservation invariant for a bill with the
// given amount and entry set: the positive entries sum to the bill amount and
// all entries net to zero. A bill with no entries is vacuously valid; that is
// the bootstrap state while entries are being materialized, before commit.
func CheckIntegrity(amount decimal.Decimal, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if !SumPositiveEntries(entries).Equal(amount) {
		return util.ErrIntegrityViolation
	}
	if !SumEntries(entries).IsZero() {
		return util.ErrIntegrityViolation
	}
	return nil
}

// BuildEntries materializes the entry set for a regular bill: one positive
// entry crediting the buyer with the full amount, and one negative entry per
// allocation from the split allocator.
func BuildEntries(billID, buyerID int64, amount decimal.Decimal, allocations []Allocation) []Entry {
	now := time.Now().UTC()
	entries := make([]Entry, 0, len(allocations)+1)
	entries = append(entries, Entry{
		AccountID: buyerID,
		BillID:    billID,
		Amount:    amount,
		CreatedAt: now,
	})
	for _, a := range allocations {
		entries = append(entries, Entry{
			AccountID: a.AccountID,
			BillID:    billID,
			Amount:    a.Amount,
			CreatedAt: now,
		})
	}
	return entries
}

// BuildRepaymentEntries materializes the entry pair for a repayment: the
// buyer is credited the full amount and the receiver owes it back, settling
// an existing balance between the two.
func BuildRepaymentEntries(billID, buyerID, receiverID int64, amount decimal.Decimal) []Entry {
	now := time.Now().UTC()
	return []Entry{
		{AccountID: buyerID, BillID: billID, Amount: amount, CreatedAt: now},
		{AccountID: receiverID, BillID: billID, Amount: amount.Neg(), CreatedAt: now},
	}
}
