// internal/split/settle.go
package split

import (
	"github.com/shopspring/decimal"

	"share-ledger/internal/domain"
)

// Transfer is a suggested repayment from a debtor to a creditor.
type Transfer struct {
	FromAccountID int64           `json:"from_account_id"`
	ToAccountID   int64           `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// SuggestTransfers proposes repayments that would settle the given balances:
// repeatedly match the most negative balance against the most positive one
// and transfer min(|most negative|, most positive). This is a greedy
// heuristic, not a minimum-transaction solver, and it is purely informational;
// it never creates ledger entries.
func SuggestTransfers(balances []domain.Balance) []Transfer {
	remaining := make([]domain.Balance, len(balances))
	copy(remaining, balances)

	var transfers []Transfer
	for {
		debtor, creditor := -1, -1
		for i, b := range remaining {
			if b.Amount.IsNegative() && (debtor == -1 || b.Amount.LessThan(remaining[debtor].Amount)) {
				debtor = i
			}
			if b.Amount.IsPositive() && (creditor == -1 || b.Amount.GreaterThan(remaining[creditor].Amount)) {
				creditor = i
			}
		}
		if debtor == -1 || creditor == -1 {
			return transfers
		}

		amount := decimal.Min(remaining[debtor].Amount.Neg(), remaining[creditor].Amount)
		transfers = append(transfers, Transfer{
			FromAccountID: remaining[debtor].AccountID,
			ToAccountID:   remaining[creditor].AccountID,
			Amount:        amount,
		})
		remaining[debtor].Amount = remaining[debtor].Amount.Add(amount)
		remaining[creditor].Amount = remaining[creditor].Amount.Sub(amount)
	}
}
