// internal/domain/balance.go
package domain

import (
	"github.com/shopspring/decimal"

	"share-ledger/internal/util"
)

// Balance is the derived signed sum of an account's ledger entries.
// Positive means the account is owed money overall.
type Balance struct {
	AccountID int64           `db:"account_id" json:"account_id"`
	Nickname  string          `db:"nickname" json:"nickname"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
}

// CompareBalance compares a balance against another balance or a plain
// number. It returns -1, 0 or +1 in the usual ordering sense. Comparing
// against any other type is an error, not a silent false.
func CompareBalance(b Balance, other any) (int, error) {
	switch v := other.(type) {
	case Balance:
		return b.Amount.Cmp(v.Amount), nil
	case decimal.Decimal:
		return b.Amount.Cmp(v), nil
	case int:
		return b.Amount.Cmp(decimal.NewFromInt(int64(v))), nil
	case int64:
		return b.Amount.Cmp(decimal.NewFromInt(v)), nil
	default:
		return 0, util.ErrIncomparableType
	}
}
