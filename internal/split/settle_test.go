package split

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"share-ledger/internal/domain"
)

func balance(accountID int64, amount string) domain.Balance {
	return domain.Balance{AccountID: accountID, Amount: decimal.RequireFromString(amount)}
}

func TestSuggestTransfersTwoParties(t *testing.T) {
	transfers := SuggestTransfers([]domain.Balance{
		balance(1, "3.33"),
		balance(2, "-3.33"),
	})

	require.Len(t, transfers, 1)
	assert.Equal(t, int64(2), transfers[0].FromAccountID)
	assert.Equal(t, int64(1), transfers[0].ToAccountID)
	assert.True(t, transfers[0].Amount.Equal(decimal.RequireFromString("3.33")))
}

func TestSuggestTransfersGreedyMatching(t *testing.T) {
	transfers := SuggestTransfers([]domain.Balance{
		balance(1, "10.00"),
		balance(2, "-4.00"),
		balance(3, "-6.00"),
	})

	// Largest debtor settles first against the largest creditor.
	require.Len(t, transfers, 2)
	assert.Equal(t, int64(3), transfers[0].FromAccountID)
	assert.Equal(t, int64(1), transfers[0].ToAccountID)
	assert.True(t, transfers[0].Amount.Equal(decimal.RequireFromString("6.00")))

	assert.Equal(t, int64(2), transfers[1].FromAccountID)
	assert.Equal(t, int64(1), transfers[1].ToAccountID)
	assert.True(t, transfers[1].Amount.Equal(decimal.RequireFromString("4.00")))
}

func TestSuggestTransfersSettlesEverything(t *testing.T) {
	balances := []domain.Balance{
		balance(1, "7.50"),
		balance(2, "-2.25"),
		balance(3, "-1.75"),
		balance(4, "-3.50"),
		balance(5, "0.00"),
	}

	transfers := SuggestTransfers(balances)

	// Applying the suggestions must zero every balance.
	net := make(map[int64]decimal.Decimal)
	for _, b := range balances {
		net[b.AccountID] = b.Amount
	}
	for _, tr := range transfers {
		net[tr.FromAccountID] = net[tr.FromAccountID].Add(tr.Amount)
		net[tr.ToAccountID] = net[tr.ToAccountID].Sub(tr.Amount)
	}
	for accountID, amount := range net {
		assert.True(t, amount.IsZero(), "account %d left with %s", accountID, amount)
	}
}

func TestSuggestTransfersNothingToSettle(t *testing.T) {
	assert.Empty(t, SuggestTransfers(nil))
	assert.Empty(t, SuggestTransfers([]domain.Balance{balance(1, "0.00")}))
	// A creditor with no matching debtor yields no proposals.
	assert.Empty(t, SuggestTransfers([]domain.Balance{balance(1, "5.00")}))
}
