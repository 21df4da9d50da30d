package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"share-ledger/internal/util"
)

func TestCompareBalanceAgainstBalance(t *testing.T) {
	a := Balance{AccountID: 1, Amount: dec("3.33")}
	b := Balance{AccountID: 2, Amount: dec("-1.50")}

	got, err := CompareBalance(a, b)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = CompareBalance(b, a)
	require.NoError(t, err)
	assert.Equal(t, -1, got)

	got, err = CompareBalance(a, Balance{AccountID: 3, Amount: dec("3.33")})
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestCompareBalanceAgainstNumbers(t *testing.T) {
	b := Balance{AccountID: 1, Amount: dec("3.33")}

	got, err := CompareBalance(b, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = CompareBalance(b, int64(4))
	require.NoError(t, err)
	assert.Equal(t, -1, got)

	got, err = CompareBalance(b, decimal.RequireFromString("3.33"))
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestCompareBalanceRejectsIncompatibleTypes(t *testing.T) {
	b := Balance{AccountID: 1, Amount: dec("3.33")}

	_, err := CompareBalance(b, "3.33")
	assert.ErrorIs(t, err, util.ErrIncomparableType)

	_, err = CompareBalance(b, 3.33)
	assert.ErrorIs(t, err, util.ErrIncomparableType)

	_, err = CompareBalance(b, nil)
	assert.ErrorIs(t, err, util.ErrIncomparableType)
}
