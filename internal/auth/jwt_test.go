package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"share-ledger/internal/domain"
)

func TestGenerateAndValidate(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.Generate(&domain.Account{ID: 42, Username: "alice"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.AccountID)
	assert.Equal(t, "alice", claims.Username)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).
		Generate(&domain.Account{ID: 1, Username: "alice"})
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.Generate(&domain.Account{ID: 1, Username: "alice"})
	require.NoError(t, err)

	_, err = manager.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	_, err := manager.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = manager.Validate("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensCarryUniqueIDs(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	account := &domain.Account{ID: 1, Username: "alice"}

	first, err := manager.Generate(account)
	require.NoError(t, err)
	second, err := manager.Generate(account)
	require.NoError(t, err)

	a, err := manager.Validate(first)
	require.NoError(t, err)
	b, err := manager.Validate(second)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}
