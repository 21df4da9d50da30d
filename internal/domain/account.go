// internal/domain/account.go
package domain

import "time"

// Account represents a registered participant in the ledger.
// An account's balance is never stored; it is always derived as the sum of
// the account's ledger entries (see EntryRepository.SumByAccount).
type Account struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`   // Unique login name
	Nickname     string    `db:"nickname" json:"nickname"`   // Display name shown on bills
	PasswordHash string    `db:"password_hash" json:"-"`     // bcrypt hash, never serialized
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// NewAccount creates a new Account instance. A blank nickname defaults to the
// username.
func NewAccount(username, nickname, passwordHash string) *Account {
	if nickname == "" {
		nickname = username
	}
	now := time.Now().UTC()
	return &Account{
		Username:     username,
		Nickname:     nickname,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
