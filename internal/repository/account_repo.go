// internal/repository/account_repo.go
package repository

import (
	"context"

	"share-ledger/internal/domain"
)

// AccountRepository defines the interface for account data operations.
type AccountRepository interface {
	// CreateAccount adds a new account using the provided DBExecutor.
	CreateAccount(ctx context.Context, q DBExecutor, account *domain.Account) error
	// GetAccountByID retrieves an account by its ID.
	GetAccountByID(ctx context.Context, q DBExecutor, id int64) (*domain.Account, error)
	// GetAccountByUsername retrieves an account by its unique username.
	GetAccountByUsername(ctx context.Context, q DBExecutor, username string) (*domain.Account, error)
	// ListAccounts returns all registered accounts ordered by nickname.
	ListAccounts(ctx context.Context, q DBExecutor) ([]domain.Account, error)
}
