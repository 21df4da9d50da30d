// internal/repository/postgres/account_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"share-ledger/internal/domain"
	"share-ledger/internal/repository"
	"share-ledger/internal/util"
)

// AccountRepository implements repository.AccountRepository for PostgreSQL.
type AccountRepository struct{}

// NewAccountRepository creates a new AccountRepository. Methods receive the
// DBExecutor directly, so the connection is not stored.
func NewAccountRepository(db *sqlx.DB) repository.AccountRepository {
	return &AccountRepository{}
}

// CreateAccount inserts a new account using the provided DBExecutor.
func (r *AccountRepository) CreateAccount(ctx context.Context, q repository.DBExecutor, account *domain.Account) error {
	query := `INSERT INTO accounts (username, nickname, password_hash, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		account.Username, account.Nickname, account.PasswordHash, account.CreatedAt, account.UpdatedAt,
	).Scan(&account.ID)
	if err != nil {
		var pqErr *pq.Error
		if util.AsError(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return util.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccountByID retrieves an account by its ID using the provided DBExecutor.
func (r *AccountRepository) GetAccountByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT id, username, nickname, password_hash, created_at, updated_at FROM accounts WHERE id = $1`
	err := q.GetContext(ctx, &account, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID %d: %w", id, err)
	}
	return &account, nil
}

// GetAccountByUsername retrieves an account by its username using the provided DBExecutor.
func (r *AccountRepository) GetAccountByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT id, username, nickname, password_hash, created_at, updated_at FROM accounts WHERE username = $1`
	err := q.GetContext(ctx, &account, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by username %s: %w", username, err)
	}
	return &account, nil
}

// ListAccounts returns all registered accounts ordered by nickname.
func (r *AccountRepository) ListAccounts(ctx context.Context, q repository.DBExecutor) ([]domain.Account, error) {
	accounts := []domain.Account{}
	query := `SELECT id, username, nickname, password_hash, created_at, updated_at FROM accounts ORDER BY nickname`
	if err := q.SelectContext(ctx, &accounts, query); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}
