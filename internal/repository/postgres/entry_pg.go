// internal/repository/postgres/entry_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"share-ledger/internal/domain"
	"share-ledger/internal/repository"
)

// EntryRepository implements repository.EntryRepository for PostgreSQL.
type EntryRepository struct{}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db *sqlx.DB) repository.EntryRepository {
	return &EntryRepository{}
}

// CreateEntry inserts a single ledger entry and populates its ID.
func (r *EntryRepository) CreateEntry(ctx context.Context, q repository.DBExecutor, entry *domain.Entry) error {
	query := `INSERT INTO entries (account_id, bill_id, amount, created_at)
              VALUES ($1, $2, $3, $4) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		entry.AccountID, entry.BillID, entry.Amount, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	return nil
}

// DeleteEntriesByBill removes every entry owned by the bill.
func (r *EntryRepository) DeleteEntriesByBill(ctx context.Context, q repository.DBExecutor, billID int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM entries WHERE bill_id = $1`, billID); err != nil {
		return fmt.Errorf("failed to delete entries for bill %d: %w", billID, err)
	}
	return nil
}

// ListEntriesByBill returns the entries owned by a bill, positive first so
// buyers come before participants in views.
func (r *EntryRepository) ListEntriesByBill(ctx context.Context, q repository.DBExecutor, billID int64) ([]domain.Entry, error) {
	entries := []domain.Entry{}
	query := `
		SELECT id, account_id, bill_id, amount, created_at
		FROM entries
		WHERE bill_id = $1
		ORDER BY amount DESC, id`
	if err := q.SelectContext(ctx, &entries, query, billID); err != nil {
		return nil, fmt.Errorf("failed to list entries for bill %d: %w", billID, err)
	}
	return entries, nil
}

// ListAllEntries returns every entry ordered by bill so the integrity audit
// can group them in a single pass.
func (r *EntryRepository) ListAllEntries(ctx context.Context, q repository.DBExecutor) ([]domain.Entry, error) {
	entries := []domain.Entry{}
	query := `SELECT id, account_id, bill_id, amount, created_at FROM entries ORDER BY bill_id, id`
	if err := q.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("failed to list all entries: %w", err)
	}
	return entries, nil
}

// SumByAccount computes the account's derived balance as the signed sum of
// all its entries. There is no stored balance column to drift from this.
func (r *EntryRepository) SumByAccount(ctx context.Context, q repository.DBExecutor, accountID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM entries WHERE account_id = $1`
	if err := q.GetContext(ctx, &sum, query, accountID); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum entries for account %d: %w", accountID, err)
	}
	return sum, nil
}

// ListBalances computes the derived balance of every account, including
// accounts with no entries.
func (r *EntryRepository) ListBalances(ctx context.Context, q repository.DBExecutor) ([]domain.Balance, error) {
	balances := []domain.Balance{}
	query := `
		SELECT a.id AS account_id, a.nickname, COALESCE(SUM(e.amount), 0) AS amount
		FROM accounts a
		LEFT JOIN entries e ON e.account_id = a.id
		GROUP BY a.id, a.nickname
		ORDER BY amount`
	if err := q.SelectContext(ctx, &balances, query); err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	return balances, nil
}
