// internal/repository/postgres/bill_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"share-ledger/internal/domain"
	"share-ledger/internal/repository"
	"share-ledger/internal/util"
)

// BillRepository implements repository.BillRepository for PostgreSQL.
type BillRepository struct{}

// NewBillRepository creates a new BillRepository.
func NewBillRepository(db *sqlx.DB) repository.BillRepository {
	return &BillRepository{}
}

// CreateBill inserts the bill row and populates its ID. No integrity
// enforcement happens here; entries need the generated ID first.
func (r *BillRepository) CreateBill(ctx context.Context, q repository.DBExecutor, bill *domain.Bill) error {
	query := `INSERT INTO bills (creator_id, amount, title, description, repayment, created_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		bill.CreatorID, bill.Amount, bill.Title, bill.Description, bill.Repayment, bill.CreatedAt,
	).Scan(&bill.ID)
	if err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return nil
}

// UpdateBill overwrites the mutable fields of an existing bill. The repayment
// flag and creation timestamp are immutable and deliberately left out.
func (r *BillRepository) UpdateBill(ctx context.Context, q repository.DBExecutor, bill *domain.Bill) error {
	query := `UPDATE bills SET amount = $1, title = $2, description = $3 WHERE id = $4`
	result, err := q.ExecContext(ctx, query, bill.Amount, bill.Title, bill.Description, bill.ID)
	if err != nil {
		return fmt.Errorf("failed to update bill %d: %w", bill.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating bill %d: %w", bill.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrBillNotFound
	}
	return nil
}

// DeleteBill removes a bill. Entries and category links go with it via
// ON DELETE CASCADE.
func (r *BillRepository) DeleteBill(ctx context.Context, q repository.DBExecutor, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bill %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after deleting bill %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrBillNotFound
	}
	return nil
}

// GetBillByID retrieves a bill by its ID using the provided DBExecutor.
func (r *BillRepository) GetBillByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Bill, error) {
	var bill domain.Bill
	query := `SELECT id, creator_id, amount, title, description, repayment, created_at FROM bills WHERE id = $1`
	err := q.GetContext(ctx, &bill, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bill by ID %d: %w", id, err)
	}
	return &bill, nil
}

// ListBills returns a page of bills ordered by recency plus the total count.
func (r *BillRepository) ListBills(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.Bill, int64, error) {
	bills := []domain.Bill{}
	query := `
		SELECT id, creator_id, amount, title, description, repayment, created_at
		FROM bills
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	if err := q.SelectContext(ctx, &bills, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list bills: %w", err)
	}

	var totalCount int64
	if err := q.GetContext(ctx, &totalCount, `SELECT COUNT(*) FROM bills`); err != nil {
		return nil, 0, fmt.Errorf("failed to count bills: %w", err)
	}

	return bills, totalCount, nil
}

// ListBillsByAccount returns the most recent bills the account participates
// in, i.e. bills it owns an entry of.
func (r *BillRepository) ListBillsByAccount(ctx context.Context, q repository.DBExecutor, accountID int64, limit int) ([]domain.Bill, error) {
	bills := []domain.Bill{}
	query := `
		SELECT DISTINCT b.id, b.creator_id, b.amount, b.title, b.description, b.repayment, b.created_at
		FROM bills b
		JOIN entries e ON e.bill_id = b.id
		WHERE e.account_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2`
	if err := q.SelectContext(ctx, &bills, query, accountID, limit); err != nil {
		return nil, fmt.Errorf("failed to list bills for account %d: %w", accountID, err)
	}
	return bills, nil
}

// ListAllBills returns every bill, ordered by ID for stable audits.
func (r *BillRepository) ListAllBills(ctx context.Context, q repository.DBExecutor) ([]domain.Bill, error) {
	bills := []domain.Bill{}
	query := `SELECT id, creator_id, amount, title, description, repayment, created_at FROM bills ORDER BY id`
	if err := q.SelectContext(ctx, &bills, query); err != nil {
		return nil, fmt.Errorf("failed to list all bills: %w", err)
	}
	return bills, nil
}
