// internal/repository/postgres/category_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"share-ledger/internal/domain"
	"share-ledger/internal/repository"
	"share-ledger/internal/util"
)

// CategoryRepository implements repository.CategoryRepository for PostgreSQL.
type CategoryRepository struct{}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) repository.CategoryRepository {
	return &CategoryRepository{}
}

// CreateCategory adds a new category label.
func (r *CategoryRepository) CreateCategory(ctx context.Context, q repository.DBExecutor, category *domain.Category) error {
	query := `INSERT INTO categories (name) VALUES ($1) RETURNING id`
	err := q.QueryRowContext(ctx, query, category.Name).Scan(&category.ID)
	if err != nil {
		var pqErr *pq.Error
		if util.AsError(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return util.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// ListCategories returns all categories ordered by name.
func (r *CategoryRepository) ListCategories(ctx context.Context, q repository.DBExecutor) ([]domain.Category, error) {
	categories := []domain.Category{}
	if err := q.SelectContext(ctx, &categories, `SELECT id, name FROM categories ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetCategoriesByBill returns the categories attached to a bill.
func (r *CategoryRepository) GetCategoriesByBill(ctx context.Context, q repository.DBExecutor, billID int64) ([]domain.Category, error) {
	categories := []domain.Category{}
	query := `
		SELECT c.id, c.name
		FROM categories c
		JOIN bill_categories bc ON bc.category_id = c.id
		WHERE bc.bill_id = $1
		ORDER BY c.name`
	if err := q.SelectContext(ctx, &categories, query, billID); err != nil {
		return nil, fmt.Errorf("failed to get categories for bill %d: %w", billID, err)
	}
	return categories, nil
}

// SetBillCategories replaces the set of categories attached to a bill.
func (r *CategoryRepository) SetBillCategories(ctx context.Context, q repository.DBExecutor, billID int64, categoryIDs []int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM bill_categories WHERE bill_id = $1`, billID); err != nil {
		return fmt.Errorf("failed to clear categories for bill %d: %w", billID, err)
	}
	for _, categoryID := range categoryIDs {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO bill_categories (bill_id, category_id) VALUES ($1, $2)`,
			billID, categoryID,
		); err != nil {
			return fmt.Errorf("failed to attach category %d to bill %d: %w", categoryID, billID, err)
		}
	}
	return nil
}
