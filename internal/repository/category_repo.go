// internal/repository/category_repo.go
package repository

import (
	"context"

	"share-ledger/internal/domain"
)

// CategoryRepository defines the interface for category data operations.
type CategoryRepository interface {
	// CreateCategory adds a new category label.
	CreateCategory(ctx context.Context, q DBExecutor, category *domain.Category) error
	// ListCategories returns all categories ordered by name.
	ListCategories(ctx context.Context, q DBExecutor) ([]domain.Category, error)
	// GetCategoriesByBill returns the categories attached to a bill.
	GetCategoriesByBill(ctx context.Context, q DBExecutor, billID int64) ([]domain.Category, error)
	// SetBillCategories replaces the set of categories attached to a bill.
	SetBillCategories(ctx context.Context, q DBExecutor, billID int64, categoryIDs []int64) error
}
