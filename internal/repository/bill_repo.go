// internal/repository/bill_repo.go
package repository

import (
	"context"

	"share-ledger/internal/domain"
)

// BillRepository defines the interface for bill data operations.
type BillRepository interface {
	// CreateBill inserts the bill row and populates its ID. The conservation
	// invariant is deliberately NOT enforced here: entries cannot reference a
	// bill before it has a durable identity, so the provisional insert is the
	// bootstrap step of the commit pipeline.
	CreateBill(ctx context.Context, q DBExecutor, bill *domain.Bill) error
	// UpdateBill overwrites the mutable fields of an existing bill.
	UpdateBill(ctx context.Context, q DBExecutor, bill *domain.Bill) error
	// DeleteBill removes a bill; its entries go with it (cascade).
	DeleteBill(ctx context.Context, q DBExecutor, id int64) error
	// GetBillByID retrieves a bill by its ID.
	GetBillByID(ctx context.Context, q DBExecutor, id int64) (*domain.Bill, error)
	// ListBills returns a page of bills ordered by recency plus the total count.
	ListBills(ctx context.Context, q DBExecutor, limit, offset int) ([]domain.Bill, int64, error)
	// ListBillsByAccount returns the most recent bills the account has an
	// entry in.
	ListBillsByAccount(ctx context.Context, q DBExecutor, accountID int64, limit int) ([]domain.Bill, error)
	// ListAllBills returns every bill; used by the offline integrity audit.
	ListAllBills(ctx context.Context, q DBExecutor) ([]domain.Bill, error)
}
