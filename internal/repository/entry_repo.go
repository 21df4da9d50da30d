// internal/repository/entry_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"share-ledger/internal/domain"
)

// EntryRepository defines the interface for ledger entry data operations.
type EntryRepository interface {
	// CreateEntry inserts a single entry and populates its ID.
	CreateEntry(ctx context.Context, q DBExecutor, entry *domain.Entry) error
	// DeleteEntriesByBill removes every entry owned by the bill; used when a
	// bill is re-split or deleted.
	DeleteEntriesByBill(ctx context.Context, q DBExecutor, billID int64) error
	// ListEntriesByBill returns the entries owned by a bill.
	ListEntriesByBill(ctx context.Context, q DBExecutor, billID int64) ([]domain.Entry, error)
	// ListAllEntries returns every entry; used by the offline integrity audit.
	ListAllEntries(ctx context.Context, q DBExecutor) ([]domain.Entry, error)
	// SumByAccount computes the account's derived balance: the signed sum of
	// all its entries. Never cached or stored.
	SumByAccount(ctx context.Context, q DBExecutor, accountID int64) (decimal.Decimal, error)
	// ListBalances computes the derived balance of every account.
	ListBalances(ctx context.Context, q DBExecutor) ([]domain.Balance, error)
}
