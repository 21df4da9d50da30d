// internal/service/bill_service.go
package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"share-ledger/internal/domain"
	"share-ledger/internal/repository"
	"share-ledger/internal/split"
	"share-ledger/internal/util"
	"share-ledger/pkg/db"
)

const (
	// GlobalHistoryPageSize is the page size of the global bill history.
	GlobalHistoryPageSize = 10
	// AccountHistoryLimit is how many recent bills an account's history shows.
	AccountHistoryLimit = 20
)

// BillInput carries the already-type-checked fields for creating or editing a
// bill. Raw request parsing happens at the API boundary, not here.
type BillInput struct {
	Title          string
	Description    string
	Amount         decimal.Decimal
	BuyerID        int64
	ParticipantIDs []int64
	CategoryIDs    []int64
}

// BillService defines the interface for bill-related business logic.
type BillService interface {
	CreateBill(ctx context.Context, creatorID int64, input BillInput) (*domain.Bill, []domain.Entry, error)
	CreateRepayment(ctx context.Context, creatorID, buyerID, receiverID int64, amount decimal.Decimal) (*domain.Bill, []domain.Entry, error)
	EditBill(ctx context.Context, billID int64, input BillInput) (*domain.Bill, []domain.Entry, error)
	DeleteBill(ctx context.Context, billID int64) error
	GetBill(ctx context.Context, billID int64) (*domain.Bill, []domain.Entry, error)
	ListBills(ctx context.Context, limit, offset int) ([]domain.Bill, int64, error)
	ListBillsByAccount(ctx context.Context, accountID int64) ([]domain.Bill, error)
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// billService implements the BillService interface.
type billService struct {
	dbBeginner   db.DBTxBeginner
	dbExecutor   repository.DBExecutor
	accountRepo  repository.AccountRepository
	billRepo     repository.BillRepository
	entryRepo    repository.EntryRepository
	categoryRepo repository.CategoryRepository
	allocator    *split.Allocator
	beginTx      db.BeginTxFunc
	commitTx     db.CommitTxFunc
	rollbackTx   db.RollbackTxFunc
}

// NewBillService creates a new instance of BillService.
func NewBillService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	accountRepo repository.AccountRepository,
	billRepo repository.BillRepository,
	entryRepo repository.EntryRepository,
	categoryRepo repository.CategoryRepository,
	allocator *split.Allocator,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) BillService {
	return &billService{
		dbBeginner:   dbBeginner,
		dbExecutor:   dbExecutor,
		accountRepo:  accountRepo,
		billRepo:     billRepo,
		entryRepo:    entryRepo,
		categoryRepo: categoryRepo,
		allocator:    allocator,
		beginTx:      beginTx,
		commitTx:     commitTx,
		rollbackTx:   rollbackTx,
	}
}

// withBillTx runs body inside one database transaction and guarantees
// commit-or-discard on every exit path: if body fails, nothing it did is
// persisted, including the provisional bill row and any entries already
// created. This is what lets the commit pipeline defer the integrity check
// until entries exist without ever leaving a half-built bill behind.
func (s *billService) withBillTx(ctx context.Context, body func(q repository.DBExecutor) error) error {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("transaction controller does not implement DBExecutor")
	}

	if err := body(txExecutor); err != nil {
		return err
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CreateBill records a shared expense: the bill row is persisted
// provisionally, the allocator splits the amount across the participants,
// one entry is created per share plus a positive one for the buyer, the
// stored amount is reconciled from the positive entries, and the
// conservation invariant is re-checked before the transaction commits.
func (s *billService) CreateBill(ctx context.Context, creatorID int64, input BillInput) (*domain.Bill, []domain.Entry, error) {
	if input.Title == "" {
		return nil, nil, util.ErrInvalidInput
	}

	bill := domain.NewBill(creatorID, input.Title, input.Description, input.Amount, false)
	var entries []domain.Entry

	err := s.withBillTx(ctx, func(q repository.DBExecutor) error {
		if _, err := s.accountRepo.GetAccountByID(ctx, q, input.BuyerID); err != nil {
			if util.IsError(err, util.ErrNotFound) {
				return util.ErrAccountNotFound
			}
			return fmt.Errorf("create bill: failed to resolve buyer %d: %w", input.BuyerID, err)
		}

		allocations, err := s.allocator.Allocate(input.Amount, input.ParticipantIDs)
		if err != nil {
			return err
		}

		if err := s.billRepo.CreateBill(ctx, q, bill); err != nil {
			return fmt.Errorf("create bill: %w", err)
		}

		entries, err = s.materializeEntries(ctx, q, bill,
			domain.BuildEntries(bill.ID, input.BuyerID, input.Amount, allocations))
		if err != nil {
			return err
		}

		if err := s.categoryRepo.SetBillCategories(ctx, q, bill.ID, input.CategoryIDs); err != nil {
			return fmt.Errorf("create bill: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return bill, entries, nil
}

// CreateRepayment records a direct settlement between two accounts: exactly
// one positive entry for the payer and one negative entry for the receiver.
func (s *billService) CreateRepayment(ctx context.Context, creatorID, buyerID, receiverID int64, amount decimal.Decimal) (*domain.Bill, []domain.Entry, error) {
	if buyerID == receiverID {
		return nil, nil, util.ErrSelfRepayment
	}
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return nil, nil, util.ErrInvalidAmount
	}

	title := fmt.Sprintf("Repayment: %s", amount.StringFixed(2))
	bill := domain.NewBill(creatorID, title, "", amount, true)
	var entries []domain.Entry

	err := s.withBillTx(ctx, func(q repository.DBExecutor) error {
		for _, id := range []int64{buyerID, receiverID} {
			if _, err := s.accountRepo.GetAccountByID(ctx, q, id); err != nil {
				if util.IsError(err, util.ErrNotFound) {
					return util.ErrAccountNotFound
				}
				return fmt.Errorf("create repayment: failed to resolve account %d: %w", id, err)
			}
		}

		if err := s.billRepo.CreateBill(ctx, q, bill); err != nil {
			return fmt.Errorf("create repayment: %w", err)
		}

		var err error
		entries, err = s.materializeEntries(ctx, q, bill,
			domain.BuildRepaymentEntries(bill.ID, buyerID, receiverID, amount))
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return bill, entries, nil
}

// EditBill re-splits an existing bill as an atomic replace: all old entries
// are deleted and the new set committed, or nothing changes. The repayment
// flag is immutable, so a repayment cannot be edited into a regular bill.
func (s *billService) EditBill(ctx context.Context, billID int64, input BillInput) (*domain.Bill, []domain.Entry, error) {
	if input.Title == "" {
		return nil, nil, util.ErrInvalidInput
	}

	var bill *domain.Bill
	var entries []domain.Entry

	err := s.withBillTx(ctx, func(q repository.DBExecutor) error {
		var err error
		bill, err = s.billRepo.GetBillByID(ctx, q, billID)
		if err != nil {
			if util.IsError(err, util.ErrNotFound) {
				return util.ErrBillNotFound
			}
			return fmt.Errorf("edit bill: %w", err)
		}
		if bill.Repayment {
			return util.ErrInvalidInput
		}

		allocations, err := s.allocator.Allocate(input.Amount, input.ParticipantIDs)
		if err != nil {
			return err
		}

		if err := s.entryRepo.DeleteEntriesByBill(ctx, q, billID); err != nil {
			return fmt.Errorf("edit bill: %w", err)
		}

		bill.Title = input.Title
		bill.Description = input.Description
		bill.Amount = input.Amount

		entries, err = s.materializeEntries(ctx, q, bill,
			domain.BuildEntries(billID, input.BuyerID, input.Amount, allocations))
		if err != nil {
			return err
		}

		if err := s.categoryRepo.SetBillCategories(ctx, q, billID, input.CategoryIDs); err != nil {
			return fmt.Errorf("edit bill: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return bill, entries, nil
}

// materializeEntries persists the entry set, reconciles the bill amount from
// the positive entries and enforces the conservation invariant. The caller's
// transaction discards everything on failure.
func (s *billService) materializeEntries(ctx context.Context, q repository.DBExecutor, bill *domain.Bill, entries []domain.Entry) ([]domain.Entry, error) {
	for i := range entries {
		if err := s.entryRepo.CreateEntry(ctx, q, &entries[i]); err != nil {
			return nil, fmt.Errorf("failed to materialize entries for bill %d: %w", bill.ID, err)
		}
	}

	// Reconcile: the stored amount is whatever the positive entries say,
	// defending against entries created with drifted values.
	bill.Amount = domain.SumPositiveEntries(entries)

	if err := domain.CheckIntegrity(bill.Amount, entries); err != nil {
		return nil, err
	}

	if err := s.billRepo.UpdateBill(ctx, q, bill); err != nil {
		return nil, fmt.Errorf("failed to reconcile bill %d: %w", bill.ID, err)
	}
	return entries, nil
}

// DeleteBill removes a bill and all its entries.
func (s *billService) DeleteBill(ctx context.Context, billID int64) error {
	return s.withBillTx(ctx, func(q repository.DBExecutor) error {
		if err := s.billRepo.DeleteBill(ctx, q, billID); err != nil {
			if util.IsError(err, util.ErrBillNotFound) {
				return util.ErrBillNotFound
			}
			return fmt.Errorf("delete bill: %w", err)
		}
		return nil
	})
}

// GetBill returns a bill together with its entries and categories.
func (s *billService) GetBill(ctx context.Context, billID int64) (*domain.Bill, []domain.Entry, error) {
	bill, err := s.billRepo.GetBillByID(ctx, s.dbExecutor, billID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, nil, util.ErrBillNotFound
		}
		return nil, nil, fmt.Errorf("get bill: %w", err)
	}

	entries, err := s.entryRepo.ListEntriesByBill(ctx, s.dbExecutor, billID)
	if err != nil {
		return nil, nil, fmt.Errorf("get bill: %w", err)
	}

	categories, err := s.categoryRepo.GetCategoriesByBill(ctx, s.dbExecutor, billID)
	if err != nil {
		return nil, nil, fmt.Errorf("get bill: %w", err)
	}
	bill.Categories = categories

	return bill, entries, nil
}

// ListBills returns a page of the global bill history plus the total count.
func (s *billService) ListBills(ctx context.Context, limit, offset int) ([]domain.Bill, int64, error) {
	if limit <= 0 || limit > GlobalHistoryPageSize {
		limit = GlobalHistoryPageSize
	}
	if offset < 0 {
		offset = 0
	}
	bills, totalCount, err := s.billRepo.ListBills(ctx, s.dbExecutor, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list bills: %w", err)
	}
	return bills, totalCount, nil
}

// ListBillsByAccount returns the account's recent bill history.
func (s *billService) ListBillsByAccount(ctx context.Context, accountID int64) ([]domain.Bill, error) {
	if _, err := s.accountRepo.GetAccountByID(ctx, s.dbExecutor, accountID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrAccountNotFound
		}
		return nil, fmt.Errorf("list bills by account: %w", err)
	}
	bills, err := s.billRepo.ListBillsByAccount(ctx, s.dbExecutor, accountID, AccountHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list bills by account: %w", err)
	}
	return bills, nil
}

// CreateCategory adds a new free-standing category label.
func (s *billService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	if name == "" {
		return nil, util.ErrInvalidInput
	}
	category := &domain.Category{Name: name}
	if err := s.categoryRepo.CreateCategory(ctx, s.dbExecutor, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// ListCategories returns all category labels.
func (s *billService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
