// internal/service/balance_service.go
package service

import (
	"context"
	"fmt"

	"share-ledger/internal/domain"
	"share-ledger/internal/repository"
	"share-ledger/internal/split"
	"share-ledger/internal/util"
)

// IntegrityReport describes one bill that violates the conservation
// invariant, as found by the offline audit.
type IntegrityReport struct {
	Bill        domain.Bill     `json:"bill"`
	PositiveSum string          `json:"positive_sum"`
	TotalSum    string          `json:"total_sum"`
	Entries     []domain.Entry  `json:"entries"`
}

// BalanceService defines the interface for derived-balance reads and the
// ledger-wide integrity audit.
type BalanceService interface {
	Balance(ctx context.Context, accountID int64) (*domain.Balance, error)
	ListBalances(ctx context.Context) ([]domain.Balance, error)
	SuggestSettlements(ctx context.Context) ([]split.Transfer, error)
	CheckGlobalIntegrity(ctx context.Context) ([]IntegrityReport, error)
}

// balanceService implements the BalanceService interface. All operations are
// read-only, so they run on the plain connection, not a transaction.
type balanceService struct {
	dbExecutor  repository.DBExecutor
	accountRepo repository.AccountRepository
	billRepo    repository.BillRepository
	entryRepo   repository.EntryRepository
}

// NewBalanceService creates a new instance of BalanceService.
func NewBalanceService(
	dbExecutor repository.DBExecutor,
	accountRepo repository.AccountRepository,
	billRepo repository.BillRepository,
	entryRepo repository.EntryRepository,
) BalanceService {
	return &balanceService{
		dbExecutor:  dbExecutor,
		accountRepo: accountRepo,
		billRepo:    billRepo,
		entryRepo:   entryRepo,
	}
}

// Balance computes the account's balance on demand as the signed sum of its
// entries. Recomputing every time trades read cost for an eliminated class
// of stale-counter bugs.
func (s *balanceService) Balance(ctx context.Context, accountID int64) (*domain.Balance, error) {
	account, err := s.accountRepo.GetAccountByID(ctx, s.dbExecutor, accountID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrAccountNotFound
		}
		return nil, fmt.Errorf("balance: failed to resolve account %d: %w", accountID, err)
	}

	sum, err := s.entryRepo.SumByAccount(ctx, s.dbExecutor, accountID)
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}

	return &domain.Balance{AccountID: account.ID, Nickname: account.Nickname, Amount: sum}, nil
}

// ListBalances returns the derived balance of every account.
func (s *balanceService) ListBalances(ctx context.Context) ([]domain.Balance, error) {
	balances, err := s.entryRepo.ListBalances(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	return balances, nil
}

// SuggestSettlements proposes repayments that would bring everyone to zero.
// The suggestions are informational; nothing is written.
func (s *balanceService) SuggestSettlements(ctx context.Context) ([]split.Transfer, error) {
	balances, err := s.entryRepo.ListBalances(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("suggest settlements: %w", err)
	}
	return split.SuggestTransfers(balances), nil
}

// CheckGlobalIntegrity scans every bill against its entries and returns the
// ones violating the conservation invariant, e.g. after manual tampering.
// O(n) over the whole ledger; meant for offline audits, not the request path.
func (s *balanceService) CheckGlobalIntegrity(ctx context.Context) ([]IntegrityReport, error) {
	bills, err := s.billRepo.ListAllBills(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("integrity check: %w", err)
	}
	entries, err := s.entryRepo.ListAllEntries(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("integrity check: %w", err)
	}

	entriesByBill := make(map[int64][]domain.Entry, len(bills))
	for _, e := range entries {
		entriesByBill[e.BillID] = append(entriesByBill[e.BillID], e)
	}

	var reports []IntegrityReport
	for _, bill := range bills {
		billEntries := entriesByBill[bill.ID]
		if err := domain.CheckIntegrity(bill.Amount, billEntries); err != nil {
			reports = append(reports, IntegrityReport{
				Bill:        bill,
				PositiveSum: domain.SumPositiveEntries(billEntries).StringFixed(2),
				TotalSum:    domain.SumEntries(billEntries).StringFixed(2),
				Entries:     billEntries,
			})
		}
	}
	return reports, nil
}
