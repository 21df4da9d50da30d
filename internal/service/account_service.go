// internal/service/account_service.go
package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"share-ledger/internal/auth"
	"share-ledger/internal/domain"
	"share-ledger/internal/repository"
	"share-ledger/internal/util"
	"share-ledger/pkg/db"
)

// AccountService defines the interface for account registration and login.
type AccountService interface {
	Register(ctx context.Context, username, nickname, password string) (*domain.Account, error)
	Login(ctx context.Context, username, password string) (string, *domain.Account, error)
	GetAccount(ctx context.Context, accountID int64) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// accountService implements the AccountService interface.
type accountService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	accountRepo repository.AccountRepository
	jwtManager  *auth.JWTManager
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
}

// NewAccountService creates a new instance of AccountService.
func NewAccountService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	accountRepo repository.AccountRepository,
	jwtManager *auth.JWTManager,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) AccountService {
	return &accountService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		accountRepo: accountRepo,
		jwtManager:  jwtManager,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

// Register creates a new account. A blank nickname defaults to the username.
func (s *accountService) Register(ctx context.Context, username, nickname, password string) (*domain.Account, error) {
	if username == "" || password == "" {
		return nil, util.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: failed to hash password: %w", err)
	}

	account := domain.NewAccount(username, nickname, string(hash))

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("register: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("register: transaction controller does not implement DBExecutor")
	}

	_, err = s.accountRepo.GetAccountByUsername(ctx, txExecutor, username)
	if err == nil {
		return nil, util.ErrDuplicateEntry
	}
	if !util.IsError(err, util.ErrNotFound) {
		return nil, fmt.Errorf("register: failed to check existing account: %w", err)
	}

	if err := s.accountRepo.CreateAccount(ctx, txExecutor, account); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("register: failed to commit transaction: %w", err)
	}
	return account, nil
}

// Login verifies the credentials and returns a bearer token for the account.
func (s *accountService) Login(ctx context.Context, username, password string) (string, *domain.Account, error) {
	account, err := s.accountRepo.GetAccountByUsername(ctx, s.dbExecutor, username)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return "", nil, util.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := s.jwtManager.Generate(account)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	return token, account, nil
}

// GetAccount retrieves a single account by ID.
func (s *accountService) GetAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	account, err := s.accountRepo.GetAccountByID(ctx, s.dbExecutor, accountID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

// ListAccounts returns all registered accounts.
func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}
