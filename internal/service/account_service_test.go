package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"share-ledger/internal/auth"
	"share-ledger/internal/domain"
	"share-ledger/internal/util"
	"share-ledger/pkg/db"
)

type accountServiceFixture struct {
	accountRepo *MockAccountRepository
	tx          *mockTx
	service     AccountService
}

func newAccountServiceFixture() *accountServiceFixture {
	f := &accountServiceFixture{
		accountRepo: new(MockAccountRepository),
		tx:          new(mockTx),
	}
	beginTx := func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
		return f.tx, nil
	}
	f.service = NewAccountService(
		nil,
		f.tx,
		f.accountRepo,
		auth.NewJWTManager("test-secret", time.Hour),
		beginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	return f
}

func TestRegisterDefaultsNicknameToUsername(t *testing.T) {
	f := newAccountServiceFixture()
	ctx := context.Background()

	f.accountRepo.On("GetAccountByUsername", ctx, f.tx, "alice").
		Return(nil, util.ErrNotFound)
	f.accountRepo.On("CreateAccount", ctx, f.tx, mock.AnythingOfType("*domain.Account")).
		Run(func(args mock.Arguments) {
			args.Get(2).(*domain.Account).ID = 1
		}).Return(nil)

	account, err := f.service.Register(ctx, "alice", "", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, int64(1), account.ID)
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, "alice", account.Nickname)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("s3cret")))
	assert.True(t, f.tx.committed)
}

func TestRegisterKeepsExplicitNickname(t *testing.T) {
	f := newAccountServiceFixture()
	ctx := context.Background()

	f.accountRepo.On("GetAccountByUsername", ctx, f.tx, "bob").
		Return(nil, util.ErrNotFound)
	f.accountRepo.On("CreateAccount", ctx, f.tx, mock.AnythingOfType("*domain.Account")).
		Return(nil)

	account, err := f.service.Register(ctx, "bob", "Bobby", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Bobby", account.Nickname)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	f := newAccountServiceFixture()
	ctx := context.Background()

	f.accountRepo.On("GetAccountByUsername", ctx, f.tx, "alice").
		Return(&domain.Account{ID: 1, Username: "alice"}, nil)

	_, err := f.service.Register(ctx, "alice", "", "s3cret")
	assert.ErrorIs(t, err, util.ErrDuplicateEntry)
	assert.False(t, f.tx.committed)
	f.accountRepo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterRejectsBlankCredentials(t *testing.T) {
	f := newAccountServiceFixture()

	_, err := f.service.Register(context.Background(), "", "nick", "s3cret")
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	_, err = f.service.Register(context.Background(), "alice", "", "")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestLoginIssuesToken(t *testing.T) {
	f := newAccountServiceFixture()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	f.accountRepo.On("GetAccountByUsername", ctx, f.tx, "alice").
		Return(&domain.Account{ID: 1, Username: "alice", PasswordHash: string(hash)}, nil)

	token, account, err := f.service.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, int64(1), account.ID)

	claims, err := auth.NewJWTManager("test-secret", time.Hour).Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.AccountID)
	assert.Equal(t, "alice", claims.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAccountServiceFixture()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	f.accountRepo.On("GetAccountByUsername", ctx, f.tx, "alice").
		Return(&domain.Account{ID: 1, Username: "alice", PasswordHash: string(hash)}, nil)

	_, _, err = f.service.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLoginUnknownUsername(t *testing.T) {
	f := newAccountServiceFixture()
	ctx := context.Background()

	f.accountRepo.On("GetAccountByUsername", ctx, f.tx, "ghost").
		Return(nil, util.ErrNotFound)

	_, _, err := f.service.Login(ctx, "ghost", "s3cret")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}
