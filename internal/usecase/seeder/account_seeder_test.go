package seeder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/simplebanking-backend/internal/adapter/repository/memory"
	"github.com/simaogato/simplebanking-backend/internal/domain"
	"github.com/simaogato/simplebanking-backend/internal/usecase/banking"
)

// MockBanking is a mock implementation of Banking
type MockBanking struct {
	mock.Mock
}

func (m *MockBanking) FindAccount(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockBanking) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockBanking) GetAccount(ctx context.Context, account *domain.Account) (*banking.AccountSummary, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.AccountSummary), args.Error(1)
}

func (m *MockBanking) Credit(ctx context.Context, account *domain.Account, tx *domain.Transaction) (*domain.Transaction, error) {
	args := m.Called(ctx, account, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

const fixtureYAML = `
accounts:
  - owner: Kerem Karaca
    accountNumber: "17892"
    deposit: 100.50
  - owner: Demet Demircan
    accountNumber: "9834"
`

func TestParseFixture(t *testing.T) {
	fixture, err := ParseFixture(strings.NewReader(fixtureYAML))

	require.NoError(t, err)
	require.Len(t, fixture.Accounts, 2)
	assert.Equal(t, "Kerem Karaca", fixture.Accounts[0].Owner)
	assert.Equal(t, "17892", fixture.Accounts[0].AccountNumber)

	deposit, err := fixture.Accounts[0].OpeningDeposit()
	require.NoError(t, err)
	assert.True(t, deposit.Equal(decimal.RequireFromString("100.50")))

	deposit, err = fixture.Accounts[1].OpeningDeposit()
	require.NoError(t, err)
	assert.True(t, deposit.IsZero())
}

func TestParseFixture_Errors(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expectedErr string
	}{
		{
			name:        "Negative deposit",
			content:     "accounts:\n  - owner: A\n    accountNumber: \"1\"\n    deposit: -5\n",
			expectedErr: "invalid amount",
		},
		{
			name:        "Malformed deposit",
			content:     "accounts:\n  - owner: A\n    accountNumber: \"1\"\n    deposit: lots\n",
			expectedErr: "invalid deposit",
		},
		{
			name:        "Malformed YAML",
			content:     "accounts: [",
			expectedErr: "failed to decode fixture",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixture(strings.NewReader(tt.content))
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestParseFixture_Empty(t *testing.T) {
	fixture, err := ParseFixture(strings.NewReader(""))

	require.NoError(t, err)
	assert.Empty(t, fixture.Accounts)
}

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureYAML), 0o600))

	fixture, err := LoadFixture(path)
	require.NoError(t, err)
	assert.Len(t, fixture.Accounts, 2)

	_, err = LoadFixture(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open fixture")
}

func TestAccountSeeder_Seed_AccountsMissing(t *testing.T) {
	ctx := context.Background()
	mockBanking := new(MockBanking)
	logger, _ := logtest.NewNullLogger()
	fixture, err := ParseFixture(strings.NewReader(fixtureYAML))
	require.NoError(t, err)
	seeder := NewAccountSeeder(mockBanking, fixture, logger)

	kerem := &domain.Account{ID: uuid.New(), Owner: "Kerem Karaca", AccountNumber: "17892"}
	demet := &domain.Account{ID: uuid.New(), Owner: "Demet Demircan", AccountNumber: "9834"}

	mockBanking.On("FindAccount", ctx, "17892").Return(nil, domain.ErrAccountNotFound)
	mockBanking.On("FindAccount", ctx, "9834").Return(nil, domain.ErrAccountNotFound)
	mockBanking.On("CreateAccount", ctx, mock.MatchedBy(func(a *domain.Account) bool {
		return a.AccountNumber == "17892" && a.Owner == "Kerem Karaca"
	})).Return(kerem, nil)
	mockBanking.On("CreateAccount", ctx, mock.MatchedBy(func(a *domain.Account) bool {
		return a.AccountNumber == "9834" && a.Owner == "Demet Demircan"
	})).Return(demet, nil)
	mockBanking.On("Credit", ctx, kerem, mock.MatchedBy(func(tx *domain.Transaction) bool {
		return tx.Kind == domain.KindDeposit && tx.Amount.Equal(decimal.RequireFromString("100.50"))
	})).Return(&domain.Transaction{}, nil)

	created, err := seeder.Seed(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 2, created)
	mockBanking.AssertExpectations(t)
	// No deposit for the second account
	mockBanking.AssertNumberOfCalls(t, "Credit", 1)
}

func TestAccountSeeder_Seed_AccountsExist(t *testing.T) {
	ctx := context.Background()
	mockBanking := new(MockBanking)
	logger, _ := logtest.NewNullLogger()
	fixture, err := ParseFixture(strings.NewReader(fixtureYAML))
	require.NoError(t, err)
	seeder := NewAccountSeeder(mockBanking, fixture, logger)

	kerem := &domain.Account{AccountNumber: "17892"}
	mockBanking.On("FindAccount", ctx, "17892").Return(kerem, nil)
	mockBanking.On("FindAccount", ctx, "9834").Return(&domain.Account{AccountNumber: "9834"}, nil)
	mockBanking.On("GetAccount", ctx, kerem).Return(&banking.AccountSummary{
		AccountNumber: "17892",
		Transactions:  []banking.TransactionItem{{Type: domain.KindDeposit, Amount: decimal.RequireFromString("100.50")}},
	}, nil)

	created, err := seeder.Seed(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 0, created)
	mockBanking.AssertExpectations(t)
	// The account without an opening deposit needs no history check
	mockBanking.AssertNumberOfCalls(t, "GetAccount", 1)
	mockBanking.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
	mockBanking.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountSeeder_Seed_ResumesPendingDeposit(t *testing.T) {
	ctx := context.Background()
	mockBanking := new(MockBanking)
	logger, hook := logtest.NewNullLogger()
	fixture, err := ParseFixture(strings.NewReader(fixtureYAML))
	require.NoError(t, err)
	seeder := NewAccountSeeder(mockBanking, fixture, logger)

	kerem := &domain.Account{AccountNumber: "17892", Balance: decimal.Zero}
	mockBanking.On("FindAccount", ctx, "17892").Return(kerem, nil)
	mockBanking.On("FindAccount", ctx, "9834").Return(&domain.Account{AccountNumber: "9834"}, nil)
	mockBanking.On("GetAccount", ctx, kerem).Return(&banking.AccountSummary{AccountNumber: "17892"}, nil)
	mockBanking.On("Credit", ctx, kerem, mock.MatchedBy(func(tx *domain.Transaction) bool {
		return tx.Kind == domain.KindDeposit && tx.Amount.Equal(decimal.RequireFromString("100.50"))
	})).Return(&domain.Transaction{}, nil)

	created, err := seeder.Seed(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 0, created)
	mockBanking.AssertExpectations(t)
	mockBanking.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)

	var resumed bool
	for _, entry := range hook.AllEntries() {
		if entry.Message == "opening deposit resumed" {
			resumed = true
		}
	}
	assert.True(t, resumed)
}

func TestAccountSeeder_Seed_CreditFailure(t *testing.T) {
	ctx := context.Background()
	mockBanking := new(MockBanking)
	logger, _ := logtest.NewNullLogger()
	fixture, err := ParseFixture(strings.NewReader(fixtureYAML))
	require.NoError(t, err)
	seeder := NewAccountSeeder(mockBanking, fixture, logger)

	kerem := &domain.Account{ID: uuid.New(), Owner: "Kerem Karaca", AccountNumber: "17892"}
	mockBanking.On("FindAccount", ctx, "17892").Return(nil, domain.ErrAccountNotFound)
	mockBanking.On("CreateAccount", ctx, mock.Anything).Return(kerem, nil)
	mockBanking.On("Credit", ctx, kerem, mock.Anything).Return(nil, errors.New("connection reset"))

	created, err := seeder.Seed(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to credit opening deposit for account 17892")
	assert.Equal(t, 1, created)
}

func TestAccountSeeder_Seed_LookupError(t *testing.T) {
	ctx := context.Background()
	mockBanking := new(MockBanking)
	logger, _ := logtest.NewNullLogger()
	fixture, err := ParseFixture(strings.NewReader(fixtureYAML))
	require.NoError(t, err)
	seeder := NewAccountSeeder(mockBanking, fixture, logger)

	mockBanking.On("FindAccount", ctx, "17892").Return(nil, errors.New("connection refused"))

	created, err := seeder.Seed(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to look up account 17892")
	assert.Equal(t, 0, created)
	mockBanking.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
}

func TestAccountSeeder_Seed_Idempotent(t *testing.T) {
	ctx := context.Background()
	logger, _ := logtest.NewNullLogger()
	store := memory.NewStore()
	svc := banking.NewService(store, store.Accounts(), store.Transactions(), logger)
	fixture, err := ParseFixture(strings.NewReader(fixtureYAML))
	require.NoError(t, err)
	seeder := NewAccountSeeder(svc, fixture, logger)

	created, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	created, err = seeder.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	account, err := svc.FindAccount(ctx, "17892")
	require.NoError(t, err)
	summary, err := svc.GetAccount(ctx, account)
	require.NoError(t, err)
	assert.True(t, summary.Balance.Equal(decimal.RequireFromString("100.50")))
	require.Len(t, summary.Transactions, 1)
	assert.NotEmpty(t, summary.Transactions[0].ApprovalCode)
}

func TestAccountSeeder_Seed_CompletesInterruptedRun(t *testing.T) {
	ctx := context.Background()
	logger, _ := logtest.NewNullLogger()
	store := memory.NewStore()
	svc := banking.NewService(store, store.Accounts(), store.Transactions(), logger)
	fixture, err := ParseFixture(strings.NewReader(fixtureYAML))
	require.NoError(t, err)

	// An earlier run created the account but never credited its deposit
	_, err = svc.CreateAccount(ctx, domain.NewAccount("Kerem Karaca", "17892"))
	require.NoError(t, err)

	created, err := NewAccountSeeder(svc, fixture, logger).Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	account, err := svc.FindAccount(ctx, "17892")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("100.50")), "got %s", account.Balance)

	// A further run must not credit the deposit twice
	_, err = NewAccountSeeder(svc, fixture, logger).Seed(ctx)
	require.NoError(t, err)
	account, err = svc.FindAccount(ctx, "17892")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("100.50")), "got %s", account.Balance)
}
