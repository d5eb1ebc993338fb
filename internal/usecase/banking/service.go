package banking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/simplebanking-backend/internal/domain"
)

// TransactionItem is one row of an account's history in the read model
type TransactionItem struct {
	Date         time.Time
	Amount       decimal.Decimal
	Type         domain.TransactionKind
	ApprovalCode string
}

// AccountSummary is the read model returned by GetAccount
type AccountSummary struct {
	AccountNumber string
	Owner         string
	Balance       decimal.Decimal
	CreateDate    time.Time
	Transactions  []TransactionItem
}

// Service handles account management and postings
type Service struct {
	Store           domain.UnitOfWork
	AccountRepo     domain.AccountRepository
	TransactionRepo domain.TransactionRepository
	Log             logrus.FieldLogger

	// NewApprovalCode issues the approval code of a successful posting
	NewApprovalCode func() string
}

// NewService creates a new Service instance
func NewService(
	store domain.UnitOfWork,
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
	log logrus.FieldLogger,
) *Service {
	return &Service{
		Store:           store,
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		Log:             log,
		NewApprovalCode: uuid.NewString,
	}
}

// FindAccount retrieves an account by its account number
func (s *Service) FindAccount(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return s.AccountRepo.GetByNumber(ctx, accountNumber)
}

// CreateAccount persists a new account with a zero balance.
// The store assigns CreatedDate.
func (s *Service) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	account.ID = uuid.New()
	account.Balance = decimal.Zero
	account.Transactions = make([]*domain.Transaction, 0)

	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := s.AccountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.Log.WithFields(logrus.Fields{
		"account_number": account.AccountNumber,
		"account_id":     account.ID.String(),
	}).Info("account created")

	return account, nil
}

// GetAccount assembles the read model of an account and its transaction history
func (s *Service) GetAccount(ctx context.Context, account *domain.Account) (*AccountSummary, error) {
	transactions, err := s.TransactionRepo.ListByAccountID(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	items := make([]TransactionItem, 0, len(transactions))
	for _, tx := range transactions {
		items = append(items, TransactionItem{
			Date:         tx.Date,
			Amount:       tx.Amount,
			Type:         tx.Kind,
			ApprovalCode: tx.ApprovalCode,
		})
	}

	return &AccountSummary{
		AccountNumber: account.AccountNumber,
		Owner:         account.Owner,
		Balance:       account.Balance,
		CreateDate:    account.CreatedDate,
		Transactions:  items,
	}, nil
}
