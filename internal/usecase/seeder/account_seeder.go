package seeder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/simaogato/simplebanking-backend/internal/domain"
	"github.com/simaogato/simplebanking-backend/internal/usecase/banking"
)

// Fixture is the YAML document listing the accounts to seed
type Fixture struct {
	Accounts []FixtureAccount `yaml:"accounts"`
}

// FixtureAccount defines an account to be seeded with an optional opening deposit
type FixtureAccount struct {
	Owner         string `yaml:"owner"`
	AccountNumber string `yaml:"accountNumber"`
	Deposit       string `yaml:"deposit"`
}

// OpeningDeposit parses the deposit; an empty value means no deposit
func (a FixtureAccount) OpeningDeposit() (decimal.Decimal, error) {
	if a.Deposit == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(a.Deposit)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid deposit %q for account %s: %w", a.Deposit, a.AccountNumber, err)
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return decimal.Zero, fmt.Errorf("account %s: %w", a.AccountNumber, err)
	}
	return amount, nil
}

// ParseFixture decodes a fixture and checks every opening deposit
func ParseFixture(r io.Reader) (*Fixture, error) {
	var fixture Fixture
	if err := yaml.NewDecoder(r).Decode(&fixture); err != nil {
		if errors.Is(err, io.EOF) {
			return &fixture, nil
		}
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}

	for _, account := range fixture.Accounts {
		if _, err := account.OpeningDeposit(); err != nil {
			return nil, err
		}
	}
	return &fixture, nil
}

// LoadFixture reads a fixture file from disk
func LoadFixture(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture: %w", err)
	}
	defer f.Close()

	return ParseFixture(f)
}

// Banking is the part of the banking service the seeder drives
type Banking interface {
	FindAccount(ctx context.Context, accountNumber string) (*domain.Account, error)
	CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)
	GetAccount(ctx context.Context, account *domain.Account) (*banking.AccountSummary, error)
	Credit(ctx context.Context, account *domain.Account, tx *domain.Transaction) (*domain.Transaction, error)
}

// AccountSeeder creates the accounts listed in a fixture
type AccountSeeder struct {
	banking Banking
	fixture *Fixture
	log     logrus.FieldLogger
}

// NewAccountSeeder creates a new AccountSeeder instance
func NewAccountSeeder(banking Banking, fixture *Fixture, log logrus.FieldLogger) *AccountSeeder {
	return &AccountSeeder{
		banking: banking,
		fixture: fixture,
		log:     log,
	}
}

// Seed ensures every fixture account exists and returns how many were created.
// Account creation and the opening deposit are separate units of work, so an
// existing account with no transactions yet gets its pending deposit credited.
// Accounts that already have history are left untouched.
func (s *AccountSeeder) Seed(ctx context.Context) (int, error) {
	created := 0

	for _, entry := range s.fixture.Accounts {
		deposit, err := entry.OpeningDeposit()
		if err != nil {
			return created, err
		}

		account, err := s.banking.FindAccount(ctx, entry.AccountNumber)
		switch {
		case err == nil:
			if err := s.resumeDeposit(ctx, account, deposit); err != nil {
				return created, err
			}
			continue
		case !errors.Is(err, domain.ErrAccountNotFound):
			return created, fmt.Errorf("failed to look up account %s: %w", entry.AccountNumber, err)
		}

		account, err = s.banking.CreateAccount(ctx, domain.NewAccount(entry.Owner, entry.AccountNumber))
		if err != nil {
			return created, fmt.Errorf("failed to seed account %s: %w", entry.AccountNumber, err)
		}
		created++

		if err := s.creditDeposit(ctx, account, deposit); err != nil {
			return created, err
		}

		s.log.WithFields(logrus.Fields{
			"account_number": entry.AccountNumber,
			"deposit":        deposit.String(),
		}).Info("account seeded")
	}

	return created, nil
}

// resumeDeposit credits deposit to an existing account whose history is still empty
func (s *AccountSeeder) resumeDeposit(ctx context.Context, account *domain.Account, deposit decimal.Decimal) error {
	entry := s.log.WithField("account_number", account.AccountNumber)
	if !deposit.IsPositive() {
		entry.Debug("account already seeded")
		return nil
	}

	summary, err := s.banking.GetAccount(ctx, account)
	if err != nil {
		return fmt.Errorf("failed to read account %s: %w", account.AccountNumber, err)
	}
	if len(summary.Transactions) > 0 {
		entry.Debug("account already seeded")
		return nil
	}

	if err := s.creditDeposit(ctx, account, deposit); err != nil {
		return err
	}
	entry.WithField("deposit", deposit.String()).Info("opening deposit resumed")
	return nil
}

func (s *AccountSeeder) creditDeposit(ctx context.Context, account *domain.Account, deposit decimal.Decimal) error {
	if !deposit.IsPositive() {
		return nil
	}
	if _, err := s.banking.Credit(ctx, account, domain.NewDepositTransaction(deposit)); err != nil {
		return fmt.Errorf("failed to credit opening deposit for account %s: %w", account.AccountNumber, err)
	}
	return nil
}
