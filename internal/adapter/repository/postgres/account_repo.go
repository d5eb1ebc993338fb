package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/simaogato/simplebanking-backend/internal/domain"
)

const uniqueViolation = pq.ErrorCode("23505")

// accountRepository implements domain.AccountRepository
type accountRepository struct {
	db querier
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *DB) domain.AccountRepository {
	return &accountRepository{db: db}
}

const selectAccount = `
		SELECT id, owner, account_number, balance, created_date
		FROM accounts
		WHERE account_number = $1
	`

// GetByNumber retrieves an account by its account number
func (r *accountRepository) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return r.get(ctx, selectAccount, accountNumber)
}

// LockByNumber retrieves an account and locks its row until the transaction ends
func (r *accountRepository) LockByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return r.get(ctx, selectAccount+" FOR UPDATE", accountNumber)
}

func (r *accountRepository) get(ctx context.Context, query, accountNumber string) (*domain.Account, error) {
	var account domain.Account
	var balanceStr string

	err := r.db.QueryRowContext(ctx, query, accountNumber).Scan(
		&account.ID,
		&account.Owner,
		&account.AccountNumber,
		&balanceStr,
		&account.CreatedDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", accountNumber, domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("failed to get account by number: %w", err)
	}

	// Parse balance (NUMERIC)
	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance: %w", err)
	}
	account.Balance = balance
	account.Transactions = make([]*domain.Transaction, 0)

	return &account, nil
}

// Create creates a new account; created_date is set by the database
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, owner, account_number, balance)
		VALUES ($1, $2, $3, $4)
		RETURNING created_date
	`

	err := r.db.QueryRowContext(ctx, query,
		account.ID,
		account.Owner,
		account.AccountNumber,
		account.Balance.String(),
	).Scan(&account.CreatedDate)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("account %s: %w", account.AccountNumber, domain.ErrDuplicateAccount)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// UpdateBalance persists the account's balance
func (r *accountRepository) UpdateBalance(ctx context.Context, account *domain.Account) error {
	query := `UPDATE accounts SET balance = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, account.Balance.String(), account.ID)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("account %s: %w", account.AccountNumber, domain.ErrAccountNotFound)
	}

	return nil
}
