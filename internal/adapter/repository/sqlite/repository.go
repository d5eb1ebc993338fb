package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/simaogato/simplebanking-backend/internal/domain"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type accountRepository struct {
	db  querier
	now func() time.Time
}

// GetByNumber retrieves an account by its account number.
func (r *accountRepository) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	var account domain.Account
	var id, balanceStr string

	err := r.db.QueryRowContext(ctx, `
		SELECT id, owner, account_number, balance, created_date
		FROM accounts
		WHERE account_number = ?`, accountNumber).
		Scan(&id, &account.Owner, &account.AccountNumber, &balanceStr, &account.CreatedDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", accountNumber, domain.ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by number: %w", err)
	}

	if account.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("failed to parse account id: %w", err)
	}
	if account.Balance, err = decimal.NewFromString(balanceStr); err != nil {
		return nil, fmt.Errorf("failed to parse balance: %w", err)
	}
	account.Transactions = make([]*domain.Transaction, 0)

	return &account, nil
}

// LockByNumber retrieves an account. Transactions begin IMMEDIATE, so the
// write lock is already held when this runs inside WithinTx.
func (r *accountRepository) LockByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return r.GetByNumber(ctx, accountNumber)
}

// Create inserts a new account and stamps its creation date.
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	createdDate := r.now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, owner, account_number, balance, created_date)
		VALUES (?, ?, ?, ?, ?)`,
		account.ID.String(), account.Owner, account.AccountNumber, account.Balance.String(), createdDate)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("account %s: %w", account.AccountNumber, domain.ErrDuplicateAccount)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	account.CreatedDate = createdDate
	return nil
}

// UpdateBalance persists the account's balance.
func (r *accountRepository) UpdateBalance(ctx context.Context, account *domain.Account) error {
	result, err := r.db.ExecContext(ctx, `UPDATE accounts SET balance = ? WHERE id = ?`,
		account.Balance.String(), account.ID.String())
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

type transactionRepository struct {
	db querier
}

// Create inserts a posted transaction.
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, account_id, transaction_type, amount, date, approval_code, payee, phone_number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID.String(),
		tx.AccountID.String(),
		string(tx.Kind),
		tx.Amount.String(),
		tx.Date.UTC(),
		tx.ApprovalCode,
		nullString(tx.Payee),
		nullString(tx.PhoneNumber),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// ListByAccountID retrieves all transactions of an account ordered by date.
func (r *transactionRepository) ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]*domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, transaction_type, amount, date, approval_code, payee, phone_number
		FROM transactions
		WHERE account_id = ?
		ORDER BY date ASC, rowid ASC`, accountID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		var tx domain.Transaction
		var id, ownerID, kind, amountStr string
		var approvalCode, payee, phoneNumber sql.NullString

		if err := rows.Scan(&id, &ownerID, &kind, &amountStr, &tx.Date, &approvalCode, &payee, &phoneNumber); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		if tx.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("failed to parse transaction id: %w", err)
		}
		if tx.AccountID, err = uuid.Parse(ownerID); err != nil {
			return nil, fmt.Errorf("failed to parse account id: %w", err)
		}
		tx.Kind = domain.TransactionKind(kind)
		if !tx.Kind.Valid() {
			return nil, fmt.Errorf("transaction %s: %w: %q", id, domain.ErrUnknownTransactionKind, kind)
		}
		if tx.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}
		tx.ApprovalCode = approvalCode.String
		tx.Payee = payee.String
		tx.PhoneNumber = phoneNumber.String

		transactions = append(transactions, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
