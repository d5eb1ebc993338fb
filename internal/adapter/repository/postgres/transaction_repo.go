package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/simplebanking-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db querier
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create inserts a posted transaction
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, account_id, transaction_type, amount, date, approval_code, payee, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.AccountID,
		string(tx.Kind),
		tx.Amount.String(),
		tx.Date,
		tx.ApprovalCode,
		nullString(tx.Payee),
		nullString(tx.PhoneNumber),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// ListByAccountID retrieves all transactions of an account ordered by date
func (r *transactionRepository) ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]*domain.Transaction, error) {
	query := `
		SELECT id, account_id, transaction_type, amount, date, approval_code, payee, phone_number
		FROM transactions
		WHERE account_id = $1
		ORDER BY date ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		var tx domain.Transaction
		var kind, amountStr string
		var approvalCode, payee, phoneNumber sql.NullString

		if err := rows.Scan(
			&tx.ID,
			&tx.AccountID,
			&kind,
			&amountStr,
			&tx.Date,
			&approvalCode,
			&payee,
			&phoneNumber,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		tx.Kind = domain.TransactionKind(kind)
		if !tx.Kind.Valid() {
			return nil, fmt.Errorf("transaction %s: %w: %q", tx.ID, domain.ErrUnknownTransactionKind, kind)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}
		tx.Amount = amount
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
