package domain

import (
	"context"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for account persistence operations
type AccountRepository interface {
	// GetByNumber retrieves an account by its account number.
	// Returns ErrAccountNotFound if no account matches.
	GetByNumber(ctx context.Context, accountNumber string) (*Account, error)

	// LockByNumber retrieves an account and holds it exclusively until the
	// surrounding unit of work ends. Outside a unit of work it behaves like GetByNumber.
	LockByNumber(ctx context.Context, accountNumber string) (*Account, error)

	// Create creates a new account and sets its CreatedDate.
	// Returns ErrDuplicateAccount if the account number is taken.
	Create(ctx context.Context, account *Account) error

	// UpdateBalance persists the account's current balance
	UpdateBalance(ctx context.Context, account *Account) error
}

// TransactionRepository defines the interface for transaction persistence operations
type TransactionRepository interface {
	// Create stores a posted transaction
	Create(ctx context.Context, tx *Transaction) error

	// ListByAccountID retrieves all transactions of an account ordered by date
	ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]*Transaction, error)
}

// Repositories groups the repositories that share one unit of work
type Repositories struct {
	Accounts     AccountRepository
	Transactions TransactionRepository
}

// UnitOfWork runs a function atomically against the store.
// If fn returns an error every write made through repos is discarded.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
