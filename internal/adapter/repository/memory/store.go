package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/simplebanking-backend/internal/domain"
)

// state holds every record of the store. It is replaced wholesale on rollback.
type state struct {
	accounts     map[string]*domain.Account // keyed by account number
	transactions map[uuid.UUID][]*domain.Transaction
}

func newState() *state {
	return &state{
		accounts:     make(map[string]*domain.Account),
		transactions: make(map[uuid.UUID][]*domain.Transaction),
	}
}

func (st *state) clone() *state {
	out := newState()
	for number, account := range st.accounts {
		copied := *account
		out.accounts[number] = &copied
	}
	for accountID, txs := range st.transactions {
		out.transactions[accountID] = append([]*domain.Transaction(nil), txs...)
	}
	return out
}

// Store is an in-memory implementation of the account directory and transaction log.
// A unit of work holds the store mutex for its whole duration, which serializes postings.
type Store struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		state: newState(),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Accounts returns an AccountRepository that locks the store per call
func (s *Store) Accounts() domain.AccountRepository {
	return &accountRepository{store: s}
}

// Transactions returns a TransactionRepository that locks the store per call
func (s *Store) Transactions() domain.TransactionRepository {
	return &transactionRepository{store: s}
}

// WithinTx runs fn while holding the store exclusively.
// If fn fails, the state observed before fn started is restored.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	repos := domain.Repositories{
		Accounts:     &accountRepository{store: s, held: true},
		Transactions: &transactionRepository{store: s, held: true},
	}

	if err := fn(ctx, repos); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

func (s *Store) guard(held bool) func() {
	if held {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// accountRepository implements domain.AccountRepository
type accountRepository struct {
	store *Store
	held  bool
}

func copyAccount(a *domain.Account) *domain.Account {
	copied := *a
	copied.Transactions = make([]*domain.Transaction, 0)
	return &copied
}

// GetByNumber retrieves an account by its account number
func (r *accountRepository) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	defer r.store.guard(r.held)()

	account, ok := r.store.state.accounts[accountNumber]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return copyAccount(account), nil
}

// LockByNumber retrieves an account; inside WithinTx the store is already held
func (r *accountRepository) LockByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return r.GetByNumber(ctx, accountNumber)
}

// Create stores a new account and stamps its creation date
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	defer r.store.guard(r.held)()

	if _, exists := r.store.state.accounts[account.AccountNumber]; exists {
		return domain.ErrDuplicateAccount
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.CreatedDate = r.store.now()
	r.store.state.accounts[account.AccountNumber] = copyAccount(account)
	return nil
}

// UpdateBalance persists the account's balance
func (r *accountRepository) UpdateBalance(ctx context.Context, account *domain.Account) error {
	defer r.store.guard(r.held)()

	stored, ok := r.store.state.accounts[account.AccountNumber]
	if !ok || stored.ID != account.ID {
		return domain.ErrAccountNotFound
	}
	stored.Balance = account.Balance
	return nil
}

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	store *Store
	held  bool
}

// Create appends a copy of the transaction to its account's log
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	defer r.store.guard(r.held)()

	copied := *tx
	r.store.state.transactions[tx.AccountID] = append(r.store.state.transactions[tx.AccountID], &copied)
	return nil
}

// ListByAccountID retrieves the transactions of an account ordered by date
func (r *transactionRepository) ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]*domain.Transaction, error) {
	defer r.store.guard(r.held)()

	stored := r.store.state.transactions[accountID]
	out := make([]*domain.Transaction, 0, len(stored))
	for _, tx := range stored {
		copied := *tx
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}
