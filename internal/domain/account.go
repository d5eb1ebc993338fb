package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents a bank account in the domain layer
type Account struct {
	ID            uuid.UUID
	Owner         string
	AccountNumber string
	Balance       decimal.Decimal // Never negative after a successful operation
	CreatedDate   time.Time       // Set once by the store
	Transactions  []*Transaction  // Posted in this process; the full history lives in the TransactionRepository
}

// NewAccount creates an account with a zero balance and no transactions
func NewAccount(owner, accountNumber string) *Account {
	return &Account{
		Owner:         owner,
		AccountNumber: accountNumber,
		Balance:       decimal.Zero,
		Transactions:  make([]*Transaction, 0),
	}
}

// Validate ensures the account adheres to domain rules
func (a *Account) Validate() error {
	if a.Owner == "" {
		return fmt.Errorf("%w: owner cannot be empty", ErrInvalidAccount)
	}
	if a.AccountNumber == "" {
		return fmt.Errorf("%w: account number cannot be empty", ErrInvalidAccount)
	}
	if a.Balance.IsNegative() {
		return fmt.Errorf("%w: balance cannot be negative", ErrInvalidAccount)
	}
	return nil
}

// Deposit adds amount to the balance.
// The resulting balance must stay within the amount range.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	balance := a.Balance.Add(amount)
	if err := checkRange(balance); err != nil {
		return fmt.Errorf("balance limit: %w", err)
	}
	a.Balance = balance
	return nil
}

// Withdraw subtracts amount from the balance.
// Drawing the balance down to exactly zero is allowed.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if a.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Post applies the transaction to the account and records it.
// If the transaction cannot be applied the account is left untouched.
func (a *Account) Post(tx *Transaction) error {
	if err := tx.Process(a); err != nil {
		return err
	}
	a.Transactions = append(a.Transactions, tx)
	return nil
}
