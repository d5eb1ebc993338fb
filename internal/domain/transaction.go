package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind is the discriminator of a transaction variant.
// The value is persisted and returned as the transaction type tag.
type TransactionKind string

const (
	KindDeposit     TransactionKind = "DepositTransaction"
	KindWithdrawal  TransactionKind = "WithdrawalTransaction"
	KindBillPayment TransactionKind = "BillPaymentTransaction"
)

// Valid reports whether k is one of the known variants
func (k TransactionKind) Valid() bool {
	switch k {
	case KindDeposit, KindWithdrawal, KindBillPayment:
		return true
	}
	return false
}

// Transaction represents a posting against a single account.
// Payee and PhoneNumber are only set for bill payments.
type Transaction struct {
	ID           uuid.UUID
	Kind         TransactionKind
	Amount       decimal.Decimal // ABSOLUTE VALUE (Never negative)
	Date         time.Time
	ApprovalCode string    // Assigned when the transaction is posted
	AccountID    uuid.UUID // Assigned when the transaction is posted
	Payee        string
	PhoneNumber  string
}

func newTransaction(kind TransactionKind, amount decimal.Decimal) *Transaction {
	return &Transaction{
		ID:     uuid.New(),
		Kind:   kind,
		Amount: amount,
		Date:   time.Now().UTC(),
	}
}

// NewDepositTransaction creates a transaction that credits the account
func NewDepositTransaction(amount decimal.Decimal) *Transaction {
	return newTransaction(KindDeposit, amount)
}

// NewWithdrawalTransaction creates a transaction that debits the account
func NewWithdrawalTransaction(amount decimal.Decimal) *Transaction {
	return newTransaction(KindWithdrawal, amount)
}

// NewBillPaymentTransaction creates a transaction that debits the account to pay a bill
func NewBillPaymentTransaction(payee, phoneNumber string, amount decimal.Decimal) *Transaction {
	tx := newTransaction(KindBillPayment, amount)
	tx.Payee = payee
	tx.PhoneNumber = phoneNumber
	return tx
}

// Process applies the transaction's balance effect to the account.
// Deposits credit the account; withdrawals and bill payments debit it.
func (t *Transaction) Process(account *Account) error {
	switch t.Kind {
	case KindDeposit:
		return account.Deposit(t.Amount)
	case KindWithdrawal, KindBillPayment:
		return account.Withdraw(t.Amount)
	default:
		return ErrUnknownTransactionKind
	}
}

// IsPosted reports whether the transaction has been assigned an approval code
func (t *Transaction) IsPosted() bool {
	return t.ApprovalCode != ""
}
