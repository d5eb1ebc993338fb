package domain

import "errors"

var (
	// ErrAccountNotFound is returned when no account has the requested account number
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientBalance is returned when a withdrawal or bill payment exceeds the balance
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidAmount is returned when a transaction amount is negative or out of range
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidAccount is returned when an account fails validation
	ErrInvalidAccount = errors.New("invalid account")

	// ErrDuplicateAccount is returned when the account number is already taken
	ErrDuplicateAccount = errors.New("account number already exists")

	// ErrTransactionKindMismatch is returned when an operation receives the wrong transaction variant
	ErrTransactionKindMismatch = errors.New("transaction kind does not match operation")

	// ErrUnknownTransactionKind is returned when a transaction carries an unrecognised discriminator
	ErrUnknownTransactionKind = errors.New("unknown transaction kind")
)
