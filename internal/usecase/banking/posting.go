package banking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/simplebanking-backend/internal/domain"
)

// Credit posts a deposit transaction to the account
func (s *Service) Credit(ctx context.Context, account *domain.Account, tx *domain.Transaction) (*domain.Transaction, error) {
	return s.post(ctx, account, tx, domain.KindDeposit)
}

// Debit posts a withdrawal transaction to the account
func (s *Service) Debit(ctx context.Context, account *domain.Account, tx *domain.Transaction) (*domain.Transaction, error) {
	return s.post(ctx, account, tx, domain.KindWithdrawal)
}

// Bill posts a bill payment transaction to the account
func (s *Service) Bill(ctx context.Context, account *domain.Account, tx *domain.Transaction) (*domain.Transaction, error) {
	return s.post(ctx, account, tx, domain.KindBillPayment)
}

// post runs the posting protocol in a single unit of work:
//  1. Lock the account row by account number
//  2. Apply the transaction (Account.Post)
//  3. Assign approval code and account back-reference
//  4. Insert the transaction and update the balance
//
// On success the caller's account reflects the committed state.
func (s *Service) post(ctx context.Context, account *domain.Account, tx *domain.Transaction, want domain.TransactionKind) (*domain.Transaction, error) {
	if tx.Kind != want {
		return nil, fmt.Errorf("%w: expected %s, got %s", domain.ErrTransactionKindMismatch, want, tx.Kind)
	}
	if tx.IsPosted() {
		return nil, fmt.Errorf("transaction %s already posted", tx.ID)
	}
	if err := domain.ValidateAmount(tx.Amount); err != nil {
		return nil, err
	}

	var locked *domain.Account
	err := s.Store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		current, err := repos.Accounts.LockByNumber(ctx, account.AccountNumber)
		if err != nil {
			return err
		}

		if err := current.Post(tx); err != nil {
			return err
		}

		tx.AccountID = current.ID
		tx.ApprovalCode = s.NewApprovalCode()

		if err := repos.Transactions.Create(ctx, tx); err != nil {
			return err
		}
		if err := repos.Accounts.UpdateBalance(ctx, current); err != nil {
			return err
		}

		locked = current
		return nil
	})
	if err != nil {
		// Nothing was committed; the transaction stays unposted
		tx.AccountID = uuid.Nil
		tx.ApprovalCode = ""
		s.Log.WithFields(logrus.Fields{
			"account_number": account.AccountNumber,
			"type":           string(tx.Kind),
			"amount":         tx.Amount.String(),
		}).WithError(err).Warn("posting rejected")
		return nil, err
	}

	account.ID = locked.ID
	account.Balance = locked.Balance
	account.Transactions = append(account.Transactions, tx)

	s.Log.WithFields(logrus.Fields{
		"account_number": account.AccountNumber,
		"type":           string(tx.Kind),
		"amount":         tx.Amount.String(),
		"approval_code":  tx.ApprovalCode,
		"balance":        account.Balance.String(),
	}).Info("transaction posted")

	return tx, nil
}
