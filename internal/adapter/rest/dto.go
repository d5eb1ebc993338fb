package rest

import (
	"time"

	"github.com/shopspring/decimal"
)

// amountRequest is the body of /credit and /debit
type amountRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// billPaymentRequest is the body of /bill
type billPaymentRequest struct {
	Payee       string           `json:"payee"`
	PhoneNumber string           `json:"phoneNumber"`
	Amount      *decimal.Decimal `json:"amount"`
}

// createAccountRequest is the body of /account/create
type createAccountRequest struct {
	Owner         string `json:"owner"`
	AccountNumber string `json:"accountNumber"`
}

// TransactionStatus is returned by every successful posting
type TransactionStatus struct {
	Status       string `json:"status"`
	ApprovalCode string `json:"approvalCode"`
}

// AccountResponse is the read model of GET /{accountNumber}
type AccountResponse struct {
	AccountNumber string                   `json:"accountNumber"`
	Owner         string                   `json:"owner"`
	Balance       float64                  `json:"balance"`
	CreateDate    time.Time                `json:"createDate"`
	Transactions  []AccountTransactionItem `json:"transactions"`
}

// AccountTransactionItem is one entry of AccountResponse.Transactions
type AccountTransactionItem struct {
	Date         time.Time `json:"date"`
	Amount       float64   `json:"amount"`
	Type         string    `json:"type"`
	ApprovalCode string    `json:"approvalCode"`
}

// CreatedAccount is returned by /account/create
type CreatedAccount struct {
	ID            string    `json:"id"`
	Owner         string    `json:"owner"`
	AccountNumber string    `json:"accountNumber"`
	Balance       float64   `json:"balance"`
	CreatedDate   time.Time `json:"createdDate"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
