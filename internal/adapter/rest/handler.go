package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/simplebanking-backend/internal/domain"
	"github.com/simaogato/simplebanking-backend/internal/usecase/banking"
)

// AccountService is the part of banking.Service the handlers use
type AccountService interface {
	FindAccount(ctx context.Context, accountNumber string) (*domain.Account, error)
	CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)
	GetAccount(ctx context.Context, account *domain.Account) (*banking.AccountSummary, error)
	Credit(ctx context.Context, account *domain.Account, tx *domain.Transaction) (*domain.Transaction, error)
	Debit(ctx context.Context, account *domain.Account, tx *domain.Transaction) (*domain.Transaction, error)
	Bill(ctx context.Context, account *domain.Account, tx *domain.Transaction) (*domain.Transaction, error)
}

// Handler serves the account HTTP API
type Handler struct {
	svc AccountService
	log logrus.FieldLogger
}

// NewHandler creates a new Handler
func NewHandler(svc AccountService, log logrus.FieldLogger) *Handler {
	return &Handler{svc: svc, log: log}
}

var errMissingAmount = errors.New("amount is required")

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	return json.NewDecoder(r.Body).Decode(v)
}

// Credit handles POST /account/v1/credit/{accountNumber}
func (h *Handler) Credit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, errMissingAmount.Error())
		return
	}

	h.post(w, r, domain.NewDepositTransaction(*req.Amount), h.svc.Credit)
}

// Debit handles POST /account/v1/debit/{accountNumber}
func (h *Handler) Debit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, errMissingAmount.Error())
		return
	}

	h.post(w, r, domain.NewWithdrawalTransaction(*req.Amount), h.svc.Debit)
}

// BillPayment handles POST /account/v1/bill/{accountNumber}
func (h *Handler) BillPayment(w http.ResponseWriter, r *http.Request) {
	var req billPaymentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, errMissingAmount.Error())
		return
	}

	h.post(w, r, domain.NewBillPaymentTransaction(req.Payee, req.PhoneNumber, *req.Amount), h.svc.Bill)
}

type postFunc func(ctx context.Context, account *domain.Account, tx *domain.Transaction) (*domain.Transaction, error)

// post locates the account named in the path and posts tx to it
func (h *Handler) post(w http.ResponseWriter, r *http.Request, tx *domain.Transaction, fn postFunc) {
	ctx := r.Context()

	account, err := h.svc.FindAccount(ctx, mux.Vars(r)["accountNumber"])
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}

	posted, err := fn(ctx, account, tx)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, TransactionStatus{Status: statusOK, ApprovalCode: posted.ApprovalCode})
}

// GetAccount handles GET /account/v1/{accountNumber}
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	account, err := h.svc.FindAccount(ctx, mux.Vars(r)["accountNumber"])
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}

	summary, err := h.svc.GetAccount(ctx, account)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(summary))
}

// CreateAccount handles POST /account/v1/account/create
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	created, err := h.svc.CreateAccount(r.Context(), domain.NewAccount(req.Owner, req.AccountNumber))
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, CreatedAccount{
		ID:            created.ID.String(),
		Owner:         created.Owner,
		AccountNumber: created.AccountNumber,
		Balance:       created.Balance.InexactFloat64(),
		CreatedDate:   created.CreatedDate,
	})
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": statusOK})
}

func toAccountResponse(summary *banking.AccountSummary) AccountResponse {
	items := make([]AccountTransactionItem, 0, len(summary.Transactions))
	for _, tx := range summary.Transactions {
		items = append(items, AccountTransactionItem{
			Date:         tx.Date,
			Amount:       tx.Amount.InexactFloat64(),
			Type:         string(tx.Type),
			ApprovalCode: tx.ApprovalCode,
		})
	}

	return AccountResponse{
		AccountNumber: summary.AccountNumber,
		Owner:         summary.Owner,
		Balance:       summary.Balance.InexactFloat64(),
		CreateDate:    summary.CreateDate,
		Transactions:  items,
	}
}
