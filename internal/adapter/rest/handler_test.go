package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/simplebanking-backend/internal/adapter/repository/memory"
	"github.com/simaogato/simplebanking-backend/internal/usecase/banking"
)

func newTestServer(t *testing.T) (*httptest.Server, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	store := memory.NewStore()
	svc := banking.NewService(store, store.Accounts(), store.Transactions(), logger)

	srv := httptest.NewServer(NewRouter(NewHandler(svc, logger), logger))
	t.Cleanup(srv.Close)
	return srv, hook
}

// doJSON sends body as JSON, checks the status code and decodes the response into out
func doJSON(t *testing.T, method, url string, body any, wantCode int, out any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, wantCode, resp.StatusCode, "%s %s", method, url)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
}

func createAccount(t *testing.T, base, owner, number string) CreatedAccount {
	t.Helper()
	var created CreatedAccount
	doJSON(t, http.MethodPost, base+BasePath+"/account/create",
		map[string]string{"owner": owner, "accountNumber": number}, http.StatusOK, &created)
	return created
}

func TestCreateAccount(t *testing.T) {
	srv, _ := newTestServer(t)

	created := createAccount(t, srv.URL, "Kerem Karaca", "17892")

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Kerem Karaca", created.Owner)
	assert.Equal(t, "17892", created.AccountNumber)
	assert.Equal(t, 0.0, created.Balance)
	assert.False(t, created.CreatedDate.IsZero())
}

func TestCreateAccount_Errors(t *testing.T) {
	srv, _ := newTestServer(t)
	createAccount(t, srv.URL, "Kerem Karaca", "17892")

	var errResp ErrorResponse
	doJSON(t, http.MethodPost, srv.URL+BasePath+"/account/create",
		map[string]string{"owner": "Someone", "accountNumber": "17892"}, http.StatusConflict, &errResp)
	assert.Equal(t, "ERROR", errResp.Status)

	doJSON(t, http.MethodPost, srv.URL+BasePath+"/account/create",
		map[string]string{"owner": "", "accountNumber": "555"}, http.StatusBadRequest, &errResp)
	assert.Contains(t, errResp.Message, "owner cannot be empty")
}

func TestPostingScenario(t *testing.T) {
	srv, _ := newTestServer(t)
	createAccount(t, srv.URL, "Canan Kaya", "1234")
	base := srv.URL + BasePath

	var credit, debit, bill TransactionStatus
	doJSON(t, http.MethodPost, base+"/credit/1234", map[string]any{"amount": 100}, http.StatusOK, &credit)
	doJSON(t, http.MethodPost, base+"/debit/1234", map[string]any{"amount": 60}, http.StatusOK, &debit)
	doJSON(t, http.MethodPost, base+"/bill/1234",
		map[string]any{"payee": "Vodafone", "phoneNumber": "5423345566", "amount": 10.50}, http.StatusOK, &bill)

	for _, status := range []TransactionStatus{credit, debit, bill} {
		assert.Equal(t, "OK", status.Status)
		assert.NotEmpty(t, status.ApprovalCode)
	}
	assert.NotEqual(t, credit.ApprovalCode, debit.ApprovalCode)
	assert.NotEqual(t, debit.ApprovalCode, bill.ApprovalCode)

	var account AccountResponse
	doJSON(t, http.MethodGet, base+"/1234", nil, http.StatusOK, &account)

	assert.Equal(t, "1234", account.AccountNumber)
	assert.Equal(t, "Canan Kaya", account.Owner)
	assert.InDelta(t, 29.50, account.Balance, 1e-9)
	assert.False(t, account.CreateDate.IsZero())
	require.Len(t, account.Transactions, 3)

	wantTypes := []string{"DepositTransaction", "WithdrawalTransaction", "BillPaymentTransaction"}
	wantAmounts := []float64{100, 60, 10.50}
	wantCodes := []string{credit.ApprovalCode, debit.ApprovalCode, bill.ApprovalCode}
	for i, item := range account.Transactions {
		assert.Equal(t, wantTypes[i], item.Type)
		assert.InDelta(t, wantAmounts[i], item.Amount, 1e-9)
		assert.Equal(t, wantCodes[i], item.ApprovalCode, "returned approval code must be the stored one")
		assert.False(t, item.Date.IsZero())
	}
}

func TestPosting_Errors(t *testing.T) {
	srv, _ := newTestServer(t)
	createAccount(t, srv.URL, "Demet Demircan", "9834")
	base := srv.URL + BasePath
	doJSON(t, http.MethodPost, base+"/credit/9834", map[string]any{"amount": 100}, http.StatusOK, nil)

	tests := []struct {
		name     string
		path     string
		body     any
		wantCode int
		wantMsg  string
	}{
		{"Unknown account on credit", "/credit/0000", map[string]any{"amount": 1}, http.StatusNotFound, "account not found"},
		{"Unknown account on debit", "/debit/0000", map[string]any{"amount": 1}, http.StatusNotFound, "account not found"},
		{"Unknown account on bill", "/bill/0000", map[string]any{"amount": 1}, http.StatusNotFound, "account not found"},
		{"Debit above balance", "/debit/9834", map[string]any{"amount": 500}, http.StatusUnprocessableEntity, "insufficient balance"},
		{"Bill above balance", "/bill/9834", map[string]any{"payee": "Vodafone", "amount": 500}, http.StatusUnprocessableEntity, "insufficient balance"},
		{"Negative credit", "/credit/9834", map[string]any{"amount": -5}, http.StatusBadRequest, "invalid amount"},
		{"Negative debit", "/debit/9834", map[string]any{"amount": -5}, http.StatusBadRequest, "invalid amount"},
		{"Missing amount", "/credit/9834", map[string]any{}, http.StatusBadRequest, "amount is required"},
		{"Amount as string", "/credit/9834", map[string]any{"amount": "abc"}, http.StatusBadRequest, "invalid request body"},
		{"Too many decimal places", "/credit/9834", map[string]any{"amount": 0.00001}, http.StatusBadRequest, "decimal places"},
		{"Amount of 10^15", "/credit/9834", json.RawMessage(`{"amount":1000000000000000}`), http.StatusBadRequest, "less than 10^15"},
		{"Huge exponent credit", "/credit/9834", json.RawMessage(`{"amount":1e10000000}`), http.StatusBadRequest, "invalid amount"},
		{"Huge exponent debit", "/debit/9834", json.RawMessage(`{"amount":1e10000000}`), http.StatusBadRequest, "invalid amount"},
		{"Tiny exponent bill", "/bill/9834", json.RawMessage(`{"payee":"Vodafone","amount":1e-10000000}`), http.StatusBadRequest, "decimal places"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errResp ErrorResponse
			doJSON(t, http.MethodPost, base+tt.path, tt.body, tt.wantCode, &errResp)
			assert.Equal(t, "ERROR", errResp.Status)
			assert.Contains(t, errResp.Message, tt.wantMsg)
		})
	}

	var account AccountResponse
	doJSON(t, http.MethodGet, base+"/9834", nil, http.StatusOK, &account)
	assert.InDelta(t, 100.0, account.Balance, 1e-9, "failed postings must not change the balance")
	assert.Len(t, account.Transactions, 1, "failed postings must not be recorded")
}

func TestGetAccount_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	var errResp ErrorResponse
	doJSON(t, http.MethodGet, srv.URL+BasePath+"/404404", nil, http.StatusNotFound, &errResp)
	assert.Equal(t, "ERROR", errResp.Status)
}

func TestMalformedBody(t *testing.T) {
	srv, _ := newTestServer(t)
	createAccount(t, srv.URL, "Demet Demircan", "9834")

	resp, err := http.Post(srv.URL+BasePath+"/credit/9834", "application/json", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthAndRequestLogging(t *testing.T) {
	srv, hook := newTestServer(t)

	var body map[string]string
	doJSON(t, http.MethodGet, srv.URL+"/healthz", nil, http.StatusOK, &body)
	assert.Equal(t, "OK", body["status"])

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "http request", entry.Message)
	assert.Equal(t, "/healthz", entry.Data["path"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])
}

func TestStatusFor_Unexpected(t *testing.T) {
	rec := httptest.NewRecorder()
	logger, hook := logtest.NewNullLogger()

	writeDomainError(rec, logger, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal error")
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	assert.Equal(t, "request failed", hook.LastEntry().Message)
}
