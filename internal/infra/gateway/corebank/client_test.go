package corebank_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/bankview/internal/infra/gateway/corebank"
	"github.com/kislikjeka/bankview/internal/platform/account"
	"github.com/kislikjeka/bankview/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New("development", io.Discard)
}

func emptyTransactionsBody() map[string]any {
	return map[string]any{
		"transactions": []any{},
		"paging":       map[string]any{"pages_count": 1, "total_items": 0, "current_page": 0},
	}
}

// =============================================================================
// Header Tests
// =============================================================================

func TestClient_AuthHeader(t *testing.T) {
	var receivedAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]any{})
	}))
	defer server.Close()

	client := corebank.NewClient(server.URL, "test-api-key-123", testLogger())

	_, err := client.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-api-key-123", receivedAuth)
}

func TestClient_NoAuthHeaderWithoutKey(t *testing.T) {
	var receivedAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]any{})
	}))
	defer server.Close()

	client := corebank.NewClient(server.URL, "", testLogger())

	_, err := client.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, receivedAuth)
}

func TestClient_RequestIDHeader(t *testing.T) {
	received := make(map[string]bool)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received[r.Header.Get("X-Request-ID")] = true
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]any{})
	}))
	defer server.Close()

	client := corebank.NewClient(server.URL, "key", testLogger())

	_, err := client.ListAccounts(context.Background())
	require.NoError(t, err)
	_, err = client.ListAccounts(context.Background())
	require.NoError(t, err)

	delete(received, "")
	assert.Len(t, received, 2, "every request carries a fresh correlation id")
}

// =============================================================================
// ListAccounts Tests
// =============================================================================

func TestClient_ListAccounts(t *testing.T) {
	var receivedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "acc-1", "account_number": 12345678, "balance": "1500.00",
			 "currency_code": "EUR", "account_type": "Checking", "account_nickname": "Main"},
			{"id": "acc-2", "account_number": 87654321, "balance": "20.50",
			 "currency_code": "EUR", "account_type": "Savings", "account_nickname": null}
		]`))
	}))
	defer server.Close()

	client := corebank.NewClient(server.URL, "key", testLogger())

	accounts, err := client.ListAccounts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/accounts", receivedPath)
	require.Len(t, accounts, 2)
	assert.Equal(t, "acc-1", accounts[0].ID)
	assert.Equal(t, int64(12345678), accounts[0].AccountNumber)
	require.NotNil(t, accounts[0].Nickname)
	assert.Equal(t, "Main", *accounts[0].Nickname)
	assert.Nil(t, accounts[1].Nickname)
}

// =============================================================================
// GetAccountDetails Tests
// =============================================================================

func TestClient_GetAccountDetails(t *testing.T) {
	var receivedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"product_name": "Everyday Checking",
			"opened_date": "2020-01-15T00:00:00Z",
			"branch": "Downtown",
			"beneficiaries": ["Alex Doe", "Sam Roe"]
		}`))
	}))
	defer server.Close()

	client := corebank.NewClient(server.URL, "key", testLogger())

	details, err := client.GetAccountDetails(context.Background(), "acc-1")
	require.NoError(t, err)

	assert.Equal(t, "/account/details/acc-1", receivedPath)
	assert.Equal(t, "Everyday Checking", details.ProductName)
	assert.Equal(t, []string{"Alex Doe", "Sam Roe"}, details.Beneficiaries)
}

// =============================================================================
// GetTransactionsPage Tests
// =============================================================================

func TestClient_GetTransactionsPage_RequestBody(t *testing.T) {
	var receivedPath string
	var receivedBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&receivedBody))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(emptyTransactionsBody())
	}))
	defer server.Close()

	client := corebank.NewClient(server.URL, "key", testLogger())

	from := "2025-01-01T00:00:00Z"
	to := "2025-01-31T23:59:59Z"
	_, err := client.GetTransactionsPage(context.Background(), "acc-1", 2, &from, &to)
	require.NoError(t, err)

	assert.Equal(t, "/account/transactions/acc-1", receivedPath)
	assert.Equal(t, float64(2), receivedBody["next_page"])
	assert.Equal(t, from, receivedBody["from_date"])
	assert.Equal(t, to, receivedBody["to_date"])
}

func TestClient_GetTransactionsPage_OmitsUnsetBounds(t *testing.T) {
	var receivedBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&receivedBody))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(emptyTransactionsBody())
	}))
	defer server.Close()

	client := corebank.NewClient(server.URL, "key", testLogger())

	_, err := client.GetTransactionsPage(context.Background(), "acc-1", 0, nil, nil)
	require.NoError(t, err)

	assert.NotContains(t, receivedBody, "from_date")
	assert.NotContains(t, receivedBody, "to_date")
}

func TestClient_GetTransactionsPage_MapsResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"transactions": [
				{"id": "t1", "date": "2025-03-10T14:30:00Z", "transaction_amount": "42.10",
				 "transaction_type": "Transfer", "description": "Groceries", "is_debit": true},
				{"id": "t2", "date": "2025-03-05T09:00:00", "transaction_amount": "1200.00",
				 "transaction_type": "Salary", "description": null, "is_debit": false}
			],
			"paging": {"pages_count": 3, "total_items": 25, "current_page": 1}
		}`))
	}))
	defer server.Close()

	client := corebank.NewClient(server.URL, "key", testLogger())

	pg, err := client.GetTransactionsPage(context.Background(), "acc-1", 1, nil, nil)
	require.NoError(t, err)

	require.Len(t, pg.Transactions, 2)
	assert.Equal(t, "t1", pg.Transactions[0].ID)
	require.NotNil(t, pg.Transactions[0].Description)
	assert.Equal(t, "Groceries", *pg.Transactions[0].Description)
	assert.True(t, pg.Transactions[0].IsDebit)
	assert.Nil(t, pg.Transactions[1].Description)
	assert.Equal(t, account.DefaultCurrencyCode, pg.Transactions[1].CurrencyCode)

	assert.Equal(t, 1, pg.CurrentPage)
	assert.Equal(t, 3, pg.TotalPages)
	assert.Equal(t, 25, pg.TotalItems)
	assert.True(t, pg.HasMore())
}

func TestClient_GetTransactionsPage_BadDateFailsPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"transactions": [
				{"id": "t1", "date": "not-a-date", "transaction_amount": "42.10",
				 "transaction_type": "Transfer", "is_debit": true}
			],
			"paging": {"pages_count": 1, "total_items": 1, "current_page": 0}
		}`))
	}))
	defer server.Close()

	client := corebank.NewClient(server.URL, "key", testLogger())

	_, err := client.GetTransactionsPage(context.Background(), "acc-1", 0, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, account.ErrBadTransactionDate)
}

// =============================================================================
// Rate Limit Tests
// =============================================================================

func TestClient_RateLimitRetry(t *testing.T) {
	var requestCount int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requestCount, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]any{})
	}))
	defer server.Close()

	client := corebank.NewClient(server.URL, "key", testLogger())

	_, err := client.ListAccounts(context.Background())
	require.NoError(t, err)
	// 1 rate-limited + 1 successful = 2 total requests
	assert.Equal(t, int32(2), atomic.LoadInt32(&requestCount))
}

func TestClient_RateLimitContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := corebank.NewClient(server.URL, "key", testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	// Cancel immediately so the backoff sleep returns the context error
	cancel()

	_, err := client.ListAccounts(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// =============================================================================
// Error Response Tests
// =============================================================================

func TestClient_NonOKResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "internal"}`))
	}))
	defer server.Close()

	client := corebank.NewClient(server.URL, "key", testLogger())

	_, err := client.ListAccounts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, account.ErrRemoteUnavailable)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // closed before use

	client := corebank.NewClient(server.URL, "key", testLogger())

	_, err := client.ListAccounts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, account.ErrRemoteUnavailable)
}
