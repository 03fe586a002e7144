package corebank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/bankview/internal/platform/account"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "RFC3339 with zone",
			input: "2025-03-10T14:30:00Z",
			want:  time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
		},
		{
			name:  "RFC3339 with offset",
			input: "2025-03-10T14:30:00+02:00",
			want:  time.Date(2025, 3, 10, 14, 30, 0, 0, time.FixedZone("", 2*3600)),
		},
		{
			name:  "zoneless date-time",
			input: "2025-03-10T14:30:00",
			want:  time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "not-a-date", "2025-03-10", "10/03/2025"} {
		_, err := parseDate(input)
		assert.ErrorIs(t, err, account.ErrBadTransactionDate, "input %q", input)
	}
}

func TestToPage_BadRecordAbortsPage(t *testing.T) {
	resp := transactionsResponse{
		Transactions: []transactionDTO{
			{ID: "t1", Date: "2025-03-10T14:30:00Z", TransactionAmount: "10.00", TransactionType: "Transfer"},
			{ID: "t2", Date: "garbage", TransactionAmount: "20.00", TransactionType: "Transfer"},
		},
		Paging: pagingDTO{PagesCount: 1, TotalItems: 2, CurrentPage: 0},
	}

	_, err := resp.toPage()
	require.Error(t, err)
	assert.ErrorIs(t, err, account.ErrBadTransactionDate)
	assert.Contains(t, err.Error(), "t2")
}

func TestToTransaction_DefaultsCurrency(t *testing.T) {
	dto := transactionDTO{
		ID:                "t1",
		Date:              "2025-03-10T14:30:00Z",
		TransactionAmount: "10.00",
		TransactionType:   "Transfer",
		IsDebit:           true,
	}

	tx, err := dto.toTransaction()
	require.NoError(t, err)
	assert.Equal(t, account.DefaultCurrencyCode, tx.CurrencyCode)
	assert.Equal(t, "-10.00", tx.SignedAmount())
}
