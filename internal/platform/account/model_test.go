package account_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kislikjeka/bankview/internal/platform/account"
)

func strPtr(s string) *string { return &s }

func TestAccount_DisplayName(t *testing.T) {
	tests := []struct {
		name     string
		account  account.Account
		expected string
	}{
		{
			name:     "nickname set",
			account:  account.Account{AccountNumber: 54321, Nickname: strPtr("Holiday fund")},
			expected: "Holiday fund",
		},
		{
			name:     "nickname absent falls back to account number",
			account:  account.Account{AccountNumber: 54321},
			expected: "54321",
		},
		{
			name:     "blank nickname falls back to account number",
			account:  account.Account{AccountNumber: 54321, Nickname: strPtr("   ")},
			expected: "54321",
		},
		{
			name:     "empty nickname falls back to account number",
			account:  account.Account{AccountNumber: 98765, Nickname: strPtr("")},
			expected: "98765",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.account.DisplayName())
		})
	}
}

func TestAccount_WithDetails(t *testing.T) {
	base := account.Account{
		ID:            "A1",
		AccountNumber: 54321,
		Balance:       "120.50",
		CurrencyCode:  "EUR",
		AccountType:   "current",
	}

	t.Run("nil details leaves extended fields absent", func(t *testing.T) {
		enriched := base.WithDetails(nil)
		assert.Nil(t, enriched.ProductName)
		assert.Nil(t, enriched.OpenedDate)
		assert.Nil(t, enriched.Branch)
		assert.Empty(t, enriched.Beneficiaries)
		// summary fields intact
		assert.Equal(t, "A1", enriched.ID)
		assert.Equal(t, "120.50", enriched.Balance)
	})

	t.Run("details populate extended fields", func(t *testing.T) {
		enriched := base.WithDetails(&account.Details{
			ProductName:   "Current Account EUR",
			OpenedDate:    "2019-04-11T00:00:00Z",
			Branch:        "Lisbon Central",
			Beneficiaries: []string{"Maria", "Rui"},
		})
		assert.Equal(t, "Current Account EUR", *enriched.ProductName)
		assert.Equal(t, "Lisbon Central", *enriched.Branch)
		assert.Equal(t, []string{"Maria", "Rui"}, enriched.Beneficiaries)
	})

	t.Run("receiver is not mutated", func(t *testing.T) {
		_ = base.WithDetails(&account.Details{ProductName: "X"})
		assert.Nil(t, base.ProductName)
	})
}

func TestTransaction_SignedAmount(t *testing.T) {
	debit := account.Transaction{Amount: "12.30", IsDebit: true}
	credit := account.Transaction{Amount: "7.00", IsDebit: false}

	assert.Equal(t, "-12.30", debit.SignedAmount())
	assert.Equal(t, "+7.00", credit.SignedAmount())
}
