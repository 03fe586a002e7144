package account_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/bankview/internal/platform/account"
)

func tx(id string, date time.Time) account.Transaction {
	return account.Transaction{
		ID:           id,
		Date:         date,
		Amount:       "10.00",
		Type:         "payment",
		CurrencyCode: account.DefaultCurrencyCode,
	}
}

func TestGroupIntoSections_Empty(t *testing.T) {
	assert.Nil(t, account.GroupIntoSections(nil))
	assert.Nil(t, account.GroupIntoSections([]account.Transaction{}))
}

func TestGroupIntoSections_MonthBuckets(t *testing.T) {
	txs := []account.Transaction{
		tx("t1", time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC)),
		tx("t2", time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)),
		tx("t3", time.Date(2025, 2, 28, 9, 0, 0, 0, time.UTC)),
	}

	sections := account.GroupIntoSections(txs)

	require.Len(t, sections, 2)
	assert.Equal(t, "March 2025", sections[0].MonthYear)
	assert.Len(t, sections[0].Items, 2)
	assert.Equal(t, "February 2025", sections[1].MonthYear)
	assert.Len(t, sections[1].Items, 1)
}

func TestGroupIntoSections_NewestFirstEverywhere(t *testing.T) {
	// Deliberately shuffled input across three months
	txs := []account.Transaction{
		tx("feb", time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)),
		tx("mar-old", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
		tx("jan", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)),
		tx("mar-new", time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC)),
	}

	sections := account.GroupIntoSections(txs)

	require.Len(t, sections, 3)
	assert.Equal(t, []string{"March 2025", "February 2025", "January 2025"},
		[]string{sections[0].MonthYear, sections[1].MonthYear, sections[2].MonthYear})

	// Newest first within the section
	assert.Equal(t, "mar-new", sections[0].Items[0].ID)
	assert.Equal(t, "mar-old", sections[0].Items[1].ID)
}

func TestGroupIntoSections_StableForEqualTimestamps(t *testing.T) {
	when := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	txs := []account.Transaction{
		tx("first", when),
		tx("second", when),
		tx("third", when),
	}

	sections := account.GroupIntoSections(txs)

	require.Len(t, sections, 1)
	require.Len(t, sections[0].Items, 3)
	// Ties keep the original fetch order
	assert.Equal(t, "first", sections[0].Items[0].ID)
	assert.Equal(t, "second", sections[0].Items[1].ID)
	assert.Equal(t, "third", sections[0].Items[2].ID)
}

func TestGroupIntoSections_DoesNotMutateInput(t *testing.T) {
	txs := []account.Transaction{
		tx("old", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		tx("new", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)),
	}

	_ = account.GroupIntoSections(txs)

	assert.Equal(t, "old", txs[0].ID)
	assert.Equal(t, "new", txs[1].ID)
}

func TestPage_HasMore(t *testing.T) {
	tests := []struct {
		name        string
		currentPage int
		totalPages  int
		expected    bool
	}{
		{"first of two pages", 0, 2, true},
		{"last of two pages", 1, 2, false},
		{"single page", 0, 1, false},
		{"no pages at all", 0, 0, false},
		{"middle of many", 3, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &account.Page{CurrentPage: tt.currentPage, TotalPages: tt.totalPages}
			assert.Equal(t, tt.expected, p.HasMore())
		})
	}
}
