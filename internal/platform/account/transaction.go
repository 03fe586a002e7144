package account

import (
	"sort"
	"time"
)

// DefaultCurrencyCode is used when the transaction wire format carries no
// currency of its own.
const DefaultCurrencyCode = "EUR"

// Transaction is a single account movement. Transactions are immutable once
// fetched; callers only append, sort, and group them.
type Transaction struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	Description  *string   `json:"description,omitempty"`
	Amount       string    `json:"amount"` // magnitude, decimal-as-text
	Type         string    `json:"type"`
	CurrencyCode string    `json:"currency_code"`
	IsDebit      bool      `json:"is_debit"`
}

// SignedAmount renders the amount with its debit/credit sign.
func (t *Transaction) SignedAmount() string {
	if t.IsDebit {
		return "-" + t.Amount
	}
	return "+" + t.Amount
}

// Section is a month-grouped bucket of transactions, a presentation-only
// derived structure rebuilt on every state update.
type Section struct {
	MonthYear string        `json:"month_year"`
	Items     []Transaction `json:"items"`
}

// sectionLabel formats a timestamp as the section grouping key, e.g.
// "March 2025".
func sectionLabel(t time.Time) string {
	return t.Format("January 2006")
}

// GroupIntoSections sorts transactions newest-first (stable, so equal
// timestamps keep their fetch order) and groups them into month-year
// sections ordered by their most recent member descending. The input slice
// is not modified.
func GroupIntoSections(txs []Transaction) []Section {
	if len(txs) == 0 {
		return nil
	}

	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	var sections []Section
	for _, tx := range sorted {
		label := sectionLabel(tx.Date)
		if n := len(sections); n > 0 && sections[n-1].MonthYear == label {
			sections[n-1].Items = append(sections[n-1].Items, tx)
			continue
		}
		sections = append(sections, Section{MonthYear: label, Items: []Transaction{tx}})
	}

	return sections
}

// Page is one page of transactions as reported by the remote API. CurrentPage
// is the server-reported, zero-based page index, which may differ from the
// index the caller requested.
type Page struct {
	Transactions []Transaction `json:"transactions"`
	CurrentPage  int           `json:"current_page"`
	TotalPages   int           `json:"total_pages"`
	TotalItems   int           `json:"total_items"`
}

// HasMore reports whether pages remain after the server-reported current
// page. The last page is the one whose index equals TotalPages-1.
func (p *Page) HasMore() bool {
	return p.CurrentPage < p.TotalPages-1
}
