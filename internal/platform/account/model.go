package account

import (
	"strconv"
	"strings"
)

// Account represents a bank account as held in the local cache, optionally
// enriched with extended details from the remote API.
type Account struct {
	ID            string  `json:"id" db:"id"`
	AccountNumber int64   `json:"account_number" db:"account_number"`
	Balance       string  `json:"balance" db:"balance"` // decimal-as-text, currency-agnostic
	CurrencyCode  string  `json:"currency_code" db:"currency_code"`
	AccountType   string  `json:"account_type" db:"account_type"`
	Nickname      *string `json:"nickname,omitempty" db:"nickname"`

	// Extended fields, absent until the details fetch succeeds
	ProductName   *string  `json:"product_name,omitempty"`
	OpenedDate    *string  `json:"opened_date,omitempty"`
	Branch        *string  `json:"branch,omitempty"`
	Beneficiaries []string `json:"beneficiaries,omitempty"`

	// IsFavorite is overlaid at read time from the favorite signal; it is
	// never part of the account's remote identity.
	IsFavorite bool `json:"is_favorite" db:"is_favorite"`
}

// DisplayName returns the nickname, or the account number when the nickname
// is blank or absent.
func (a *Account) DisplayName() string {
	if a.Nickname != nil && strings.TrimSpace(*a.Nickname) != "" {
		return *a.Nickname
	}
	return strconv.FormatInt(a.AccountNumber, 10)
}

// WithDetails returns a copy of the account enriched with extended details.
// The receiver is left untouched.
func (a Account) WithDetails(d *Details) *Account {
	if d == nil {
		return &a
	}
	a.ProductName = &d.ProductName
	a.OpenedDate = &d.OpenedDate
	a.Branch = &d.Branch
	a.Beneficiaries = d.Beneficiaries
	return &a
}

// Details holds the extended account fields served by the details endpoint.
type Details struct {
	ProductName   string   `json:"product_name"`
	OpenedDate    string   `json:"opened_date"` // ISO-8601 date-time string
	Branch        string   `json:"branch"`
	Beneficiaries []string `json:"beneficiaries"`
}
