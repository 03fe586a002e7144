package corebank

import (
	"fmt"
	"time"

	"github.com/kislikjeka/bankview/internal/platform/account"
)

func (dto accountDTO) toAccount() *account.Account {
	return &account.Account{
		ID:            dto.ID,
		AccountNumber: dto.AccountNumber,
		Balance:       dto.Balance,
		CurrencyCode:  dto.CurrencyCode,
		AccountType:   dto.AccountType,
		Nickname:      dto.AccountNickname,
	}
}

func (dto accountDetailsDTO) toDetails() *account.Details {
	return &account.Details{
		ProductName:   dto.ProductName,
		OpenedDate:    dto.OpenedDate,
		Branch:        dto.Branch,
		Beneficiaries: dto.Beneficiaries,
	}
}

// parseDate accepts the ISO-8601 date-time variants the API serves, with or
// without a zone offset.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", account.ErrBadTransactionDate, s)
}

// toTransaction maps a wire transaction. A timestamp that does not parse is
// a hard error, never a silent default: corrupting one date would corrupt
// the sort order of the whole feed.
func (dto transactionDTO) toTransaction() (account.Transaction, error) {
	date, err := parseDate(dto.Date)
	if err != nil {
		return account.Transaction{}, err
	}

	return account.Transaction{
		ID:           dto.ID,
		Date:         date,
		Description:  dto.Description,
		Amount:       dto.TransactionAmount,
		Type:         dto.TransactionType,
		CurrencyCode: account.DefaultCurrencyCode,
		IsDebit:      dto.IsDebit,
	}, nil
}

// toPage maps a wire transactions response. Any record with an unparseable
// date aborts the whole page.
func (resp transactionsResponse) toPage() (*account.Page, error) {
	txs := make([]account.Transaction, 0, len(resp.Transactions))
	for _, dto := range resp.Transactions {
		tx, err := dto.toTransaction()
		if err != nil {
			return nil, fmt.Errorf("failed to map transaction %s: %w", dto.ID, err)
		}
		txs = append(txs, tx)
	}

	return &account.Page{
		Transactions: txs,
		CurrentPage:  resp.Paging.CurrentPage,
		TotalPages:   resp.Paging.PagesCount,
		TotalItems:   resp.Paging.TotalItems,
	}, nil
}
