package corebank

// Wire DTOs for the core banking API. Field names follow the remote
// contract, which is fixed.

type accountDTO struct {
	ID              string  `json:"id"`
	AccountNumber   int64   `json:"account_number"`
	Balance         string  `json:"balance"`
	CurrencyCode    string  `json:"currency_code"`
	AccountType     string  `json:"account_type"`
	AccountNickname *string `json:"account_nickname"`
}

type accountDetailsDTO struct {
	ProductName   string   `json:"product_name"`
	OpenedDate    string   `json:"opened_date"`
	Branch        string   `json:"branch"`
	Beneficiaries []string `json:"beneficiaries"`
}

type transactionsRequest struct {
	NextPage int     `json:"next_page"`
	FromDate *string `json:"from_date,omitempty"`
	ToDate   *string `json:"to_date,omitempty"`
}

type transactionDTO struct {
	ID                string  `json:"id"`
	Date              string  `json:"date"`
	TransactionAmount string  `json:"transaction_amount"`
	TransactionType   string  `json:"transaction_type"`
	Description       *string `json:"description"`
	IsDebit           bool    `json:"is_debit"`
}

type pagingDTO struct {
	PagesCount  int `json:"pages_count"`
	TotalItems  int `json:"total_items"`
	CurrentPage int `json:"current_page"`
}

type transactionsResponse struct {
	Transactions []transactionDTO `json:"transactions"`
	Paging       pagingDTO        `json:"paging"`
}
