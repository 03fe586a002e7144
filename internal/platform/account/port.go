package account

import (
	"context"
)

// Store defines the interface for the local account cache
type Store interface {
	// GetByID retrieves a cached account by ID (ErrAccountNotFound when absent)
	GetByID(ctx context.Context, id string) (*Account, error)

	// ListOrdered retrieves all cached accounts, favorite first, then by
	// nickname ascending
	ListOrdered(ctx context.Context) ([]*Account, error)

	// ReplaceAll transactionally clears the cache and inserts the given
	// accounts, re-applying the previously stored favorite flag by id match
	ReplaceAll(ctx context.Context, accounts []*Account) error

	// FavoriteID returns the current favorite account id, or nil when no
	// favorite is set
	FavoriteID(ctx context.Context) (*string, error)

	// SetFavorite atomically clears any existing favorite and marks the
	// given account as favorite, as one transaction
	SetFavorite(ctx context.Context, id string) error

	// ClearFavorite removes the favorite flag from all accounts
	ClearFavorite(ctx context.Context) error
}

// RemoteClient defines the interface for the core banking API
type RemoteClient interface {
	// ListAccounts fetches the full account list
	ListAccounts(ctx context.Context) ([]*Account, error)

	// GetAccountDetails fetches one account's extended details
	GetAccountDetails(ctx context.Context, id string) (*Details, error)

	// GetTransactionsPage fetches one page of transactions for an account.
	// page is the zero-based page index to request; from/to are optional
	// ISO-8601 date-time bounds (inclusive).
	GetTransactionsPage(ctx context.Context, id string, page int, from, to *string) (*Page, error)
}

// DetailsCache is a best-effort cache in front of GetAccountDetails. A miss
// or a cache error must never fail the caller.
type DetailsCache interface {
	Get(ctx context.Context, id string) (*Details, bool, error)
	Set(ctx context.Context, id string, details *Details) error
}
