package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kislikjeka/bankview/internal/platform/account"
)

// AccountRepository implements the account cache store using PostgreSQL
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = "id, account_number, balance, currency_code, account_type, nickname, is_favorite"

func scanAccount(row pgx.Row) (*account.Account, error) {
	a := &account.Account{}
	err := row.Scan(
		&a.ID,
		&a.AccountNumber,
		&a.Balance,
		&a.CurrencyCode,
		&a.AccountType,
		&a.Nickname,
		&a.IsFavorite,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID retrieves a cached account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1`, accountColumns)

	a, err := scanAccount(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return a, nil
}

// ListOrdered retrieves all cached accounts, favorite first, then by
// nickname ascending
func (r *AccountRepository) ListOrdered(ctx context.Context) ([]*account.Account, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM accounts
		ORDER BY is_favorite DESC, nickname ASC NULLS LAST, account_number ASC
	`, accountColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// ReplaceAll transactionally clears the cache and inserts the given
// accounts. The favorite flag is captured inside the same transaction and
// re-applied by id match, so it survives the clear/insert cycle.
func (r *AccountRepository) ReplaceAll(ctx context.Context, accounts []*account.Account) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var favoriteID *string
	err = tx.QueryRow(ctx, `SELECT id FROM accounts WHERE is_favorite LIMIT 1`).Scan(&favoriteID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to read favorite: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("failed to clear accounts: %w", err)
	}

	for _, a := range accounts {
		isFavorite := favoriteID != nil && *favoriteID == a.ID
		_, err := tx.Exec(ctx, `
			INSERT INTO accounts (id, account_number, balance, currency_code, account_type, nickname, is_favorite)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			a.ID,
			a.AccountNumber,
			a.Balance,
			a.CurrencyCode,
			a.AccountType,
			a.Nickname,
			isFavorite,
		)
		if err != nil {
			return fmt.Errorf("failed to insert account %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit replace: %w", err)
	}

	return nil
}

// FavoriteID returns the current favorite account id, or nil when no
// favorite is set
func (r *AccountRepository) FavoriteID(ctx context.Context) (*string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `SELECT id FROM accounts WHERE is_favorite LIMIT 1`).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read favorite: %w", err)
	}
	return &id, nil
}

// SetFavorite clears any existing favorite and marks the given account, as
// one transaction. Concurrent readers never observe two favorites.
func (r *AccountRepository) SetFavorite(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE accounts SET is_favorite = FALSE WHERE is_favorite`); err != nil {
		return fmt.Errorf("failed to clear favorite: %w", err)
	}

	tag, err := tx.Exec(ctx, `UPDATE accounts SET is_favorite = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to set favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return account.ErrAccountNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit favorite: %w", err)
	}

	return nil
}

// ClearFavorite removes the favorite flag from all accounts
func (r *AccountRepository) ClearFavorite(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `UPDATE accounts SET is_favorite = FALSE WHERE is_favorite`); err != nil {
		return fmt.Errorf("failed to clear favorite: %w", err)
	}
	return nil
}
