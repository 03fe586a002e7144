package detail

import (
	"context"
)

// FavoriteService is the write path for the favorite flag. The account
// service implements it with an atomic clear-then-set store transaction.
type FavoriteService interface {
	ToggleFavorite(ctx context.Context, id string) (*string, error)
}

// FavoriteSignal is the live subscription announcing the current favorite
// account id (nil when no favorite is set). The account hub implements it.
type FavoriteSignal interface {
	Subscribe() (<-chan *string, func())
}
