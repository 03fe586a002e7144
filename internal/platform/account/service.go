package account

import (
	"context"
	"fmt"

	"github.com/kislikjeka/bankview/pkg/logger"
)

// Service merges the cache-backed account list with explicit remote
// refreshes and owns the single-favorite invariant's write path.
type Service struct {
	store  Store
	remote RemoteClient
	hub    *Hub
	logger *logger.Logger
}

// NewService creates a new account service
func NewService(store Store, remote RemoteClient, hub *Hub, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		remote: remote,
		hub:    hub,
		logger: log.WithField("component", "accounts"),
	}
}

// Hub exposes the favorite signal for detail controllers.
func (s *Service) Hub() *Hub {
	return s.hub
}

// List returns all cached accounts, favorite first.
func (s *Service) List(ctx context.Context) ([]*Account, error) {
	accounts, err := s.store.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// Refresh fetches the remote account list and replaces the cache wholesale.
// A refresh is a full replacement of the remote-sourced fields; the favorite
// flag lives outside them and survives the clear/insert cycle by id match.
//
// Failure policy: when the remote fetch fails and the cache already holds
// accounts, a silent refresh keeps showing the cached data instead of
// surfacing the error. A non-silent refresh, or any refresh over an empty
// cache, returns the transport error.
func (s *Service) Refresh(ctx context.Context, silent bool) ([]*Account, error) {
	remoteAccounts, err := s.remote.ListAccounts(ctx)
	if err != nil {
		cached, cacheErr := s.store.ListOrdered(ctx)
		if silent && cacheErr == nil && len(cached) > 0 {
			s.logger.Warn("silent refresh failed, serving cached accounts",
				"error", err, "cached", len(cached))
			return cached, nil
		}
		return nil, fmt.Errorf("failed to refresh accounts: %w", err)
	}

	if err := s.store.ReplaceAll(ctx, remoteAccounts); err != nil {
		return nil, fmt.Errorf("failed to store refreshed accounts: %w", err)
	}

	// The replace may have dropped the favorite (its account disappeared);
	// let open detail views learn the post-replace value.
	fav, err := s.store.FavoriteID(ctx)
	if err != nil {
		s.logger.Warn("favorite read after refresh failed", "error", err)
	} else {
		s.hub.Publish(fav)
	}

	s.logger.Info("accounts refreshed", "count", len(remoteAccounts))

	accounts, err := s.store.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// FavoriteID returns the current favorite account id (nil when unset).
func (s *Service) FavoriteID(ctx context.Context) (*string, error) {
	return s.store.FavoriteID(ctx)
}

// ToggleFavorite flips the favorite state of the given account against the
// currently stored favorite id, read fresh. Setting a new favorite
// implicitly clears any previous one in a single store transaction, so no
// intermediate state with two favorites is ever observable.
func (s *Service) ToggleFavorite(ctx context.Context, id string) (*string, error) {
	current, err := s.store.FavoriteID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read favorite: %w", err)
	}

	var next *string
	if current != nil && *current == id {
		if err := s.store.ClearFavorite(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear favorite: %w", err)
		}
	} else {
		if err := s.store.SetFavorite(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to set favorite: %w", err)
		}
		next = &id
	}

	s.hub.Publish(next)
	return next, nil
}
