package handler

import (
	"context"
	"net/http"

	"github.com/kislikjeka/bankview/internal/platform/account"
	apperrors "github.com/kislikjeka/bankview/internal/shared/errors"
)

// AccountService defines the interface for account list operations
type AccountService interface {
	List(ctx context.Context) ([]*account.Account, error)
	Refresh(ctx context.Context, silent bool) ([]*account.Account, error)
}

// AccountHandler handles account list HTTP requests
type AccountHandler struct {
	accounts AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// AccountsListResponse represents the response for listing accounts
type AccountsListResponse struct {
	Accounts []*account.Account `json:"accounts"`
}

// ListAccounts handles GET /accounts
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		respondAppError(w, apperrors.Database("failed to list accounts", err))
		return
	}

	respondJSON(w, http.StatusOK, AccountsListResponse{Accounts: accounts})
}

// RefreshAccounts handles POST /accounts/refresh. With ?silent=true a failed
// remote fetch over a non-empty cache answers with the cached list instead
// of an error.
func (h *AccountHandler) RefreshAccounts(w http.ResponseWriter, r *http.Request) {
	silent := r.URL.Query().Get("silent") == "true"

	accounts, err := h.accounts.Refresh(r.Context(), silent)
	if err != nil {
		respondAppError(w, apperrors.Upstream("failed to refresh accounts", err))
		return
	}

	respondJSON(w, http.StatusOK, AccountsListResponse{Accounts: accounts})
}
