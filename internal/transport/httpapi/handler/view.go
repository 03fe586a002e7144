package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kislikjeka/bankview/internal/platform/detail"
	apperrors "github.com/kislikjeka/bankview/internal/shared/errors"
)

// ViewHandler handles detail view session HTTP requests. Each open session
// maps to one detail controller in the registry.
type ViewHandler struct {
	registry *detail.Registry
}

// NewViewHandler creates a new view handler
func NewViewHandler(registry *detail.Registry) *ViewHandler {
	return &ViewHandler{registry: registry}
}

// OpenViewResponse represents the response for opening a detail session
type OpenViewResponse struct {
	SessionID string       `json:"session_id"`
	State     detail.State `json:"state"`
}

// FilterRequest represents the date filter request body. Dates are
// calendar days in ISO format (2006-01-02); either bound may be omitted.
type FilterRequest struct {
	FromDate *string `json:"from_date"`
	ToDate   *string `json:"to_date"`
}

// OpenView handles POST /accounts/{id}/view
func (h *ViewHandler) OpenView(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		respondError(w, http.StatusBadRequest, "account id is required")
		return
	}

	sessionID, state := h.registry.Open(r.Context(), accountID)
	respondJSON(w, http.StatusCreated, OpenViewResponse{
		SessionID: sessionID.String(),
		State:     state,
	})
}

// GetView handles GET /views/{sid}
func (h *ViewHandler) GetView(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, ctrl.State())
}

// LoadMore handles POST /views/{sid}/more
func (h *ViewHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, ctrl.LoadMore(r.Context()))
}

// ApplyFilter handles PUT /views/{sid}/filter
func (h *ViewHandler) ApplyFilter(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	var req FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	from, err := parseFilterDate(req.FromDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "from_date must be a date in 2006-01-02 format")
		return
	}
	to, err := parseFilterDate(req.ToDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "to_date must be a date in 2006-01-02 format")
		return
	}

	respondJSON(w, http.StatusOK, ctrl.ApplyFilter(r.Context(), from, to))
}

// ClearFilter handles DELETE /views/{sid}/filter
func (h *ViewHandler) ClearFilter(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, ctrl.ClearFilter(r.Context()))
}

// Retry handles POST /views/{sid}/retry
func (h *ViewHandler) Retry(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, ctrl.Retry(r.Context()))
}

// ToggleFavorite handles POST /views/{sid}/favorite
func (h *ViewHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	if err := ctrl.ToggleFavorite(r.Context()); err != nil {
		respondAppError(w, apperrors.Internal("failed to toggle favorite", err))
		return
	}
	respondJSON(w, http.StatusOK, ctrl.State())
}

// CloseView handles DELETE /views/{sid}
func (h *ViewHandler) CloseView(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	if !h.registry.Close(sessionID) {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// controller resolves the session id URL param to a live controller,
// answering the request itself on failure.
func (h *ViewHandler) controller(w http.ResponseWriter, r *http.Request) (*detail.Controller, bool) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session id")
		return nil, false
	}

	ctrl, ok := h.registry.Get(sessionID)
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return ctrl, true
}

// parseFilterDate parses an optional calendar date from the filter request.
func parseFilterDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
