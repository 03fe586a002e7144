package handler

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/kislikjeka/bankview/internal/shared/errors"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, ErrorResponse{Error: message})
}

// respondAppError maps an application error onto its HTTP response.
func respondAppError(w http.ResponseWriter, err *apperrors.AppError) {
	respondJSON(w, statusForCode(err.Code), ErrorResponse{Error: err.Message, Code: err.Code})
}

// statusForCode maps application error codes to HTTP status codes.
func statusForCode(code string) int {
	switch code {
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeValidation, apperrors.ErrCodeBadRequest, apperrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
