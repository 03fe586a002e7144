package detail

import (
	"github.com/kislikjeka/bankview/internal/platform/account"
)

// Phase discriminates the detail view state.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// State is an immutable snapshot of the detail screen's view state. Account
// and Sections are only set in the success phase; Message and Retryable only
// in the error phase.
type State struct {
	Phase       Phase             `json:"phase"`
	Account     *account.Account  `json:"account,omitempty"`
	Sections    []account.Section `json:"sections,omitempty"`
	HasMore     bool              `json:"has_more"`
	IsFiltering bool              `json:"is_filtering"`
	Message     string            `json:"message,omitempty"`
	Retryable   bool              `json:"retryable,omitempty"`
}

func loadingState() State {
	return State{Phase: PhaseLoading}
}

func errorState(message string, retryable bool) State {
	return State{Phase: PhaseError, Message: message, Retryable: retryable}
}
