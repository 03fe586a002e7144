package account

import "errors"

var (
	// Cache errors
	ErrAccountNotFound = errors.New("account not found")

	// Remote errors
	ErrRemoteUnavailable  = errors.New("core banking API unavailable")
	ErrBadTransactionDate = errors.New("transaction date is not a valid ISO-8601 date-time")
)
