package services

import "errors"

// Common service errors
var (
	// ErrNotFound covers unknown contract ids and unknown share tokens.
	ErrNotFound = errors.New("record not found")

	// ErrTokenRequired rejects a request carrying no share token at all,
	// before any lookup happens. Distinct from ErrNotFound: the request is
	// malformed rather than pointing at a missing record.
	ErrTokenRequired = errors.New("share token is required")

	// ErrTokenExpired is distinct from ErrNotFound so the client UI can
	// prompt for a fresh link instead of implying the contract is gone.
	ErrTokenExpired = errors.New("share link has expired, request a new one")

	// ErrConflict is an optimistic-concurrency loss that is not a double-sign.
	ErrConflict = errors.New("contract was modified concurrently, retry")

	ErrInvalidState        = errors.New("invalid contract state transition")
	ErrSignatureRequired   = errors.New("signature payload is required")
	ErrClientEmailRequired = errors.New("client email is required to send a contract")
)
