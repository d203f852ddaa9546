package services

import "errors"

var (
	// ErrInvalidInput marks content that cannot be scanned; surfaced as a client error
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable marks an external store failure or timeout
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInternal marks an unexpected failure during scan orchestration
	ErrInternal = errors.New("internal error")
)
