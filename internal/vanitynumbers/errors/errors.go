package errors

import "errors"

var (
	ErrNotFound = errors.New("vanity record not found")

	// ErrStoreUnavailable marks network failures and timeouts talking to the
	// record store.
	ErrStoreUnavailable = errors.New("vanity record store unavailable")

	ErrCacheMiss = errors.New("candidate cache miss")
)
