package vanity

import "errors"

var (
	// ErrInvalidFormat is returned when a phone string does not normalize to 10 digits.
	ErrInvalidFormat = errors.New("invalid phone number format")

	ErrNilWordSet = errors.New("word set cannot be nil")
)
