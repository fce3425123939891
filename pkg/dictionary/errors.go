package dictionary

import "errors"

var (
	ErrEmptyWordSet       = errors.New("word set contains no usable words")
	ErrInvalidConfig      = errors.New("invalid dictionary source configuration")
	ErrSourceNotFound     = errors.New("dictionary source not found")
	ErrAccessDenied       = errors.New("access to dictionary source denied")
	ErrSourceUnavailable  = errors.New("dictionary source unavailable")
	ErrFailedToLoadConfig = errors.New("failed to load AWS configuration")
)
