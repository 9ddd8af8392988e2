package domain

import "errors"

// Error kinds surfaced by the entry store and its collaborators. Callers
// branch on them with errors.Is; adapters wrap the underlying cause.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrDuplicate    = errors.New("entry already exists")
	ErrInvalidRange = errors.New("invalid date range")
	ErrIO           = errors.New("i/o failure")
)
