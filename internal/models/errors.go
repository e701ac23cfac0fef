package models

import "errors"

// Domain error kinds. The core wraps these with %w and context; the HTTP
// boundary maps each kind to a status code. Anything outside this set is
// treated as an infrastructure failure.
var (
	ErrValidation = errors.New("invalid input")
	ErrConflict   = errors.New("already exists")
	ErrAuth       = errors.New("invalid credentials")
	ErrNotFound   = errors.New("not found")
)

// IsDomainError reports whether err is one of the four domain kinds,
// as opposed to a storage or infrastructure failure.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrAuth) ||
		errors.Is(err, ErrNotFound)
}
