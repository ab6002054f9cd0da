package progress

import "errors"

var (
	// ErrNotFound indicates no progress record exists for the user.
	ErrNotFound = errors.New("progress record not found")
	// ErrInvalidInput indicates the provided data failed validation.
	ErrInvalidInput = errors.New("invalid input")
)
