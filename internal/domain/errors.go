package domain

import "errors"

// Sentinel errors for the pairdeck core.
// Use errors.Is to check: errors.Is(err, domain.ErrNotFound)
var (
	ErrValidation   = errors.New("pairdeck: invalid input")
	ErrNotFound     = errors.New("pairdeck: pair not found")
	ErrInvalidState = errors.New("pairdeck: operation not allowed in current state")
)
