package service

import (
	"errors"
	"fmt"

	"schuldenfrei/internal/domain"
)

var (
	ErrNotFound         = domain.ErrNotFound
	ErrFreeLimitReached = errors.New("free plan debt limit reached")
	ErrPremiumRequired  = errors.New("premium plan required")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
)

// LimitError carries the limit that was hit so callers can show it.
type LimitError struct {
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("free plan allows at most %d debts", e.Limit)
}

func (e *LimitError) Is(target error) bool {
	return target == ErrFreeLimitReached
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
