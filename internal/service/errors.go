package service

import (
	"errors"
	"fmt"
)

var (
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")

	ErrPropertyNotFound        = errors.New("property not found")
	ErrImageNotFound           = errors.New("image not found")
	ErrTooManyImages           = errors.New("property image limit reached")
	ErrInvalidStatusTransition = errors.New("property status transition not allowed")

	ErrTeamNotFound   = errors.New("team not found")
	ErrMemberNotFound = errors.New("team member not found")

	ErrLeadNotFound          = errors.New("lead not found")
	ErrClientNotFound        = errors.New("client not found")
	ErrListNotFound          = errors.New("recommendation list not found")
	ErrAssistantItemNotFound = errors.New("assistant item not found")
)

// invalid wraps ErrInvalidInput with a client-facing detail.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
