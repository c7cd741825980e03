package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientFunds is returned when a debit would take a balance
	// below zero.
	ErrInsufficientFunds = errors.New("insufficient balance")

	// ErrInvalidMove is returned when a session move is not legal in the
	// current state, e.g. doubling after a hit.
	ErrInvalidMove = errors.New("move not available")

	// ErrLoanActive is returned when taking a loan while one is outstanding.
	ErrLoanActive = errors.New("a loan is already outstanding")

	// ErrNoLoan is returned when repaying or checking a loan that does not exist.
	ErrNoLoan = errors.New("no outstanding loan")

	// ErrAccountNotFound is returned when an operation requires an existing
	// account and none was found.
	ErrAccountNotFound = errors.New("account not found")
)

// ValidationError reports rejected caller input, e.g. a bet outside the
// allowed range. The message is safe to show to the player.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
