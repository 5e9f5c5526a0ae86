package domain

import "errors"

var (
	// ErrNotFound signals an unknown booking or user.
	ErrNotFound = errors.New("not found")
	// ErrNoMatchingOffer signals that no catalog offer matches the request.
	ErrNoMatchingOffer = errors.New("no matching offer")
	// ErrOverBudget signals that the selected offer exceeds the budget.
	ErrOverBudget = errors.New("offer exceeds budget")
)

// ValidationError describes rejected input. It maps to HTTP 400 and is never
// retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
