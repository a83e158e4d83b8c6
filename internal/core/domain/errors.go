package domain

import "errors"

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateRequest = errors.New("duplicate request in progress")
)

// ValidationError names the first caller-supplied field that violated a
// precondition.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}
