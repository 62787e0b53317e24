package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrForbidden    ErrorCode = "FORBIDDEN"

	// Domain rule violations (duplicate username, self-deletion, empty quiz, ...)
	ErrInvalidOperation ErrorCode = "INVALID_OPERATION"

	// ID allocation and persistence errors
	ErrIDSpaceExhausted   ErrorCode = "ID_SPACE_EXHAUSTED"
	ErrPersistenceFailure ErrorCode = "PERSISTENCE_FAILURE"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInvalidOperationError(message string) *DomainError {
	return NewError(ErrInvalidOperation, message, nil)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(ErrUnauthorized, message, nil)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(ErrForbidden, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

// NewIDSpaceExhaustedError reports that the allocator could not find a free
// identifier for the given entity type within the bounded attempt count.
func NewIDSpaceExhaustedError(entityType string, attempts int) *DomainError {
	return NewError(ErrIDSpaceExhausted,
		fmt.Sprintf("could not find an available id for %s after %d attempts", entityType, attempts), nil)
}

// NewPersistenceError wraps a failed store write. The underlying cause is kept
// for logging; callers only see a generic message.
func NewPersistenceError(message string, err error) *DomainError {
	return NewError(ErrPersistenceFailure, message, err)
}
