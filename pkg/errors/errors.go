package errors

import (
	"errors"
	"fmt"
)

// ValidationError indicates a query expression that cannot be compiled as entered.
// The message is shown to the user unchanged.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError checks if the error is a ValidationError.
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// ResourceNotFoundError indicates a resource was not found.
type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func NewResourceNotFoundError(kind string, id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: kind, ID: id}
}

func NewSavedQueryNotFoundError(id string) *ResourceNotFoundError {
	return NewResourceNotFoundError("saved query", id)
}

func NewNamespaceNotFoundError(name string) *ResourceNotFoundError {
	return NewResourceNotFoundError("schema namespace", name)
}

func (e *ResourceNotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// InvalidQueryError indicates a query whose compilation produced errors,
// or whose saved-query references cannot be resolved.
type InvalidQueryError struct {
	Reason error
}

func NewInvalidQueryError(reason error) *InvalidQueryError {
	return &InvalidQueryError{Reason: reason}
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query: %s", e.Reason)
}

func (e *InvalidQueryError) Unwrap() error {
	return e.Reason
}

func IsInvalidQueryError(err error) bool {
	var e *InvalidQueryError
	return errors.As(err, &e)
}
