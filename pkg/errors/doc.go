// Package errors provides custom error types for the aql-compiler.
//
// Each error type includes a constructor, Error() method, and a type-checking
// helper using errors.As for proper error unwrapping.
//
// # Error Types Overview
//
//	┌──────────────────────────┬────────┬─────────────────────────────────────┐
//	│ Error Type               │ HTTP   │ Description                         │
//	├──────────────────────────┼────────┼─────────────────────────────────────┤
//	│ ValidationError          │ 400    │ Expression cannot be compiled       │
//	│ InvalidQueryError        │ 400    │ Query compiled with errors          │
//	│ ResourceNotFoundError    │ 404    │ Requested resource doesn't exist    │
//	└──────────────────────────┴────────┴─────────────────────────────────────┘
//
// # ValidationError
//
// Produced by the filter compiler for a single expression: a missing
// comparison operator, a missing value, an invalid enum selection, a
// malformed subnet or version, an out of range size bound, unbalanced
// brackets or a missing logical operator. The message is meant for the user.
//
// Constructor:
//   - NewValidationError(msg string)
//
// # InvalidQueryError
//
// Wraps the first ValidationError of a compile pass when the caller needs
// a valid query (for example when saving it), or a saved-query reference
// that cannot be expanded.
//
// Constructor:
//   - NewInvalidQueryError(reason error)
//
// Usage:
//
//	if errors.IsInvalidQueryError(err) {
//	    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
//	}
//
// # ResourceNotFoundError
//
// Indicates a requested resource was not found in the store.
//
// Constructors:
//   - NewResourceNotFoundError(kind, id string) - Generic resource not found
//   - NewSavedQueryNotFoundError(id string)
//   - NewNamespaceNotFoundError(name string)
//
// # Type Checking Pattern
//
// All error types provide Is* helper functions that use errors.As
// for proper error chain unwrapping:
//
//	wrapped := fmt.Errorf("expanding query: %w", errors.NewSavedQueryNotFoundError(id))
//	errors.IsResourceNotFoundError(wrapped) // returns true
//
// # Handler Error Mapping
//
// Handlers typically map errors to HTTP status codes:
//
//	switch {
//	case errors.IsResourceNotFoundError(err):
//	    c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
//	case errors.IsValidationError(err), errors.IsInvalidQueryError(err):
//	    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
//	}
package errors
