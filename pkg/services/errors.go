// Package services provides the business logic layer between the HTTP API
// and persistence.
package services

import (
	"errors"
	"fmt"
)

// Business logic errors. These indicate client errors (4xx responses).
var (
	// Validation errors (400 Bad Request).
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInvalidTrigger      = errors.New("invalid trigger type")
	ErrInvalidActionParams = errors.New("invalid action parameters")
	ErrRuleNil             = errors.New("rule cannot be nil")

	// Business logic conflicts (409 Conflict).
	ErrRuleAlreadyActive   = errors.New("rule is already active")
	ErrRuleAlreadyInactive = errors.New("rule is already inactive")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should
// return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidTrigger) ||
		errors.Is(err, ErrInvalidActionParams) ||
		errors.Is(err, ErrRuleNil)
}

// IsConflictError checks if an error is a business logic conflict that
// should return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrRuleAlreadyActive) ||
		errors.Is(err, ErrRuleAlreadyInactive)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
