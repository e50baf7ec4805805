// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrRuleNotFound indicates a workflow rule was not found by the given identifier.
	ErrRuleNotFound = errors.New("workflow rule not found")

	// ErrExecutionNotFound indicates an execution record was not found.
	ErrExecutionNotFound = errors.New("workflow execution not found")

	// ErrTaskNotFound indicates a task was not found by the given identifier.
	ErrTaskNotFound = errors.New("task not found")

	// ErrBookingNotFound indicates a booking was not found by the given identifier.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrIssueNotFound indicates an issue was not found by the given identifier.
	ErrIssueNotFound = errors.New("issue not found")

	// ErrUnsupportedEntityType indicates a status update targeted an entity
	// type without a store.
	ErrUnsupportedEntityType = errors.New("unsupported entity type")
)

// RuleError wraps rule-related errors with operation context.
type RuleError struct {
	Op     string // Operation being performed (e.g., "ByID", "Save", "RecordExecution")
	RuleID string // Rule ID if applicable
	Err    error  // Underlying error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s operation failed for rule %s: %v", e.Op, e.RuleID, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

func (e *RuleError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewRuleError creates a new rule error with context.
func NewRuleError(op, ruleID string, err error) *RuleError {
	return &RuleError{
		Op:     op,
		RuleID: ruleID,
		Err:    err,
	}
}

// IsRuleNotFound checks if an error indicates a workflow rule was not found.
func IsRuleNotFound(err error) bool {
	return errors.Is(err, ErrRuleNotFound)
}

// IsExecutionNotFound checks if an error indicates an execution record was not found.
func IsExecutionNotFound(err error) bool {
	return errors.Is(err, ErrExecutionNotFound)
}

// IsTaskNotFound checks if an error indicates a task was not found.
func IsTaskNotFound(err error) bool {
	return errors.Is(err, ErrTaskNotFound)
}
