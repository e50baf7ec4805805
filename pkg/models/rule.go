// Package models defines the core domain models for the workflow rule engine.
package models

import (
	"slices"
	"time"
)

// TriggerType identifies the domain event that can activate workflow rules.
type TriggerType string

const (
	TriggerBookingCreated       TriggerType = "BOOKING_CREATED"
	TriggerBookingUpdated       TriggerType = "BOOKING_UPDATED"
	TriggerBookingStatusChanged TriggerType = "BOOKING_STATUS_CHANGED"
	TriggerBookingCheckout      TriggerType = "BOOKING_CHECKOUT"
	TriggerBookingCheckedIn     TriggerType = "BOOKING_CHECKED_IN"
	TriggerTaskCreated          TriggerType = "TASK_CREATED"
	TriggerTaskCompleted        TriggerType = "TASK_COMPLETED"
	TriggerTaskOverdue          TriggerType = "TASK_OVERDUE"
	TriggerIssueCreated         TriggerType = "ISSUE_CREATED"
	TriggerIssueStatusChanged   TriggerType = "ISSUE_STATUS_CHANGED"
	TriggerIssuePriorityChanged TriggerType = "ISSUE_PRIORITY_CHANGED"
	TriggerExpenseCreated       TriggerType = "EXPENSE_CREATED"
	TriggerStatementFinalized   TriggerType = "STATEMENT_FINALIZED"
	TriggerScheduled            TriggerType = "SCHEDULED"
)

// TriggerTypes lists every trigger the engine reacts to.
var TriggerTypes = []TriggerType{
	TriggerBookingCreated,
	TriggerBookingUpdated,
	TriggerBookingStatusChanged,
	TriggerBookingCheckout,
	TriggerBookingCheckedIn,
	TriggerTaskCreated,
	TriggerTaskCompleted,
	TriggerTaskOverdue,
	TriggerIssueCreated,
	TriggerIssueStatusChanged,
	TriggerIssuePriorityChanged,
	TriggerExpenseCreated,
	TriggerStatementFinalized,
	TriggerScheduled,
}

// IsValidTrigger reports whether t is one of the known trigger types.
func IsValidTrigger(t TriggerType) bool {
	return slices.Contains(TriggerTypes, t)
}

// WorkflowRule is a stored automation definition: when the trigger fires and
// every condition matches within the rule's scope, its actions are executed.
//
// ExecutionCount and LastExecutedAt are mutated only by the engine after each
// attempted run; everything else is edited externally through the admin API.
type WorkflowRule struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"        validate:"required,min=3"`
	Description string         `json:"description"`
	Trigger     TriggerType    `json:"trigger"     validate:"required"`
	Conditions  []Condition    `json:"conditions"`
	Actions     []ActionConfig `json:"actions"     validate:"required,min=1,dive"`

	// Optional allowlists. Empty means unrestricted.
	PropertyIDs []string `json:"property_ids,omitempty"`
	OwnerIDs    []string `json:"owner_ids,omitempty"`

	Priority int  `json:"priority"`
	IsActive bool `json:"is_active"`

	ExecutionCount int64      `json:"execution_count"`
	LastExecutedAt *time.Time `json:"last_executed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InScope reports whether a trigger context's property/owner identity falls
// inside the rule's allowlists. A rule with no allowlists matches everything.
// Each allowlist that is present requires the corresponding identifier to be
// set and contained in it; both constraints must hold when both are present.
func (r *WorkflowRule) InScope(propertyID, ownerID string) bool {
	if len(r.PropertyIDs) == 0 && len(r.OwnerIDs) == 0 {
		return true
	}

	if len(r.PropertyIDs) > 0 {
		if propertyID == "" || !slices.Contains(r.PropertyIDs, propertyID) {
			return false
		}
	}

	if len(r.OwnerIDs) > 0 {
		if ownerID == "" || !slices.Contains(r.OwnerIDs, ownerID) {
			return false
		}
	}

	return true
}
