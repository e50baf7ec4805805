// Package persistence provides the data storage abstraction for workflow
// rules, execution audit records, and the business entities rule actions
// touch.
package persistence

import (
	"context"
	"time"

	"github.com/stayops/stayops/pkg/models"
)

// Persistence aggregates the repositories one storage backend provides.
type Persistence interface {
	Rules() RuleRepository
	Executions() ExecutionRepository
	Tasks() TaskRepository
	Bookings() BookingRepository
	Issues() IssueRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// RuleRepository stores workflow rules.
type RuleRepository interface {
	All(ctx context.Context) ([]*models.WorkflowRule, error)
	ByID(ctx context.Context, id string) (*models.WorkflowRule, error)

	// ActiveByTrigger returns active rules for a trigger ordered by priority
	// descending, rule ID ascending for equal priorities.
	ActiveByTrigger(ctx context.Context, trigger models.TriggerType) ([]*models.WorkflowRule, error)

	Save(ctx context.Context, rule *models.WorkflowRule) error
	Delete(ctx context.Context, id string) error

	// RecordExecution atomically increments the rule's execution counter and
	// stamps its last-executed time. Read-modify-write would lose updates
	// under concurrent triggers.
	RecordExecution(ctx context.Context, id string, executedAt time.Time) error
}

// ExecutionRepository stores write-once audit records of rule runs.
type ExecutionRepository interface {
	Save(ctx context.Context, execution *models.WorkflowExecution) error
	ByID(ctx context.Context, id string) (*models.WorkflowExecution, error)
	ByRule(ctx context.Context, ruleID string, limit int) ([]*models.WorkflowExecution, error)
}

// TaskRepository stores operational tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	ByID(ctx context.Context, id string) (*models.Task, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateAssignee(ctx context.Context, id, userID string) error

	// Overdue returns tasks whose due date passed before the given time and
	// which are not yet completed.
	Overdue(ctx context.Context, before time.Time) ([]*models.Task, error)
}

// BookingRepository exposes the booking operations the engine needs.
type BookingRepository interface {
	ByID(ctx context.Context, id string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// IssueRepository exposes the issue operations the engine needs.
type IssueRepository interface {
	ByID(ctx context.Context, id string) (*models.Issue, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdatePriority(ctx context.Context, id string, priority models.IssuePriority) error
}
