package services

import (
	"context"
	"fmt"

	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
)

// ErrExecutionNotFound is returned when an execution record is not found.
var ErrExecutionNotFound = persistence.ErrExecutionNotFound

const defaultExecutionLimit = 50

// Executions exposes the read-only audit trail of rule runs.
type Executions struct {
	persistence persistence.Persistence
}

// NewExecutions creates a new executions service.
func NewExecutions(persistence persistence.Persistence) *Executions {
	return &Executions{persistence: persistence}
}

// ByID returns one execution record.
func (s *Executions) ByID(ctx context.Context, id string) (*models.WorkflowExecution, error) {
	return s.persistence.Executions().ByID(ctx, id)
}

// ByRule returns the newest execution records for one rule. The rule must
// exist; a limit of zero or less falls back to the default page size.
func (s *Executions) ByRule(ctx context.Context, ruleID string, limit int) ([]*models.WorkflowExecution, error) {
	_, err := s.persistence.Rules().ByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultExecutionLimit
	}

	executions, err := s.persistence.Executions().ByRule(ctx, ruleID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}

	return executions, nil
}
