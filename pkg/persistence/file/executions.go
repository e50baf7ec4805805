package file

import (
	"context"
	"sort"

	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
)

const executionsKind = "executions"

// ExecutionRepository stores write-once execution audit records.
type ExecutionRepository struct {
	p *Persistence
}

func (r *ExecutionRepository) Save(ctx context.Context, execution *models.WorkflowExecution) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	return r.p.write(executionsKind, execution.ID, execution)
}

func (r *ExecutionRepository) ByID(ctx context.Context, id string) (*models.WorkflowExecution, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	execution := &models.WorkflowExecution{}

	err := r.p.read(executionsKind, id, execution, persistence.ErrExecutionNotFound)
	if err != nil {
		return nil, err
	}

	return execution, nil
}

func (r *ExecutionRepository) ByRule(ctx context.Context, ruleID string, limit int) ([]*models.WorkflowExecution, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	ids, err := r.p.ids(executionsKind)
	if err != nil {
		return nil, err
	}

	executions := make([]*models.WorkflowExecution, 0)

	for _, id := range ids {
		execution := &models.WorkflowExecution{}

		err := r.p.read(executionsKind, id, execution, persistence.ErrExecutionNotFound)
		if err != nil {
			return nil, err
		}

		if execution.WorkflowRuleID == ruleID {
			executions = append(executions, execution)
		}
	}

	sort.Slice(executions, func(i, j int) bool {
		return executions[i].CreatedAt.After(executions[j].CreatedAt)
	})

	if limit > 0 && len(executions) > limit {
		executions = executions[:limit]
	}

	return executions, nil
}
