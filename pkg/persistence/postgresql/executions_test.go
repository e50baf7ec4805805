package postgresql_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
)

func TestExecutionRepository_SaveAndByID(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	rule := testRule(uuid.NewString(), models.TriggerBookingCreated, 0, true)
	require.NoError(t, p.Rules().Save(ctx, rule))

	execution := &models.WorkflowExecution{
		ID:              "exec-" + uuid.NewString()[:8],
		WorkflowRuleID:  rule.ID,
		TriggerType:     models.TriggerBookingCreated,
		TriggerEntityID: "booking-1",
		Status:          models.ExecutionPartial,
		ErrorMessage:    "smtp down",
		ExecutionLog: []models.ActionResult{
			{Type: models.ActionCreateTask, Success: true, Output: map[string]any{"task_id": "task-1"}},
			{Type: models.ActionSendEmail, Success: false, Error: "smtp down"},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	err := p.Executions().Save(ctx, execution)
	require.NoError(t, err)

	retrieved, err := p.Executions().ByID(ctx, execution.ID)
	require.NoError(t, err)

	assert.Equal(t, execution.Status, retrieved.Status)
	assert.Equal(t, execution.ErrorMessage, retrieved.ErrorMessage)
	assert.Equal(t, "booking-1", retrieved.TriggerEntityID)
	require.Len(t, retrieved.ExecutionLog, 2)
	assert.True(t, retrieved.ExecutionLog[0].Success)
	assert.Equal(t, "smtp down", retrieved.ExecutionLog[1].Error)

	_, err = p.Executions().ByID(ctx, "exec-missing")
	assert.ErrorIs(t, err, persistence.ErrExecutionNotFound)
}

func TestExecutionRepository_ByRule(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	rule := testRule(uuid.NewString(), models.TriggerTaskOverdue, 0, true)
	require.NoError(t, p.Rules().Save(ctx, rule))

	base := time.Now().UTC().Truncate(time.Millisecond)

	for i, id := range []string{"exec-1", "exec-2", "exec-3"} {
		require.NoError(t, p.Executions().Save(ctx, &models.WorkflowExecution{
			ID:             id,
			WorkflowRuleID: rule.ID,
			TriggerType:    models.TriggerTaskOverdue,
			Status:         models.ExecutionSuccess,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}))
	}

	require.NoError(t, p.Executions().Save(ctx, &models.WorkflowExecution{
		ID:             "exec-other",
		WorkflowRuleID: uuid.NewString(),
		TriggerType:    models.TriggerTaskOverdue,
		Status:         models.ExecutionFailed,
		CreatedAt:      base,
	}))

	executions, err := p.Executions().ByRule(ctx, rule.ID, 2)
	require.NoError(t, err)

	// Newest first, capped by the limit.
	require.Len(t, executions, 2)
	assert.Equal(t, "exec-3", executions[0].ID)
	assert.Equal(t, "exec-2", executions[1].ID)

	// Zero means unbounded.
	all, err := p.Executions().ByRule(ctx, rule.ID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
