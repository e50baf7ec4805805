package engine_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayops/stayops/pkg/engine"
	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/notification"
	"github.com/stayops/stayops/pkg/persistence/file"
	"github.com/stayops/stayops/pkg/registry"
)

type stubNotifier struct {
	sent []models.Notification
}

func (n *stubNotifier) Send(_ context.Context, notification models.Notification) error {
	n.sent = append(n.sent, notification)

	return nil
}

var _ notification.Notifier = (*stubNotifier)(nil)

func newTestEngine(t *testing.T) (*engine.Engine, *file.Persistence, *stubNotifier) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	persistence := file.NewPersistence(t.TempDir())

	notifier := &stubNotifier{}

	reg := registry.NewRegistry(logger)
	reg.RegisterDefaultActions(persistence, notifier)

	recorder := engine.NewRecorder(persistence, nil, logger)

	return engine.New(persistence, reg, recorder, logger), persistence, notifier
}

func saveRule(t *testing.T, p *file.Persistence, rule *models.WorkflowRule) {
	t.Helper()

	now := time.Now().UTC()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	require.NoError(t, p.Rules().Save(context.Background(), rule))
}

func bookingContext() models.TriggerContext {
	return models.TriggerContext{
		EntityType: models.EntityBooking,
		EntityID:   "booking-1",
		EntityData: map[string]any{
			"status":       "confirmed",
			"total_payout": 500.0,
		},
		PropertyID: "prop-1",
		OwnerID:    "owner-1",
	}
}

func TestExecuteWorkflows_Success(t *testing.T) {
	eng, p, _ := newTestEngine(t)
	ctx := context.Background()

	saveRule(t, p, &models.WorkflowRule{
		ID:       "rule-1",
		Name:     "Checkout cleaning",
		Trigger:  models.TriggerBookingCreated,
		IsActive: true,
		Actions: []models.ActionConfig{
			{Type: models.ActionCreateTask, Params: map[string]any{"title": "Clean unit", "task_type": "cleaning"}},
		},
	})

	result, err := eng.ExecuteWorkflows(ctx, models.TriggerBookingCreated, bookingContext())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Executed)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)

	executions, err := p.Executions().ByRule(ctx, "rule-1", 10)
	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.Equal(t, models.ExecutionSuccess, executions[0].Status)
	assert.Empty(t, executions[0].ErrorMessage)
	assert.Equal(t, models.TriggerBookingCreated, executions[0].TriggerType)
	assert.Equal(t, "booking-1", executions[0].TriggerEntityID)
	require.Len(t, executions[0].ExecutionLog, 1)
	assert.True(t, executions[0].ExecutionLog[0].Success)

	// The created task is reachable through the ID the action reported.
	taskID, _ := executions[0].ExecutionLog[0].Output["task_id"].(string)
	require.NotEmpty(t, taskID)

	task, err := p.Tasks().ByID(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, "prop-1", task.PropertyID)
	assert.Equal(t, models.TaskTypeCleaning, task.Type)

	rule, err := p.Rules().ByID(ctx, "rule-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rule.ExecutionCount)
	assert.NotNil(t, rule.LastExecutedAt)
}

func TestExecuteWorkflows_InactiveRuleNeverRuns(t *testing.T) {
	eng, p, _ := newTestEngine(t)
	ctx := context.Background()

	saveRule(t, p, &models.WorkflowRule{
		ID:       "rule-1",
		Name:     "Disabled rule",
		Trigger:  models.TriggerBookingCreated,
		IsActive: false,
		Actions: []models.ActionConfig{
			{Type: models.ActionCreateTask, Params: map[string]any{"title": "Never"}},
		},
	})

	result, err := eng.ExecuteWorkflows(ctx, models.TriggerBookingCreated, bookingContext())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Executed)
	assert.Equal(t, 0, result.Failed)

	executions, err := p.Executions().ByRule(ctx, "rule-1", 10)
	require.NoError(t, err)
	assert.Empty(t, executions)

	rule, err := p.Rules().ByID(ctx, "rule-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rule.ExecutionCount)
}

func TestExecuteWorkflows_OutOfScopeLeavesNoTrace(t *testing.T) {
	eng, p, _ := newTestEngine(t)
	ctx := context.Background()

	saveRule(t, p, &models.WorkflowRule{
		ID:          "rule-1",
		Name:        "Other property only",
		Trigger:     models.TriggerBookingCreated,
		IsActive:    true,
		PropertyIDs: []string{"prop-9"},
		Actions: []models.ActionConfig{
			{Type: models.ActionCreateTask, Params: map[string]any{"title": "Never"}},
		},
	})

	result, err := eng.ExecuteWorkflows(ctx, models.TriggerBookingCreated, bookingContext())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Executed)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)

	executions, err := p.Executions().ByRule(ctx, "rule-1", 10)
	require.NoError(t, err)
	assert.Empty(t, executions)

	rule, err := p.Rules().ByID(ctx, "rule-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rule.ExecutionCount)
	assert.Nil(t, rule.LastExecutedAt)
}

func TestExecuteWorkflows_ConditionMismatchSkipsSilently(t *testing.T) {
	eng, p, _ := newTestEngine(t)
	ctx := context.Background()

	saveRule(t, p, &models.WorkflowRule{
		ID:       "rule-1",
		Name:     "Cancellation rule",
		Trigger:  models.TriggerBookingCreated,
		IsActive: true,
		Conditions: []models.Condition{
			{Field: "status", Operator: models.OperatorEquals, Value: "cancelled"},
		},
		Actions: []models.ActionConfig{
			{Type: models.ActionCreateTask, Params: map[string]any{"title": "Never"}},
		},
	})

	result, err := eng.ExecuteWorkflows(ctx, models.TriggerBookingCreated, bookingContext())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Executed)
	assert.Equal(t, 0, result.Failed)

	executions, err := p.Executions().ByRule(ctx, "rule-1", 10)
	require.NoError(t, err)
	assert.Empty(t, executions)
}

func TestExecuteWorkflows_PartialFailure(t *testing.T) {
	eng, p, notifier := newTestEngine(t)
	ctx := context.Background()

	saveRule(t, p, &models.WorkflowRule{
		ID:       "rule-1",
		Name:     "Mixed outcome",
		Trigger:  models.TriggerBookingCreated,
		IsActive: true,
		Actions: []models.ActionConfig{
			{Type: models.ActionCreateTask, Params: map[string]any{"title": "Clean unit"}},
			{Type: models.ActionSendEmail, Params: map[string]any{"title": "Hi", "message": "New booking"}},
		},
	})

	// No owner in the context makes the email action fail while the task
	// action still succeeds.
	triggerCtx := bookingContext()
	triggerCtx.OwnerID = ""

	result, err := eng.ExecuteWorkflows(ctx, models.TriggerBookingCreated, triggerCtx)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Executed)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `Workflow "Mixed outcome"`)
	assert.Contains(t, result.Errors[0], "owner id is required")

	executions, err := p.Executions().ByRule(ctx, "rule-1", 10)
	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.Equal(t, models.ExecutionPartial, executions[0].Status)
	assert.Contains(t, executions[0].ErrorMessage, "owner id is required")

	// The attempt still counts.
	rule, err := p.Rules().ByID(ctx, "rule-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rule.ExecutionCount)

	assert.Empty(t, notifier.sent)
}

func TestExecuteWorkflows_AllActionsFail(t *testing.T) {
	eng, p, _ := newTestEngine(t)
	ctx := context.Background()

	saveRule(t, p, &models.WorkflowRule{
		ID:       "rule-1",
		Name:     "Doomed rule",
		Trigger:  models.TriggerBookingCreated,
		IsActive: true,
		Actions: []models.ActionConfig{
			{Type: models.ActionSendEmail, Params: map[string]any{"title": "Hi", "message": "Hello"}},
			{Type: models.ActionSendSMS, Params: map[string]any{"title": "Hi", "message": "Hello"}},
		},
	})

	triggerCtx := bookingContext()
	triggerCtx.OwnerID = ""

	result, err := eng.ExecuteWorkflows(ctx, models.TriggerBookingCreated, triggerCtx)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)

	executions, err := p.Executions().ByRule(ctx, "rule-1", 10)
	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.Equal(t, models.ExecutionFailed, executions[0].Status)

	rule, err := p.Rules().ByID(ctx, "rule-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rule.ExecutionCount)
}

func TestExecuteWorkflows_UnknownActionTypeFailsTheRule(t *testing.T) {
	eng, p, _ := newTestEngine(t)
	ctx := context.Background()

	saveRule(t, p, &models.WorkflowRule{
		ID:       "rule-1",
		Name:     "Misconfigured rule",
		Trigger:  models.TriggerBookingCreated,
		IsActive: true,
		Actions: []models.ActionConfig{
			{Type: "LAUNCH_ROCKET", Params: map[string]any{}},
		},
	})

	result, err := eng.ExecuteWorkflows(ctx, models.TriggerBookingCreated, bookingContext())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "not registered")

	executions, err := p.Executions().ByRule(ctx, "rule-1", 10)
	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.Equal(t, models.ExecutionFailed, executions[0].Status)
}

func TestExecuteWorkflows_RuleFailureIsIsolated(t *testing.T) {
	eng, p, _ := newTestEngine(t)
	ctx := context.Background()

	saveRule(t, p, &models.WorkflowRule{
		ID:       "rule-a",
		Name:     "Broken rule",
		Trigger:  models.TriggerBookingCreated,
		IsActive: true,
		Priority: 10,
		Actions: []models.ActionConfig{
			{Type: "LAUNCH_ROCKET", Params: map[string]any{}},
		},
	})
	saveRule(t, p, &models.WorkflowRule{
		ID:       "rule-b",
		Name:     "Healthy rule",
		Trigger:  models.TriggerBookingCreated,
		IsActive: true,
		Priority: 5,
		Actions: []models.ActionConfig{
			{Type: models.ActionCreateTask, Params: map[string]any{"title": "Clean unit"}},
		},
	})

	result, err := eng.ExecuteWorkflows(ctx, models.TriggerBookingCreated, bookingContext())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Executed)
	assert.Equal(t, 1, result.Failed)

	executions, err := p.Executions().ByRule(ctx, "rule-b", 10)
	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.Equal(t, models.ExecutionSuccess, executions[0].Status)
}

func TestExecuteWorkflows_RepeatInvocationIsNotIdempotent(t *testing.T) {
	eng, p, _ := newTestEngine(t)
	ctx := context.Background()

	saveRule(t, p, &models.WorkflowRule{
		ID:       "rule-1",
		Name:     "Repeat rule",
		Trigger:  models.TriggerBookingCreated,
		IsActive: true,
		Actions: []models.ActionConfig{
			{Type: models.ActionCreateTask, Params: map[string]any{"title": "Clean unit"}},
		},
	})

	triggerCtx := bookingContext()

	_, err := eng.ExecuteWorkflows(ctx, models.TriggerBookingCreated, triggerCtx)
	require.NoError(t, err)

	_, err = eng.ExecuteWorkflows(ctx, models.TriggerBookingCreated, triggerCtx)
	require.NoError(t, err)

	executions, err := p.Executions().ByRule(ctx, "rule-1", 10)
	require.NoError(t, err)
	assert.Len(t, executions, 2)

	rule, err := p.Rules().ByID(ctx, "rule-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rule.ExecutionCount)
}

func TestExecuteWorkflows_NoRulesForTrigger(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	result, err := eng.ExecuteWorkflows(context.Background(), models.TriggerStatementFinalized, bookingContext())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Executed)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)
}

func TestExecuteWorkflows_NotificationFlow(t *testing.T) {
	eng, p, notifier := newTestEngine(t)
	ctx := context.Background()

	saveRule(t, p, &models.WorkflowRule{
		ID:       "rule-1",
		Name:     "Owner alert",
		Trigger:  models.TriggerIssueCreated,
		IsActive: true,
		Actions: []models.ActionConfig{
			{Type: models.ActionSendNotification, Params: map[string]any{
				"title":    "New issue",
				"message":  "An issue was reported",
				"channels": []any{"EMAIL", "SMS"},
			}},
		},
	})

	triggerCtx := models.TriggerContext{
		EntityType: models.EntityIssue,
		EntityID:   "issue-1",
		EntityData: map[string]any{"priority": "high"},
		PropertyID: "prop-1",
		OwnerID:    "owner-1",
	}

	result, err := eng.ExecuteWorkflows(ctx, models.TriggerIssueCreated, triggerCtx)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Executed)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "owner-1", notifier.sent[0].OwnerID)
	assert.Equal(t,
		[]models.NotificationChannel{models.ChannelEmail, models.ChannelSMS},
		notifier.sent[0].Channels)
}
