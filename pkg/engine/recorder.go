package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stayops/stayops/pkg/eventbus"
	"github.com/stayops/stayops/pkg/events"
	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
)

// Recorder classifies and persists the outcome of one rule's action batch
// as a write-once audit record, and bumps the rule's execution counters.
type Recorder struct {
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	logger      *slog.Logger
}

// NewRecorder creates a recorder. eventBus may be nil; execution events are
// then simply not emitted.
func NewRecorder(p persistence.Persistence, eventBus eventbus.EventBus, logger *slog.Logger) *Recorder {
	return &Recorder{
		persistence: p,
		eventBus:    eventBus,
		logger:      logger.With("module", "execution_recorder"),
	}
}

// Record writes the audit row and increments the rule's counters. A rule
// counts as executed whenever it was attempted, so the counter bump happens
// regardless of the batch outcome. The audit write and the counter bump are
// not one transaction; an execution row without a matching counter bump is a
// tolerated partial state.
func (r *Recorder) Record(ctx context.Context, rule *models.WorkflowRule, trigger models.TriggerType, triggerCtx models.TriggerContext, results []models.ActionResult) (*models.WorkflowExecution, error) {
	execution := &models.WorkflowExecution{
		ID:              "exec-" + uuid.New().String()[:8],
		WorkflowRuleID:  rule.ID,
		TriggerType:     trigger,
		TriggerEntityID: triggerCtx.EntityID,
		Status:          ClassifyResults(results),
		ErrorMessage:    joinActionErrors(results),
		ExecutionLog:    results,
		CreatedAt:       time.Now().UTC(),
	}

	err := r.persistence.Executions().Save(ctx, execution)
	if err != nil {
		return nil, fmt.Errorf("failed to save execution record: %w", err)
	}

	err = r.persistence.Rules().RecordExecution(ctx, rule.ID, execution.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update rule counters: %w", err)
	}

	r.publishRecorded(ctx, rule, trigger, execution)

	return execution, nil
}

// ClassifyResults maps a settled action batch to its execution status:
// SUCCESS when nothing failed, FAILED when everything did, PARTIAL for the
// rest.
func ClassifyResults(results []models.ActionResult) models.ExecutionStatus {
	failed := 0

	for _, result := range results {
		if !result.Success {
			failed++
		}
	}

	switch failed {
	case 0:
		return models.ExecutionSuccess
	case len(results):
		return models.ExecutionFailed
	default:
		return models.ExecutionPartial
	}
}

// joinActionErrors concatenates the failed actions' errors. Empty when every
// action succeeded, so the audit row carries a message only on failure.
func joinActionErrors(results []models.ActionResult) string {
	errs := make([]string, 0, len(results))

	for _, result := range results {
		if !result.Success && result.Error != "" {
			errs = append(errs, result.Error)
		}
	}

	return strings.Join(errs, ", ")
}

// publishRecorded emits the audit event for dashboards. Best effort: a bus
// failure is logged, never surfaced as a rule failure.
func (r *Recorder) publishRecorded(ctx context.Context, rule *models.WorkflowRule, trigger models.TriggerType, execution *models.WorkflowExecution) {
	if r.eventBus == nil {
		return
	}

	event := events.ExecutionRecorded{
		BaseEvent: events.BaseEvent{
			ID:        r.eventBus.GenerateID(),
			Type:      events.ExecutionRecordedEvent,
			Timestamp: execution.CreatedAt,
		},
		ExecutionID:  execution.ID,
		RuleID:       rule.ID,
		RuleName:     rule.Name,
		Trigger:      trigger,
		Status:       execution.Status,
		ErrorMessage: execution.ErrorMessage,
	}

	err := r.eventBus.Publish(ctx, rule.ID, event)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to publish execution recorded event",
			"execution_id", execution.ID, "error", err)
	}
}
