// Package engine evaluates stored workflow rules against domain triggers and
// executes their configured actions. It is the automation core of the
// platform: everything else is persistence and transport around it.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/otelhelper"
	"github.com/stayops/stayops/pkg/persistence"
	"github.com/stayops/stayops/pkg/registry"
)

// Result aggregates one invocation across every rule that matched.
// Errors are human-readable, prefixed with the rule's name, and meant for
// operational logs rather than machine parsing.
type Result struct {
	Executed int      `json:"executed"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors"`
}

type Engine struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	recorder    *Recorder
	logger      *slog.Logger
	tracer      trace.Tracer
}

func New(p persistence.Persistence, reg *registry.Registry, recorder *Recorder, logger *slog.Logger) *Engine {
	return &Engine{
		persistence: p,
		registry:    reg,
		recorder:    recorder,
		logger:      logger.With("module", "engine"),
		tracer:      otel.Tracer("stayops/engine"),
	}
}

// ExecuteWorkflows runs every active rule stored for the trigger, in
// priority order, against the given context. Rules are evaluated
// sequentially; each matched rule's actions run concurrently and settle
// before the rule's outcome is recorded.
//
// Failures are isolated per rule: a broken rule never stops the rest. Only
// the initial rule load can fail the whole invocation, since before rules
// are loaded there is nothing to isolate.
func (e *Engine) ExecuteWorkflows(ctx context.Context, trigger models.TriggerType, triggerCtx models.TriggerContext) (*Result, error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.execute_workflows",
		attribute.String(otelhelper.TriggerTypeKey, string(trigger)),
		attribute.String(otelhelper.EntityIDKey, triggerCtx.EntityID),
	)
	defer span.End()

	logger := e.logger.With("trigger", trigger, "entity_id", triggerCtx.EntityID)

	rules, err := e.persistence.Rules().ActiveByTrigger(ctx, trigger)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to load rules for trigger %s: %w", trigger, err)
	}

	logger.InfoContext(ctx, "Evaluating workflow rules", "candidates", len(rules))

	result := &Result{Errors: []string{}}

	for _, rule := range rules {
		e.runRule(ctx, rule, trigger, triggerCtx, result)
	}

	span.SetAttributes(
		attribute.Int("stayops.result.executed", result.Executed),
		attribute.Int("stayops.result.failed", result.Failed),
	)

	logger.InfoContext(ctx, "Finished evaluating workflow rules",
		"executed", result.Executed, "failed", result.Failed)

	return result, nil
}

// runRule is the per-rule isolation boundary: a panic while processing one
// rule is converted into a failure entry so the remaining rules still run.
func (e *Engine) runRule(ctx context.Context, rule *models.WorkflowRule, trigger models.TriggerType, triggerCtx models.TriggerContext, result *Result) {
	defer func() {
		if r := recover(); r != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Workflow %q: %v", rule.Name, r))

			e.logger.ErrorContext(ctx, "Recovered from panic while processing rule",
				"rule_id", rule.ID, "panic", r)
		}
	}()

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.rule",
		attribute.String(otelhelper.RuleIDKey, rule.ID),
		attribute.String(otelhelper.RuleNameKey, rule.Name),
	)
	defer span.End()

	logger := e.logger.With("rule_id", rule.ID, "rule_name", rule.Name)

	// Scope and condition mismatches are not errors: no record, no count.
	if !rule.InScope(triggerCtx.PropertyID, triggerCtx.OwnerID) {
		logger.DebugContext(ctx, "Rule out of scope, skipping")

		return
	}

	if !models.MatchesConditions(rule.Conditions, triggerCtx.EntityData) {
		logger.DebugContext(ctx, "Rule conditions did not match, skipping")

		return
	}

	actionResults := e.executeActions(ctx, rule, triggerCtx, logger)

	execution, err := e.recorder.Record(ctx, rule, trigger, triggerCtx, actionResults)
	if err != nil {
		otelhelper.SetError(span, err)

		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("Workflow %q: %s", rule.Name, err.Error()))

		logger.ErrorContext(ctx, "Failed to record rule execution", "error", err)

		return
	}

	span.SetAttributes(attribute.String(otelhelper.ExecutionStatusKey, string(execution.Status)))

	if execution.Status == models.ExecutionSuccess {
		result.Executed++

		return
	}

	result.Failed++
	result.Errors = append(result.Errors, fmt.Sprintf("Workflow %q: %s", rule.Name, execution.ErrorMessage))
}

// executeActions fans a rule's actions out concurrently and settles them
// all. A slow or failing action never blocks or cancels its siblings, and
// nothing is rolled back on partial failure.
func (e *Engine) executeActions(ctx context.Context, rule *models.WorkflowRule, triggerCtx models.TriggerContext, logger *slog.Logger) []models.ActionResult {
	results := make([]models.ActionResult, len(rule.Actions))

	var wg sync.WaitGroup

	for i, actionConfig := range rule.Actions {
		wg.Add(1)

		go func(i int, actionConfig models.ActionConfig) {
			defer wg.Done()

			results[i] = e.executeAction(ctx, actionConfig, triggerCtx, logger)
		}(i, actionConfig)
	}

	wg.Wait()

	return results
}

// executeAction is the per-action dispatch boundary: handler errors and
// panics both become structured failure results.
func (e *Engine) executeAction(ctx context.Context, actionConfig models.ActionConfig, triggerCtx models.TriggerContext, logger *slog.Logger) (result models.ActionResult) {
	result = models.ActionResult{
		Type:   actionConfig.Type,
		Params: actionConfig.Params,
	}

	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Error = fmt.Sprintf("action panicked: %v", r)
		}
	}()

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.action",
		attribute.String(otelhelper.ActionTypeKey, string(actionConfig.Type)),
	)
	defer span.End()

	action, err := e.registry.CreateAction(actionConfig.Type, actionConfig.Params)
	if err != nil {
		otelhelper.SetError(span, err)
		result.Error = err.Error()

		return result
	}

	output, err := action.Execute(ctx, triggerCtx, logger)
	if err != nil {
		otelhelper.SetError(span, err)
		result.Error = err.Error()

		return result
	}

	result.Success = true
	result.Output = output

	return result
}
