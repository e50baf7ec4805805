package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
	"github.com/stayops/stayops/pkg/registry"
)

// ErrRuleNotFound is returned when a rule is not found.
var ErrRuleNotFound = persistence.ErrRuleNotFound

// Rules is the admin service for workflow rules: it validates rule
// definitions before they reach storage and mediates activation state.
type Rules struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	validator   *validator.Validate
}

// NewRules creates a new rules service.
func NewRules(persistence persistence.Persistence, registry *registry.Registry) *Rules {
	return &Rules{
		persistence: persistence,
		registry:    registry,
		validator:   validator.New(),
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *Rules) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// List returns every stored rule.
func (s *Rules) List(ctx context.Context) ([]*models.WorkflowRule, error) {
	rules, err := s.persistence.Rules().All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}

	return rules, nil
}

// ByID returns one rule.
func (s *Rules) ByID(ctx context.Context, id string) (*models.WorkflowRule, error) {
	return s.persistence.Rules().ByID(ctx, id)
}

// Create validates and stores a new rule. New rules start inactive so a
// half-configured rule never fires.
func (s *Rules) Create(ctx context.Context, rule *models.WorkflowRule) (*models.WorkflowRule, error) {
	if rule == nil {
		return nil, ErrRuleNil
	}

	err := s.validateRule(rule)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rule.ID = uuid.New().String()
	rule.IsActive = false
	rule.ExecutionCount = 0
	rule.LastExecutedAt = nil
	rule.CreatedAt = now
	rule.UpdatedAt = now

	err = s.persistence.Rules().Save(ctx, rule)
	if err != nil {
		return nil, fmt.Errorf("failed to save rule: %w", err)
	}

	return rule, nil
}

// Update validates and stores changes to an existing rule. Execution
// bookkeeping fields are preserved from the stored row.
func (s *Rules) Update(ctx context.Context, id string, rule *models.WorkflowRule) (*models.WorkflowRule, error) {
	if rule == nil {
		return nil, ErrRuleNil
	}

	existing, err := s.persistence.Rules().ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.validateRule(rule)
	if err != nil {
		return nil, err
	}

	rule.ID = existing.ID
	rule.IsActive = existing.IsActive
	rule.ExecutionCount = existing.ExecutionCount
	rule.LastExecutedAt = existing.LastExecutedAt
	rule.CreatedAt = existing.CreatedAt
	rule.UpdatedAt = time.Now().UTC()

	err = s.persistence.Rules().Save(ctx, rule)
	if err != nil {
		return nil, fmt.Errorf("failed to save rule: %w", err)
	}

	return rule, nil
}

// Activate enables a rule for dispatch.
func (s *Rules) Activate(ctx context.Context, id string) (*models.WorkflowRule, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate disables a rule; the engine never loads inactive rules.
func (s *Rules) Deactivate(ctx context.Context, id string) (*models.WorkflowRule, error) {
	return s.setActive(ctx, id, false)
}

func (s *Rules) setActive(ctx context.Context, id string, active bool) (*models.WorkflowRule, error) {
	rule, err := s.persistence.Rules().ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rule.IsActive == active {
		if active {
			return nil, ErrRuleAlreadyActive
		}

		return nil, ErrRuleAlreadyInactive
	}

	rule.IsActive = active
	rule.UpdatedAt = time.Now().UTC()

	err = s.persistence.Rules().Save(ctx, rule)
	if err != nil {
		return nil, fmt.Errorf("failed to save rule: %w", err)
	}

	return rule, nil
}

// Delete removes a rule permanently. Its execution records remain for audit.
func (s *Rules) Delete(ctx context.Context, id string) error {
	return s.persistence.Rules().Delete(ctx, id)
}

// validateRule checks struct tags, the trigger type and every action's
// params schema.
func (s *Rules) validateRule(rule *models.WorkflowRule) error {
	err := s.validator.Struct(rule)
	if err != nil {
		return NewValidationError("validateRule", "INVALID_RULE", err.Error(), ErrInvalidRequest)
	}

	if !models.IsValidTrigger(rule.Trigger) {
		return NewValidationError(
			"validateRule",
			"INVALID_TRIGGER",
			fmt.Sprintf("unknown trigger type '%s'", rule.Trigger),
			ErrInvalidTrigger,
		)
	}

	for i, action := range rule.Actions {
		err := s.registry.ValidateActionParams(action.Type, action.Params)
		if err != nil {
			return NewValidationError(
				"validateRule",
				"INVALID_ACTION_PARAMS",
				fmt.Sprintf("action %d: %v", i, err),
				ErrInvalidActionParams,
			)
		}
	}

	return nil
}
