package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
)

// RuleRepository handles workflow rule database operations.
type RuleRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

const ruleColumns = `
		id
	  , name
	  , description
	  , trigger_type
	  , conditions
	  , actions
	  , property_ids
	  , owner_ids
	  , priority
	  , is_active
	  , execution_count
	  , last_executed_at
	  , created_at
	  , updated_at
`

// All returns every stored rule, newest first.
func (r *RuleRepository) All(ctx context.Context) ([]*models.WorkflowRule, error) {
	query := `SELECT` + ruleColumns + `FROM workflow_rules ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	return r.collectRules(rows)
}

func (r *RuleRepository) ByID(ctx context.Context, id string) (*models.WorkflowRule, error) {
	query := `SELECT` + ruleColumns + `FROM workflow_rules WHERE id = $1`

	rule, err := r.scanRule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrRuleNotFound
		}

		return nil, fmt.Errorf("failed to scan rule: %w", err)
	}

	return rule, nil
}

// ActiveByTrigger returns the active rules for one trigger in execution
// order: priority descending, rule ID ascending on ties.
func (r *RuleRepository) ActiveByTrigger(ctx context.Context, trigger models.TriggerType) ([]*models.WorkflowRule, error) {
	query := `SELECT` + ruleColumns + `
		FROM workflow_rules
		WHERE trigger_type = $1 AND is_active
		ORDER BY priority DESC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, trigger)
	if err != nil {
		return nil, fmt.Errorf("failed to query active rules: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	return r.collectRules(rows)
}

// Save upserts a rule.
func (r *RuleRepository) Save(ctx context.Context, rule *models.WorkflowRule) error {
	conditionsJSON, err := json.Marshal(rule.Conditions)
	if err != nil {
		return fmt.Errorf("failed to marshal conditions: %w", err)
	}

	actionsJSON, err := json.Marshal(rule.Actions)
	if err != nil {
		return fmt.Errorf("failed to marshal actions: %w", err)
	}

	propertyIDsJSON, err := json.Marshal(rule.PropertyIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal property ids: %w", err)
	}

	ownerIDsJSON, err := json.Marshal(rule.OwnerIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal owner ids: %w", err)
	}

	query := `
		INSERT INTO workflow_rules (id, name, description, trigger_type, conditions, actions,
			property_ids, owner_ids, priority, is_active, execution_count, last_executed_at,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			trigger_type = EXCLUDED.trigger_type,
			conditions = EXCLUDED.conditions,
			actions = EXCLUDED.actions,
			property_ids = EXCLUDED.property_ids,
			owner_ids = EXCLUDED.owner_ids,
			priority = EXCLUDED.priority,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		rule.ID,
		rule.Name,
		rule.Description,
		rule.Trigger,
		conditionsJSON,
		actionsJSON,
		propertyIDsJSON,
		ownerIDsJSON,
		rule.Priority,
		rule.IsActive,
		rule.ExecutionCount,
		rule.LastExecutedAt,
		rule.CreatedAt,
		rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save rule: %w", err)
	}

	return nil
}

func (r *RuleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM workflow_rules WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return persistence.ErrRuleNotFound
	}

	return nil
}

// RecordExecution bumps the rule's execution counter atomically. The counter
// moves on every attempted run regardless of outcome.
func (r *RuleRepository) RecordExecution(ctx context.Context, id string, executedAt time.Time) error {
	query := `
		UPDATE workflow_rules
		SET execution_count = execution_count + 1, last_executed_at = $2
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, executedAt)
	if err != nil {
		return fmt.Errorf("failed to record rule execution: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return persistence.ErrRuleNotFound
	}

	return nil
}

func (r *RuleRepository) collectRules(rows *sql.Rows) ([]*models.WorkflowRule, error) {
	rules := make([]*models.WorkflowRule, 0)

	for rows.Next() {
		rule, err := r.scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}

		rules = append(rules, rule)
	}

	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}

	return rules, nil
}

func (r *RuleRepository) scanRule(scanner interface {
	Scan(dest ...any) error
}) (*models.WorkflowRule, error) {
	var rule models.WorkflowRule

	var conditionsJSON, actionsJSON, propertyIDsJSON, ownerIDsJSON []byte

	err := scanner.Scan(
		&rule.ID,
		&rule.Name,
		&rule.Description,
		&rule.Trigger,
		&conditionsJSON,
		&actionsJSON,
		&propertyIDsJSON,
		&ownerIDsJSON,
		&rule.Priority,
		&rule.IsActive,
		&rule.ExecutionCount,
		&rule.LastExecutedAt,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(conditionsJSON, &rule.Conditions)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal conditions: %w", err)
	}

	err = json.Unmarshal(actionsJSON, &rule.Actions)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal actions: %w", err)
	}

	err = json.Unmarshal(propertyIDsJSON, &rule.PropertyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal property ids: %w", err)
	}

	err = json.Unmarshal(ownerIDsJSON, &rule.OwnerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal owner ids: %w", err)
	}

	return &rule, nil
}
