package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
)

// ExecutionRepository handles execution audit record operations. Records are
// write-once; there is no update path.
type ExecutionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

const executionColumns = `
		id
	  , workflow_rule_id
	  , trigger_type
	  , trigger_entity_id
	  , status
	  , error_message
	  , execution_log
	  , created_at
`

func (r *ExecutionRepository) Save(ctx context.Context, execution *models.WorkflowExecution) error {
	logJSON, err := json.Marshal(execution.ExecutionLog)
	if err != nil {
		return fmt.Errorf("failed to marshal execution log: %w", err)
	}

	query := `
		INSERT INTO workflow_executions (id, workflow_rule_id, trigger_type, trigger_entity_id,
			status, error_message, execution_log, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.ExecContext(ctx, query,
		execution.ID,
		execution.WorkflowRuleID,
		execution.TriggerType,
		execution.TriggerEntityID,
		execution.Status,
		execution.ErrorMessage,
		logJSON,
		execution.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save execution: %w", err)
	}

	return nil
}

func (r *ExecutionRepository) ByID(ctx context.Context, id string) (*models.WorkflowExecution, error) {
	query := `SELECT` + executionColumns + `FROM workflow_executions WHERE id = $1`

	execution, err := r.scanExecution(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrExecutionNotFound
		}

		return nil, fmt.Errorf("failed to scan execution: %w", err)
	}

	return execution, nil
}

// ByRule returns the newest executions recorded for one rule. A limit of
// zero or less means no limit.
func (r *ExecutionRepository) ByRule(ctx context.Context, ruleID string, limit int) ([]*models.WorkflowExecution, error) {
	query := `SELECT` + executionColumns + `
		FROM workflow_executions
		WHERE workflow_rule_id = $1
		ORDER BY created_at DESC
		LIMIT NULLIF($2, 0)
	`

	if limit < 0 {
		limit = 0
	}

	rows, err := r.db.QueryContext(ctx, query, ruleID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	executions := make([]*models.WorkflowExecution, 0)

	for rows.Next() {
		execution, err := r.scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}

		executions = append(executions, execution)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}

	return executions, nil
}

func (r *ExecutionRepository) scanExecution(scanner interface {
	Scan(dest ...any) error
}) (*models.WorkflowExecution, error) {
	var execution models.WorkflowExecution

	var logJSON []byte

	err := scanner.Scan(
		&execution.ID,
		&execution.WorkflowRuleID,
		&execution.TriggerType,
		&execution.TriggerEntityID,
		&execution.Status,
		&execution.ErrorMessage,
		&logJSON,
		&execution.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(logJSON, &execution.ExecutionLog)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal execution log: %w", err)
	}

	return &execution, nil
}
