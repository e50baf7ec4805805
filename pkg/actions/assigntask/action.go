// Package assigntask implements the ASSIGN_TASK workflow action.
package assigntask

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
)

type Action struct {
	tasks  persistence.TaskRepository
	taskID string
	userID string
}

// Execute reassigns the configured task. Task and user always come from the
// rule's params, never from the trigger context.
func (a *Action) Execute(ctx context.Context, _ models.TriggerContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("action_type", models.ActionAssignTask)

	err := a.tasks.UpdateAssignee(ctx, a.taskID, a.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign task %s: %w", a.taskID, err)
	}

	logger.InfoContext(ctx, "Assigned task", "task_id", a.taskID, "user_id", a.userID)

	return map[string]any{"task_id": a.taskID, "user_id": a.userID}, nil
}
