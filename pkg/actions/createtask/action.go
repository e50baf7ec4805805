// Package createtask implements the CREATE_TASK workflow action.
package createtask

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
)

type Action struct {
	tasks  persistence.TaskRepository
	params map[string]any
}

func NewAction(tasks persistence.TaskRepository, params map[string]any) *Action {
	return &Action{tasks: tasks, params: params}
}

// Execute creates a task on the property the trigger context identifies.
// A context without a property is an explicit failure, not a silent skip.
func (a *Action) Execute(ctx context.Context, triggerCtx models.TriggerContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("action_type", models.ActionCreateTask)

	if triggerCtx.PropertyID == "" {
		return nil, errors.New("property id is required to create a task")
	}

	title, _ := a.params["title"].(string)
	if title == "" {
		return nil, errors.New("task title is required")
	}

	now := time.Now().UTC()

	task := &models.Task{
		ID:         "task-" + uuid.New().String(),
		PropertyID: triggerCtx.PropertyID,
		Title:      title,
		Type:       models.TaskTypeOther,
		Status:     "pending",
		DueDate:    now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if description, ok := a.params["description"].(string); ok {
		task.Description = description
	}

	if taskType, ok := a.params["task_type"].(string); ok && taskType != "" {
		task.Type = models.TaskType(taskType)
	}

	if priority, ok := a.params["priority"].(string); ok {
		task.Priority = priority
	}

	if assignedTo, ok := a.params["assigned_to"].(string); ok {
		task.AssignedTo = assignedTo
	}

	if cost, ok := a.params["estimated_cost"].(float64); ok {
		task.EstimatedCost = cost
	}

	if dueDate, ok := a.params["due_date"].(string); ok && dueDate != "" {
		parsed, err := time.Parse(time.RFC3339, dueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid due_date %q: %w", dueDate, err)
		}

		task.DueDate = parsed
	}

	err := a.tasks.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	logger.InfoContext(ctx, "Created task", "task_id", task.ID, "property_id", task.PropertyID)

	return map[string]any{"task_id": task.ID}, nil
}
