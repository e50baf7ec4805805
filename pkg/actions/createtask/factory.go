package createtask

import (
	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
	"github.com/stayops/stayops/pkg/protocol"
)

// ActionFactory builds CREATE_TASK actions.
type ActionFactory struct {
	tasks persistence.TaskRepository
}

func NewActionFactory(tasks persistence.TaskRepository) *ActionFactory {
	return &ActionFactory{tasks: tasks}
}

func (*ActionFactory) ID() models.ActionType {
	return models.ActionCreateTask
}

func (f *ActionFactory) Create(params map[string]any) (protocol.Action, error) {
	if params == nil {
		params = map[string]any{}
	}

	return NewAction(f.tasks, params), nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Task title",
				"minLength":   1,
			},
			"description": map[string]any{
				"type":        "string",
				"description": "Task description",
			},
			"task_type": map[string]any{
				"type":        "string",
				"description": "Task category; defaults to 'other'",
				"enum":        []string{"cleaning", "maintenance", "inspection", "check_in", "check_out", "other"},
			},
			"priority": map[string]any{
				"type": "string",
				"enum": []string{"low", "medium", "high", "urgent"},
			},
			"assigned_to": map[string]any{
				"type":        "string",
				"description": "User ID to assign the task to",
			},
			"estimated_cost": map[string]any{
				"type": "number",
			},
			"due_date": map[string]any{
				"type":        "string",
				"description": "RFC 3339 due date; defaults to the moment the action runs",
			},
		},
		"required": []string{"title"},
	}
}
