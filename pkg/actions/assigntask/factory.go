package assigntask

import (
	"errors"

	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
	"github.com/stayops/stayops/pkg/protocol"
)

// ActionFactory builds ASSIGN_TASK actions.
type ActionFactory struct {
	tasks persistence.TaskRepository
}

func NewActionFactory(tasks persistence.TaskRepository) *ActionFactory {
	return &ActionFactory{tasks: tasks}
}

func (*ActionFactory) ID() models.ActionType {
	return models.ActionAssignTask
}

// Create validates that both identifiers are present; a rule configured
// without them fails at construction, before any side effect.
func (f *ActionFactory) Create(params map[string]any) (protocol.Action, error) {
	taskID, _ := params["task_id"].(string)
	if taskID == "" {
		return nil, errors.New("assign task action requires 'task_id' param")
	}

	userID, _ := params["user_id"].(string)
	if userID == "" {
		return nil, errors.New("assign task action requires 'user_id' param")
	}

	return &Action{tasks: f.tasks, taskID: taskID, userID: userID}, nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"task_id": map[string]any{
				"type":        "string",
				"description": "ID of the task to reassign",
				"minLength":   1,
			},
			"user_id": map[string]any{
				"type":        "string",
				"description": "ID of the user to assign the task to",
				"minLength":   1,
			},
		},
		"required": []string{"task_id", "user_id"},
	}
}
