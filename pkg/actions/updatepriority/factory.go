package updatepriority

import (
	"fmt"

	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
	"github.com/stayops/stayops/pkg/protocol"
)

// ActionFactory builds UPDATE_PRIORITY actions.
type ActionFactory struct {
	issues persistence.IssueRepository
}

func NewActionFactory(issues persistence.IssueRepository) *ActionFactory {
	return &ActionFactory{issues: issues}
}

func (*ActionFactory) ID() models.ActionType {
	return models.ActionUpdatePriority
}

func (f *ActionFactory) Create(params map[string]any) (protocol.Action, error) {
	raw, _ := params["priority"].(string)

	switch priority := models.IssuePriority(raw); priority {
	case models.IssuePriorityLow, models.IssuePriorityMedium,
		models.IssuePriorityHigh, models.IssuePriorityCritical:
		return &Action{issues: f.issues, priority: priority}, nil
	default:
		return nil, fmt.Errorf("update priority action requires a valid 'priority' param, got %q", raw)
	}
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"priority": map[string]any{
				"type": "string",
				"enum": []string{"low", "medium", "high", "critical"},
			},
		},
		"required": []string{"priority"},
	}
}
