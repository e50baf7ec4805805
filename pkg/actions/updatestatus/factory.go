package updatestatus

import (
	"errors"

	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
	"github.com/stayops/stayops/pkg/protocol"
)

// ActionFactory builds UPDATE_STATUS actions.
type ActionFactory struct {
	tasks    persistence.TaskRepository
	bookings persistence.BookingRepository
	issues   persistence.IssueRepository
}

func NewActionFactory(
	tasks persistence.TaskRepository,
	bookings persistence.BookingRepository,
	issues persistence.IssueRepository,
) *ActionFactory {
	return &ActionFactory{tasks: tasks, bookings: bookings, issues: issues}
}

func (*ActionFactory) ID() models.ActionType {
	return models.ActionUpdateStatus
}

func (f *ActionFactory) Create(params map[string]any) (protocol.Action, error) {
	status, _ := params["status"].(string)
	if status == "" {
		return nil, errors.New("update status action requires 'status' param")
	}

	return &Action{
		tasks:    f.tasks,
		bookings: f.bookings,
		issues:   f.issues,
		status:   status,
	}, nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status": map[string]any{
				"type":        "string",
				"description": "Status value to set on the triggering entity",
				"minLength":   1,
			},
		},
		"required": []string{"status"},
	}
}
