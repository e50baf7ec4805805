// Package updatestatus implements the UPDATE_STATUS workflow action.
package updatestatus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
)

type Action struct {
	tasks    persistence.TaskRepository
	bookings persistence.BookingRepository
	issues   persistence.IssueRepository
	status   string
}

// Execute updates the status of the entity the trigger context points at,
// dispatching to whichever store owns that entity type.
func (a *Action) Execute(ctx context.Context, triggerCtx models.TriggerContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("action_type", models.ActionUpdateStatus)

	var err error

	switch triggerCtx.EntityType {
	case models.EntityBooking:
		err = a.bookings.UpdateStatus(ctx, triggerCtx.EntityID, a.status)
	case models.EntityTask:
		err = a.tasks.UpdateStatus(ctx, triggerCtx.EntityID, a.status)
	case models.EntityIssue:
		err = a.issues.UpdateStatus(ctx, triggerCtx.EntityID, a.status)
	default:
		return nil, fmt.Errorf("%w: cannot update status of %q",
			persistence.ErrUnsupportedEntityType, triggerCtx.EntityType)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to update %s %s status: %w",
			triggerCtx.EntityType, triggerCtx.EntityID, err)
	}

	logger.InfoContext(ctx, "Updated entity status",
		"entity_type", triggerCtx.EntityType, "entity_id", triggerCtx.EntityID, "status", a.status)

	return map[string]any{
		"entity_type": string(triggerCtx.EntityType),
		"entity_id":   triggerCtx.EntityID,
		"status":      a.status,
	}, nil
}
