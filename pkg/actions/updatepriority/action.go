// Package updatepriority implements the UPDATE_PRIORITY workflow action.
package updatepriority

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
)

type Action struct {
	issues   persistence.IssueRepository
	priority models.IssuePriority
}

// Execute raises or lowers the triggering issue's priority. Only issues
// carry a priority, so any other entity type fails.
func (a *Action) Execute(ctx context.Context, triggerCtx models.TriggerContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("action_type", models.ActionUpdatePriority)

	if triggerCtx.EntityType != models.EntityIssue {
		return nil, fmt.Errorf("update priority only applies to issues, got %q", triggerCtx.EntityType)
	}

	err := a.issues.UpdatePriority(ctx, triggerCtx.EntityID, a.priority)
	if err != nil {
		return nil, fmt.Errorf("failed to update issue %s priority: %w", triggerCtx.EntityID, err)
	}

	logger.InfoContext(ctx, "Updated issue priority",
		"issue_id", triggerCtx.EntityID, "priority", a.priority)

	return map[string]any{"issue_id": triggerCtx.EntityID, "priority": string(a.priority)}, nil
}
