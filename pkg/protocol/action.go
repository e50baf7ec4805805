// Package protocol defines the interfaces action handlers implement.
package protocol

import (
	"context"
	"log/slog"

	"github.com/stayops/stayops/pkg/models"
)

// Action executes one side effect against the trigger context. Errors are
// returned, never panicked; the executor converts them into structured
// results so sibling actions keep running.
type Action interface {
	Execute(ctx context.Context, triggerCtx models.TriggerContext, logger *slog.Logger) (map[string]any, error)
}

// ActionFactory builds actions of one kind from a rule's params bag.
// Create validates the params shape, so misconfiguration surfaces when the
// action is built rather than midway through its side effect.
type ActionFactory interface {
	ID() models.ActionType
	Create(params map[string]any) (Action, error)

	// Schema returns the JSON schema the registry validates rule params
	// against at save time.
	Schema() map[string]any
}
