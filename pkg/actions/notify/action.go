// Package notify implements the SEND_NOTIFICATION, SEND_EMAIL, SEND_SMS,
// and SEND_WHATSAPP workflow actions over the notification subsystem.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/notification"
)

type Action struct {
	notifier   notification.Notifier
	actionType models.ActionType
	channels   []models.NotificationChannel
	params     map[string]any
}

// Execute publishes one delivery request for the owner in the trigger
// context. Without an owner there is nobody to notify, which is an explicit
// failure.
func (a *Action) Execute(ctx context.Context, triggerCtx models.TriggerContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("action_type", a.actionType)

	if triggerCtx.OwnerID == "" {
		return nil, errors.New("owner id is required to send a notification")
	}

	title, _ := a.params["title"].(string)
	message, _ := a.params["message"].(string)

	n := models.Notification{
		OwnerID:  triggerCtx.OwnerID,
		Channels: a.channels,
		Title:    title,
		Message:  message,
	}

	if notificationType, ok := a.params["type"].(string); ok {
		n.Type = notificationType
	}

	if actionURL, ok := a.params["action_url"].(string); ok {
		n.ActionURL = actionURL
	}

	if actionText, ok := a.params["action_text"].(string); ok {
		n.ActionText = actionText
	}

	if metadata, ok := a.params["metadata"].(map[string]any); ok {
		n.Metadata = metadata
	}

	err := a.notifier.Send(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to send notification: %w", err)
	}

	logger.InfoContext(ctx, "Requested notification delivery",
		"owner_id", triggerCtx.OwnerID, "channels", a.channels)

	channels := make([]string, len(a.channels))
	for i, channel := range a.channels {
		channels[i] = string(channel)
	}

	return map[string]any{"owner_id": triggerCtx.OwnerID, "channels": channels}, nil
}
