package notify

import (
	"fmt"

	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/notification"
	"github.com/stayops/stayops/pkg/protocol"
)

// ActionFactory builds one of the four notification action kinds. The
// channel set is implied by the action type; the generic SEND_NOTIFICATION
// reads it from params instead.
type ActionFactory struct {
	notifier   notification.Notifier
	actionType models.ActionType
}

func NewActionFactory(notifier notification.Notifier, actionType models.ActionType) *ActionFactory {
	return &ActionFactory{notifier: notifier, actionType: actionType}
}

func (f *ActionFactory) ID() models.ActionType {
	return f.actionType
}

func (f *ActionFactory) Create(params map[string]any) (protocol.Action, error) {
	if params == nil {
		params = map[string]any{}
	}

	channels, err := f.resolveChannels(params)
	if err != nil {
		return nil, err
	}

	return &Action{
		notifier:   f.notifier,
		actionType: f.actionType,
		channels:   channels,
		params:     params,
	}, nil
}

func (f *ActionFactory) resolveChannels(params map[string]any) ([]models.NotificationChannel, error) {
	switch f.actionType {
	case models.ActionSendEmail:
		return []models.NotificationChannel{models.ChannelEmail}, nil
	case models.ActionSendSMS:
		return []models.NotificationChannel{models.ChannelSMS}, nil
	case models.ActionSendWhatsApp:
		return []models.NotificationChannel{models.ChannelWhatsApp}, nil
	case models.ActionSendNotification:
		raw, ok := params["channels"].([]any)
		if !ok || len(raw) == 0 {
			// No explicit channel set on the generic action falls back to email.
			return []models.NotificationChannel{models.ChannelEmail}, nil
		}

		channels := make([]models.NotificationChannel, 0, len(raw))

		for _, value := range raw {
			name, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("invalid notification channel: %v", value)
			}

			switch channel := models.NotificationChannel(name); channel {
			case models.ChannelEmail, models.ChannelSMS, models.ChannelWhatsApp:
				channels = append(channels, channel)
			default:
				return nil, fmt.Errorf("unknown notification channel: %s", name)
			}
		}

		return channels, nil
	default:
		return nil, fmt.Errorf("unsupported notification action type: %s", f.actionType)
	}
}

func (f *ActionFactory) Schema() map[string]any {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"message": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"type": map[string]any{
				"type":        "string",
				"description": "Notification category shown to the owner",
			},
			"action_url": map[string]any{
				"type": "string",
			},
			"action_text": map[string]any{
				"type": "string",
			},
			"metadata": map[string]any{
				"type": "object",
			},
		},
		"required": []string{"title", "message"},
	}

	if f.actionType == models.ActionSendNotification {
		properties, _ := schema["properties"].(map[string]any)
		properties["channels"] = map[string]any{
			"type":        "array",
			"description": "Delivery channels for the generic notification action",
			"items": map[string]any{
				"type": "string",
				"enum": []string{"EMAIL", "SMS", "WHATSAPP"},
			},
		}
	}

	return schema
}
