package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/stayops/stayops/pkg/eventbus"
	"github.com/stayops/stayops/pkg/events"
	"github.com/stayops/stayops/pkg/models"
)

// Publisher implements Notifier by publishing a NotificationRequested event
// for the delivery subsystem to consume.
type Publisher struct {
	eventBus eventbus.EventBus
}

func NewPublisher(eventBus eventbus.EventBus) *Publisher {
	return &Publisher{eventBus: eventBus}
}

func (p *Publisher) Send(ctx context.Context, notification models.Notification) error {
	event := events.NotificationRequested{
		BaseEvent: events.BaseEvent{
			ID:        p.eventBus.GenerateID(),
			Type:      events.NotificationRequestedEvent,
			Timestamp: time.Now().UTC(),
		},
		Notification: notification,
	}

	err := p.eventBus.Publish(ctx, notification.OwnerID, event)
	if err != nil {
		return fmt.Errorf("failed to publish notification request: %w", err)
	}

	return nil
}
