package eventbus_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayops/stayops/pkg/channels/gochannel"
	"github.com/stayops/stayops/pkg/eventbus"
	"github.com/stayops/stayops/pkg/events"
	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/notification"
)

func newTestBus(t *testing.T) eventbus.EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	return bus
}

func TestWatermillEventBus_PublishAndHandle(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()

	received := make(chan *events.TriggerFired, 1)

	err := bus.Handle(events.TriggerFiredEvent, func(_ context.Context, event any) error {
		fired, ok := event.(*events.TriggerFired)
		require.True(t, ok)

		received <- fired

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Subscribe(ctx))

	fired := events.TriggerFired{
		BaseEvent: events.BaseEvent{
			ID:        bus.GenerateID(),
			Type:      events.TriggerFiredEvent,
			Timestamp: time.Now().UTC(),
		},
		Trigger: models.TriggerBookingCreated,
		Context: models.TriggerContext{
			EntityType: models.EntityBooking,
			EntityID:   "booking-1",
			EntityData: map[string]any{"status": "confirmed"},
			PropertyID: "prop-1",
			OwnerID:    "owner-1",
		},
	}

	require.NoError(t, bus.Publish(ctx, "booking-1", fired))

	select {
	case got := <-received:
		assert.Equal(t, models.TriggerBookingCreated, got.Trigger)
		assert.Equal(t, "booking-1", got.Context.EntityID)
		assert.Equal(t, "prop-1", got.Context.PropertyID)
		assert.Equal(t, "confirmed", got.Context.EntityData["status"])
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event delivery")
	}
}

func TestWatermillEventBus_NotificationsUseDedicatedTopic(t *testing.T) {
	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	ctx := context.Background()

	messages, err := sub.Subscribe(ctx, events.NotificationTopic)
	require.NoError(t, err)

	// Publishing blocks until the subscriber acks, so drain concurrently.
	received := make(chan *message.Message, 1)

	go func() {
		msg := <-messages
		msg.Ack()
		received <- msg
	}()

	notifier := notification.NewPublisher(bus)

	require.NoError(t, notifier.Send(ctx, models.Notification{
		OwnerID:  "owner-1",
		Channels: []models.NotificationChannel{models.ChannelEmail, models.ChannelSMS},
		Title:    "Payout sent",
		Message:  "Your payout for booking-1 is on the way",
	}))

	select {
	case msg := <-received:
		assert.Equal(t, string(events.NotificationRequestedEvent), msg.Metadata.Get(events.EventTypeMetadataKey))
		assert.Equal(t, "owner-1", msg.Metadata.Get(events.EventMetadataKey))

		var request events.NotificationRequested
		require.NoError(t, json.Unmarshal(msg.Payload, &request))
		assert.Equal(t, "owner-1", request.Notification.OwnerID)
		assert.Equal(t, []models.NotificationChannel{models.ChannelEmail, models.ChannelSMS}, request.Notification.Channels)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for notification request")
	}
}

func TestWatermillEventBus_UnhandledEventTypeIsAcked(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()

	// Only execution events are handled; trigger events must still be acked
	// so the subscription keeps draining.
	handled := make(chan struct{}, 1)

	err := bus.Handle(events.ExecutionRecordedEvent, func(_ context.Context, _ any) error {
		handled <- struct{}{}

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Subscribe(ctx))

	fired := events.TriggerFired{
		BaseEvent: events.BaseEvent{ID: bus.GenerateID(), Type: events.TriggerFiredEvent, Timestamp: time.Now().UTC()},
		Trigger:   models.TriggerScheduled,
	}
	require.NoError(t, bus.Publish(ctx, "scheduled", fired))

	recorded := events.ExecutionRecorded{
		BaseEvent:   events.BaseEvent{ID: bus.GenerateID(), Type: events.ExecutionRecordedEvent, Timestamp: time.Now().UTC()},
		ExecutionID: "exec-1",
		Status:      models.ExecutionSuccess,
	}
	require.NoError(t, bus.Publish(ctx, "exec-1", recorded))

	select {
	case <-handled:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the execution event")
	}
}
