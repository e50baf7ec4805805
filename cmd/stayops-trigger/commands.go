// Package main provides the trigger CLI: one-shot trigger firing for
// operators, and the Redis queue intake bridge.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/stayops/stayops/pkg/cmd"
	"github.com/stayops/stayops/pkg/eventbus"
	"github.com/stayops/stayops/pkg/events"
	"github.com/stayops/stayops/pkg/log"
	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/receivers/queue"
)

// FireTrigger publishes one trigger event built from CLI flags and exits.
func FireTrigger(ctx context.Context, command *cli.Command) error {
	logger := log.WithModule("stayops-trigger")

	trigger := models.TriggerType(command.String("trigger"))
	if !models.IsValidTrigger(trigger) {
		return fmt.Errorf("unknown trigger type: %s", trigger)
	}

	entityData := make(map[string]any)

	err := json.Unmarshal([]byte(command.String("entity-data")), &entityData)
	if err != nil {
		return fmt.Errorf("invalid entity-data JSON: %w", err)
	}

	eventBus := cmd.NewEventBus(command.String("event-bus"), "trigger-cli", logger)

	defer func() {
		err := eventBus.Close()
		if err != nil {
			logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
		}
	}()

	triggerCtx := models.TriggerContext{
		EntityType: models.EntityType(command.String("entity-type")),
		EntityID:   command.String("entity-id"),
		EntityData: entityData,
		PropertyID: command.String("property-id"),
		OwnerID:    command.String("owner-id"),
	}

	err = publishTrigger(ctx, eventBus, trigger, triggerCtx)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Trigger published", "trigger", trigger, "entity_id", triggerCtx.EntityID)

	return nil
}

// RunQueueListener consumes trigger envelopes from a Redis list and
// republishes them on the event bus until interrupted.
func RunQueueListener(ctx context.Context, command *cli.Command) error {
	logger := log.WithModule("stayops-trigger")

	eventBus := cmd.NewEventBus(command.String("event-bus"), "trigger-queue", logger)

	defer func() {
		err := eventBus.Close()
		if err != nil {
			logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
		}
	}()

	receiver, err := queue.NewReceiver(map[string]any{
		"queue": command.String("queue"),
		"connection": map[string]any{
			"addr":     command.String("redis-addr"),
			"password": command.String("redis-password"),
			"db":       command.String("redis-db"),
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create queue receiver: %w", err)
	}

	err = receiver.Start(ctx, func(ctx context.Context, trigger models.TriggerType, triggerCtx models.TriggerContext) error {
		return publishTrigger(ctx, eventBus, trigger, triggerCtx)
	})
	if err != nil {
		return fmt.Errorf("failed to start queue receiver: %w", err)
	}

	logger.InfoContext(ctx, "Queue listener started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	logger.InfoContext(ctx, "Shutting down queue listener...")

	return receiver.Stop(ctx)
}

func publishTrigger(ctx context.Context, eventBus eventbus.EventBus, trigger models.TriggerType, triggerCtx models.TriggerContext) error {
	event := events.TriggerFired{
		BaseEvent: events.BaseEvent{
			ID:        eventBus.GenerateID(),
			Type:      events.TriggerFiredEvent,
			Timestamp: time.Now().UTC(),
		},
		Trigger: trigger,
		Context: triggerCtx,
	}

	err := eventBus.Publish(ctx, triggerCtx.EntityID, event)
	if err != nil {
		return fmt.Errorf("failed to publish trigger event: %w", err)
	}

	return nil
}
