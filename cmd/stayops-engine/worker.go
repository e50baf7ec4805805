// Package main provides the rule engine worker. It consumes trigger events
// from the bus and hands them to the engine; producers never wait for it.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/stayops/stayops/pkg/engine"
	"github.com/stayops/stayops/pkg/eventbus"
	"github.com/stayops/stayops/pkg/events"
	"github.com/stayops/stayops/pkg/persistence"
	"github.com/stayops/stayops/pkg/registry"
)

type Worker struct {
	id          string
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	eventBus    eventbus.EventBus
	engine      *engine.Engine
}

func NewWorker(
	id string,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	registry *registry.Registry,
) *Worker {
	workerLogger := logger.With("module", "stayops-engine", "worker_id", id)
	recorder := engine.NewRecorder(persistence, eventBus, workerLogger)

	return &Worker{
		id:          id,
		logger:      workerLogger,
		persistence: persistence,
		registry:    registry,
		eventBus:    eventBus,
		engine:      engine.New(persistence, registry, recorder, workerLogger),
	}
}

// Start subscribes to trigger events and blocks until SIGINT/SIGTERM.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Starting engine worker")

	err := w.eventBus.Handle(events.TriggerFiredEvent, w.handleTriggerFired)
	if err != nil {
		return err
	}

	err = w.eventBus.Subscribe(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	w.logger.InfoContext(ctx, "Engine worker started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	w.logger.InfoContext(ctx, "Shutting down engine worker...")

	return nil
}

// handleTriggerFired dispatches one trigger through the engine. Rule-level
// failures are part of the result, not handler errors: the event is acked
// either way, matching the fire-and-forget contract.
func (w *Worker) handleTriggerFired(ctx context.Context, event any) error {
	firedEvent, ok := event.(*events.TriggerFired)
	if !ok {
		w.logger.ErrorContext(ctx, "Invalid event type for TriggerFired")

		return nil
	}

	logger := w.logger.With(
		"trigger", firedEvent.Trigger,
		"entity_type", firedEvent.Context.EntityType,
		"entity_id", firedEvent.Context.EntityID,
		"event_id", firedEvent.ID,
	)
	logger.InfoContext(ctx, "Processing trigger fired event")

	result, err := w.engine.ExecuteWorkflows(ctx, firedEvent.Trigger, firedEvent.Context)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to execute workflows", "error", err)

		return nil
	}

	logger.InfoContext(ctx, "Trigger processed",
		"executed", result.Executed,
		"failed", result.Failed,
		"errors", result.Errors,
	)

	return nil
}
