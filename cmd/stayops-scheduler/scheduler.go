// Package main provides the scheduler: it turns wall-clock time into trigger
// events. A cron schedule fires SCHEDULED, and a periodic scan fires
// TASK_OVERDUE once per overdue task found.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/stayops/stayops/pkg/eventbus"
	"github.com/stayops/stayops/pkg/events"
	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
)

type Scheduler struct {
	persistence     persistence.Persistence
	eventBus        eventbus.EventBus
	logger          *slog.Logger
	cronExpr        string
	overdueInterval time.Duration
	cron            *cron.Cron
}

func NewScheduler(
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	cronExpr string,
	overdueInterval time.Duration,
) *Scheduler {
	return &Scheduler{
		persistence:     persistence,
		eventBus:        eventBus,
		logger:          logger.With("module", "scheduler"),
		cronExpr:        cronExpr,
		overdueInterval: overdueInterval,
	}
}

// Run starts both schedules and blocks until SIGINT/SIGTERM or context
// cancellation.
func (s *Scheduler) Run(ctx context.Context) error {
	if _, err := cron.ParseStandard(s.cronExpr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", s.cronExpr, err)
	}

	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	_, err := s.cron.AddFunc(s.cronExpr, func() {
		s.fireScheduled(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	defer s.cron.Stop()

	s.logger.InfoContext(ctx, "Scheduler started",
		"cron", s.cronExpr, "overdue_interval", s.overdueInterval)

	ticker := time.NewTicker(s.overdueInterval)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			s.scanOverdueTasks(ctx)
		case <-sigChan:
			s.logger.InfoContext(ctx, "Shutting down scheduler...")

			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// fireScheduled publishes one SCHEDULED trigger event. Rules on this trigger
// carry no entity, so the context is nearly empty.
func (s *Scheduler) fireScheduled(ctx context.Context) {
	now := time.Now().UTC()

	event := events.TriggerFired{
		BaseEvent: events.BaseEvent{
			ID:        s.eventBus.GenerateID(),
			Type:      events.TriggerFiredEvent,
			Timestamp: now,
		},
		Trigger: models.TriggerScheduled,
		Context: models.TriggerContext{
			EntityData: map[string]any{
				"timestamp": now.Format(time.RFC3339),
				"cron":      s.cronExpr,
			},
		},
	}

	err := s.eventBus.Publish(ctx, "scheduled", event)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish scheduled trigger", "error", err)

		return
	}

	s.logger.InfoContext(ctx, "Fired scheduled trigger")
}

// scanOverdueTasks fires TASK_OVERDUE for every incomplete task past its due
// date, with a snapshot of the task as entity data. The scan repeats, so a
// task stays eligible until someone completes it.
func (s *Scheduler) scanOverdueTasks(ctx context.Context) {
	tasks, err := s.persistence.Tasks().Overdue(ctx, time.Now().UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to scan overdue tasks", "error", err)

		return
	}

	if len(tasks) == 0 {
		return
	}

	s.logger.InfoContext(ctx, "Found overdue tasks", "count", len(tasks))

	for _, task := range tasks {
		entityData, err := entitySnapshot(task)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to snapshot task", "task_id", task.ID, "error", err)

			continue
		}

		event := events.TriggerFired{
			BaseEvent: events.BaseEvent{
				ID:        s.eventBus.GenerateID(),
				Type:      events.TriggerFiredEvent,
				Timestamp: time.Now().UTC(),
			},
			Trigger: models.TriggerTaskOverdue,
			Context: models.TriggerContext{
				EntityType: models.EntityTask,
				EntityID:   task.ID,
				EntityData: entityData,
				PropertyID: task.PropertyID,
			},
		}

		err = s.eventBus.Publish(ctx, task.ID, event)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish overdue trigger",
				"task_id", task.ID, "error", err)
		}
	}
}

// entitySnapshot flattens an entity into the generic map conditions evaluate
// against, using its JSON field names.
func entitySnapshot(entity any) (map[string]any, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}

	snapshot := make(map[string]any)

	err = json.Unmarshal(data, &snapshot)
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}
