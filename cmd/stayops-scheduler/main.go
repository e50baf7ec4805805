package main

import (
	"context"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/stayops/stayops/pkg/cmd"
	"github.com/stayops/stayops/pkg/log"
)

func main() {
	logger := log.WithModule("scheduler")

	command := &cli.Command{
		Name:                  "stayops-scheduler",
		EnableShellCompletion: true,
		Usage:                 "Fire time-based triggers: cron schedules and overdue task scans",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "cron",
				Usage:   "Cron expression for the SCHEDULED trigger",
				Value:   "0 * * * *",
				Sources: cli.EnvVars("SCHEDULE_CRON"),
			},
			&cli.DurationFlag{
				Name:    "overdue-interval",
				Usage:   "How often to scan for overdue tasks",
				Value:   15 * time.Minute,
				Sources: cli.EnvVars("OVERDUE_SCAN_INTERVAL"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:     "event-bus",
				Usage:    "Event bus provider (kafka, gochannel)",
				Required: true,
				Sources:  cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing StayOps Scheduler")

			persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))

			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), "scheduler", logger)

			defer func() {
				err := eventBus.Close()
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			scheduler := NewScheduler(
				persistence,
				eventBus,
				logger,
				command.String("cron"),
				command.Duration("overdue-interval"),
			)

			return scheduler.Run(ctx)
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
