package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/stayops/stayops/pkg/log"
)

func main() {
	command := &cli.Command{
		Name:                  "stayops-trigger",
		Usage:                 "Fire workflow triggers and run trigger intakes",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
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
		Commands: []*cli.Command{
			{
				Name:    "fire",
				Aliases: []string{"f"},
				Usage:   "Publish a single trigger event",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "trigger",
						Aliases:  []string{"t"},
						Usage:    "Trigger type (e.g. BOOKING_CREATED)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "entity-type",
						Usage: "Entity type (booking, task, issue, expense, statement)",
					},
					&cli.StringFlag{
						Name:  "entity-id",
						Usage: "Entity identifier",
					},
					&cli.StringFlag{
						Name:  "entity-data",
						Usage: "Entity snapshot as a JSON object",
						Value: "{}",
					},
					&cli.StringFlag{
						Name:  "property-id",
						Usage: "Property the entity belongs to",
					},
					&cli.StringFlag{
						Name:  "owner-id",
						Usage: "Owner the entity belongs to",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					log.Setup(command.String("log-level"))

					return FireTrigger(ctx, command)
				},
			},
			{
				Name:    "listen",
				Aliases: []string{"l"},
				Usage:   "Bridge trigger envelopes from a Redis queue onto the event bus",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "queue",
						Usage:   "Redis list to consume trigger envelopes from",
						Value:   "stayops:triggers",
						Sources: cli.EnvVars("TRIGGER_QUEUE"),
					},
					&cli.StringFlag{
						Name:    "redis-addr",
						Usage:   "Redis address",
						Value:   "localhost:6379",
						Sources: cli.EnvVars("REDIS_ADDR"),
					},
					&cli.StringFlag{
						Name:    "redis-password",
						Usage:   "Redis password",
						Value:   "",
						Sources: cli.EnvVars("REDIS_PASSWORD"),
					},
					&cli.StringFlag{
						Name:    "redis-db",
						Usage:   "Redis database number",
						Value:   "0",
						Sources: cli.EnvVars("REDIS_DB"),
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					log.Setup(command.String("log-level"))

					return RunQueueListener(ctx, command)
				},
			},
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
