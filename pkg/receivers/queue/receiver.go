// Package queue receives trigger envelopes from a Redis list so external
// systems can fire workflows without speaking Kafka.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/stayops/stayops/pkg/models"
)

// Callback is invoked for each decoded trigger envelope. Errors are logged,
// never retried; the queue is a fire-and-forget intake.
type Callback func(ctx context.Context, trigger models.TriggerType, triggerCtx models.TriggerContext) error

// envelope is the wire shape producers push onto the list.
type envelope struct {
	Trigger models.TriggerType    `json:"trigger"`
	Context models.TriggerContext `json:"context"`
}

// Receiver consumes trigger envelopes from one Redis list.
type Receiver struct {
	Connection map[string]string
	Queue      string

	client   redis.UniversalClient
	callback Callback
	logger   *slog.Logger
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewReceiver creates a queue receiver from its configuration map. The
// "queue" key is required; "connection" holds addr/password/db.
func NewReceiver(config map[string]any, logger *slog.Logger) (*Receiver, error) {
	queue, _ := config["queue"].(string)
	if queue == "" {
		return nil, errors.New("queue receiver queue name is required")
	}

	connectionConfig, _ := config["connection"].(map[string]any)

	connection := make(map[string]string)
	for k, v := range connectionConfig {
		if str, ok := v.(string); ok {
			connection[k] = str
		}
	}

	return &Receiver{
		Connection: connection,
		Queue:      queue,
		stopCh:     make(chan struct{}),
		logger: logger.With(
			"module", "queue_receiver",
			"queue", queue,
		),
	}, nil
}

// Start connects to Redis and begins consuming until Stop or context
// cancellation.
func (r *Receiver) Start(ctx context.Context, callback Callback) error {
	r.logger.InfoContext(ctx, "Starting queue receiver")
	r.callback = callback

	err := r.initializeClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize queue client: %w", err)
	}

	r.wg.Add(1)

	go r.consume(ctx)

	return nil
}

func (r *Receiver) initializeClient(ctx context.Context) error {
	addr := r.Connection["addr"]
	if addr == "" {
		addr = "localhost:6379"
	}

	password := r.Connection["password"]
	db := 0

	if dbStr := r.Connection["db"]; dbStr != "" {
		parsed, err := strconv.Atoi(dbStr)
		if err != nil {
			return fmt.Errorf("invalid db value: %w", err)
		}

		db = parsed
	}

	r.client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	r.logger.InfoContext(ctx, "Connected to Redis", "addr", addr, "db", db)

	return nil
}

func (r *Receiver) consume(ctx context.Context) {
	defer r.wg.Done()

	r.logger.InfoContext(ctx, "Starting queue consumer")

	for {
		select {
		case <-r.stopCh:
			r.logger.InfoContext(ctx, "Queue consumer stopped")

			return
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "Context cancelled, stopping queue consumer")

			return
		default:
			err := r.processMessage(ctx)
			if err != nil {
				r.logger.ErrorContext(ctx, "Error processing message", "error", err)
				time.Sleep(1 * time.Second)
			}
		}
	}
}

func (r *Receiver) processMessage(ctx context.Context) error {
	result, err := r.client.BLPop(ctx, 1*time.Second, r.Queue).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}

		return fmt.Errorf("failed to pop message from queue: %w", err)
	}

	if len(result) < 2 {
		return nil
	}

	message := result[1]

	var env envelope

	err = json.Unmarshal([]byte(message), &env)
	if err != nil {
		return fmt.Errorf("failed to decode trigger envelope: %w", err)
	}

	if !models.IsValidTrigger(env.Trigger) {
		return fmt.Errorf("unknown trigger type: %s", env.Trigger)
	}

	r.logger.InfoContext(ctx, "Received trigger from queue",
		"trigger", env.Trigger,
		"entity_type", env.Context.EntityType,
		"entity_id", env.Context.EntityID,
	)

	go func() {
		err := r.callback(ctx, env.Trigger, env.Context)
		if err != nil {
			r.logger.ErrorContext(ctx, "Error dispatching trigger", "error", err)
		}
	}()

	return nil
}

// Stop stops the consumer loop and closes the client.
func (r *Receiver) Stop(ctx context.Context) error {
	r.logger.InfoContext(ctx, "Stopping queue receiver")

	close(r.stopCh)
	r.wg.Wait()

	if r.client != nil {
		err := r.client.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "Error closing Redis client", "error", err)
		}
	}

	return nil
}
