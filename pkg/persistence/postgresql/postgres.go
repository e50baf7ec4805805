// Package postgresql provides PostgreSQL persistence for workflow rules,
// execution records and operational entities.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/stayops/stayops/pkg/persistence"
	"github.com/stayops/stayops/pkg/persistence/sqlbase"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db         *sql.DB
	logger     *slog.Logger
	rules      *RuleRepository
	executions *ExecutionRepository
	tasks      *TaskRepository
	bookings   *BookingRepository
	issues     *IssueRepository
}

// NewPersistence creates a new PostgreSQL persistence layer and runs pending
// migrations.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	postgres := &Persistence{
		db:     database,
		logger: logger,
	}
	postgres.rules = &RuleRepository{db: database, logger: logger}
	postgres.executions = &ExecutionRepository{db: database, logger: logger}
	postgres.tasks = &TaskRepository{db: database}
	postgres.bookings = &BookingRepository{db: database}
	postgres.issues = &IssueRepository{db: database}

	return postgres, nil
}

func (p *Persistence) Rules() persistence.RuleRepository { return p.rules }

func (p *Persistence) Executions() persistence.ExecutionRepository { return p.executions }

func (p *Persistence) Tasks() persistence.TaskRepository { return p.tasks }

func (p *Persistence) Bookings() persistence.BookingRepository { return p.bookings }

func (p *Persistence) Issues() persistence.IssueRepository { return p.issues }

// Close closes the database connection.
func (p *Persistence) Close(ctx context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}
