package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
)

// TaskRepository handles task database operations.
type TaskRepository struct {
	db *sql.DB
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, property_id, title, description, task_type, status, priority,
			assigned_to, estimated_cost, due_date, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.PropertyID,
		task.Title,
		task.Description,
		task.Type,
		task.Status,
		task.Priority,
		task.AssignedTo,
		task.EstimatedCost,
		task.DueDate,
		task.CompletedAt,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

func (r *TaskRepository) ByID(ctx context.Context, id string) (*models.Task, error) {
	query := `
		SELECT id, property_id, title, description, task_type, status, priority,
			assigned_to, estimated_cost, due_date, completed_at, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`

	task := &models.Task{}

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.PropertyID,
		&task.Title,
		&task.Description,
		&task.Type,
		&task.Status,
		&task.Priority,
		&task.AssignedTo,
		&task.EstimatedCost,
		&task.DueDate,
		&task.CompletedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrTaskNotFound
		}

		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	return task, nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE tasks
		SET status = $2,
			completed_at = CASE WHEN $2 = 'completed' THEN NOW() ELSE completed_at END,
			updated_at = NOW()
		WHERE id = $1
	`

	return execExpectingRow(ctx, r.db, query, persistence.ErrTaskNotFound, id, status)
}

func (r *TaskRepository) UpdateAssignee(ctx context.Context, id, userID string) error {
	query := `UPDATE tasks SET assigned_to = $2, updated_at = NOW() WHERE id = $1`

	return execExpectingRow(ctx, r.db, query, persistence.ErrTaskNotFound, id, userID)
}

// Overdue returns incomplete tasks whose due date passed before the given
// instant.
func (r *TaskRepository) Overdue(ctx context.Context, before time.Time) ([]*models.Task, error) {
	query := `
		SELECT id, property_id, title, description, task_type, status, priority,
			assigned_to, estimated_cost, due_date, completed_at, created_at, updated_at
		FROM tasks
		WHERE completed_at IS NULL AND status <> 'completed' AND due_date < $1
		ORDER BY due_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue tasks: %w", err)
	}

	defer func() { _ = rows.Close() }()

	tasks := make([]*models.Task, 0)

	for rows.Next() {
		task := &models.Task{}

		err := rows.Scan(
			&task.ID,
			&task.PropertyID,
			&task.Title,
			&task.Description,
			&task.Type,
			&task.Status,
			&task.Priority,
			&task.AssignedTo,
			&task.EstimatedCost,
			&task.DueDate,
			&task.CompletedAt,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// BookingRepository handles booking database operations.
type BookingRepository struct {
	db *sql.DB
}

func (r *BookingRepository) ByID(ctx context.Context, id string) (*models.Booking, error) {
	query := `
		SELECT id, property_id, owner_id, guest_name, status, check_in, check_out,
			total_payout, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	booking := &models.Booking{}

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.PropertyID,
		&booking.OwnerID,
		&booking.GuestName,
		&booking.Status,
		&booking.CheckIn,
		&booking.CheckOut,
		&booking.TotalPayout,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrBookingNotFound
		}

		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}

	return booking, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	return execExpectingRow(ctx, r.db, query, persistence.ErrBookingNotFound, id, status)
}

// Save upserts a booking; used by tests and dev seeding.
func (r *BookingRepository) Save(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (id, property_id, owner_id, guest_name, status, check_in,
			check_out, total_payout, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			property_id = EXCLUDED.property_id,
			owner_id = EXCLUDED.owner_id,
			guest_name = EXCLUDED.guest_name,
			status = EXCLUDED.status,
			check_in = EXCLUDED.check_in,
			check_out = EXCLUDED.check_out,
			total_payout = EXCLUDED.total_payout,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.PropertyID,
		booking.OwnerID,
		booking.GuestName,
		booking.Status,
		booking.CheckIn,
		booking.CheckOut,
		booking.TotalPayout,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}

	return nil
}

// IssueRepository handles issue database operations.
type IssueRepository struct {
	db *sql.DB
}

func (r *IssueRepository) ByID(ctx context.Context, id string) (*models.Issue, error) {
	query := `
		SELECT id, property_id, title, status, priority, created_at, updated_at
		FROM issues
		WHERE id = $1
	`

	issue := &models.Issue{}

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&issue.ID,
		&issue.PropertyID,
		&issue.Title,
		&issue.Status,
		&issue.Priority,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrIssueNotFound
		}

		return nil, fmt.Errorf("failed to scan issue: %w", err)
	}

	return issue, nil
}

func (r *IssueRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE issues SET status = $2, updated_at = NOW() WHERE id = $1`

	return execExpectingRow(ctx, r.db, query, persistence.ErrIssueNotFound, id, status)
}

func (r *IssueRepository) UpdatePriority(ctx context.Context, id string, priority models.IssuePriority) error {
	query := `UPDATE issues SET priority = $2, updated_at = NOW() WHERE id = $1`

	return execExpectingRow(ctx, r.db, query, persistence.ErrIssueNotFound, id, priority)
}

// Save upserts an issue; used by tests and dev seeding.
func (r *IssueRepository) Save(ctx context.Context, issue *models.Issue) error {
	query := `
		INSERT INTO issues (id, property_id, title, status, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			property_id = EXCLUDED.property_id,
			title = EXCLUDED.title,
			status = EXCLUDED.status,
			priority = EXCLUDED.priority,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		issue.ID,
		issue.PropertyID,
		issue.Title,
		issue.Status,
		issue.Priority,
		issue.CreatedAt,
		issue.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save issue: %w", err)
	}

	return nil
}

// execExpectingRow runs an UPDATE that must touch exactly one row and maps a
// zero-row result to the entity's not-found sentinel.
func execExpectingRow(ctx context.Context, db *sql.DB, query string, notFound error, args ...any) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to execute update: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound
	}

	return nil
}
