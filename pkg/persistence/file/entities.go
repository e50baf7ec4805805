package file

import (
	"context"
	"time"

	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
)

const (
	tasksKind    = "tasks"
	bookingsKind = "bookings"
	issuesKind   = "issues"
)

// TaskRepository stores operational tasks.
type TaskRepository struct {
	p *Persistence
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	return r.p.write(tasksKind, task.ID, task)
}

func (r *TaskRepository) ByID(ctx context.Context, id string) (*models.Task, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	task := &models.Task{}

	err := r.p.read(tasksKind, id, task, persistence.ErrTaskNotFound)
	if err != nil {
		return nil, err
	}

	return task, nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id, status string) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	task := &models.Task{}

	err := r.p.read(tasksKind, id, task, persistence.ErrTaskNotFound)
	if err != nil {
		return err
	}

	task.Status = status
	task.UpdatedAt = time.Now().UTC()

	if status == "completed" {
		completedAt := task.UpdatedAt
		task.CompletedAt = &completedAt
	}

	return r.p.write(tasksKind, task.ID, task)
}

func (r *TaskRepository) UpdateAssignee(ctx context.Context, id, userID string) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	task := &models.Task{}

	err := r.p.read(tasksKind, id, task, persistence.ErrTaskNotFound)
	if err != nil {
		return err
	}

	task.AssignedTo = userID
	task.UpdatedAt = time.Now().UTC()

	return r.p.write(tasksKind, task.ID, task)
}

func (r *TaskRepository) Overdue(ctx context.Context, before time.Time) ([]*models.Task, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	ids, err := r.p.ids(tasksKind)
	if err != nil {
		return nil, err
	}

	overdue := make([]*models.Task, 0)

	for _, id := range ids {
		task := &models.Task{}

		err := r.p.read(tasksKind, id, task, persistence.ErrTaskNotFound)
		if err != nil {
			return nil, err
		}

		if task.CompletedAt == nil && task.Status != "completed" && task.DueDate.Before(before) {
			overdue = append(overdue, task)
		}
	}

	return overdue, nil
}

// BookingRepository stores bookings.
type BookingRepository struct {
	p *Persistence
}

func (r *BookingRepository) ByID(ctx context.Context, id string) (*models.Booking, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	booking := &models.Booking{}

	err := r.p.read(bookingsKind, id, booking, persistence.ErrBookingNotFound)
	if err != nil {
		return nil, err
	}

	return booking, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	booking := &models.Booking{}

	err := r.p.read(bookingsKind, id, booking, persistence.ErrBookingNotFound)
	if err != nil {
		return err
	}

	booking.Status = status
	booking.UpdatedAt = time.Now().UTC()

	return r.p.write(bookingsKind, booking.ID, booking)
}

// Save stores a booking; used by tests and dev seeding.
func (r *BookingRepository) Save(ctx context.Context, booking *models.Booking) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	return r.p.write(bookingsKind, booking.ID, booking)
}

// IssueRepository stores issues.
type IssueRepository struct {
	p *Persistence
}

func (r *IssueRepository) ByID(ctx context.Context, id string) (*models.Issue, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	issue := &models.Issue{}

	err := r.p.read(issuesKind, id, issue, persistence.ErrIssueNotFound)
	if err != nil {
		return nil, err
	}

	return issue, nil
}

func (r *IssueRepository) UpdateStatus(ctx context.Context, id, status string) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	issue := &models.Issue{}

	err := r.p.read(issuesKind, id, issue, persistence.ErrIssueNotFound)
	if err != nil {
		return err
	}

	issue.Status = status
	issue.UpdatedAt = time.Now().UTC()

	return r.p.write(issuesKind, issue.ID, issue)
}

func (r *IssueRepository) UpdatePriority(ctx context.Context, id string, priority models.IssuePriority) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	issue := &models.Issue{}

	err := r.p.read(issuesKind, id, issue, persistence.ErrIssueNotFound)
	if err != nil {
		return err
	}

	issue.Priority = priority
	issue.UpdatedAt = time.Now().UTC()

	return r.p.write(issuesKind, issue.ID, issue)
}

// Save stores an issue; used by tests and dev seeding.
func (r *IssueRepository) Save(ctx context.Context, issue *models.Issue) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	return r.p.write(issuesKind, issue.ID, issue)
}
