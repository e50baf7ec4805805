package updatestatus_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayops/stayops/pkg/actions/updatestatus"
	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
	"github.com/stayops/stayops/pkg/persistence/file"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newFactory(t *testing.T) (*file.Persistence, *updatestatus.ActionFactory) {
	t.Helper()

	p := file.NewPersistence(t.TempDir())

	return p, updatestatus.NewActionFactory(p.Tasks(), p.Bookings(), p.Issues())
}

func TestFactory_Create_RequiresStatus(t *testing.T) {
	_, factory := newFactory(t)

	_, err := factory.Create(map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'status'")

	_, err = factory.Create(map[string]any{"status": "confirmed"})
	assert.NoError(t, err)
}

func TestAction_Execute_Booking(t *testing.T) {
	p, factory := newFactory(t)
	ctx := context.Background()

	now := time.Now().UTC()

	require.NoError(t, p.Bookings().(*file.BookingRepository).Save(ctx, &models.Booking{
		ID:         "booking-1",
		PropertyID: "prop-1",
		Status:     "pending",
		CreatedAt:  now,
		UpdatedAt:  now,
	}))

	action, err := factory.Create(map[string]any{"status": "confirmed"})
	require.NoError(t, err)

	output, err := action.Execute(ctx, models.TriggerContext{
		EntityType: models.EntityBooking,
		EntityID:   "booking-1",
	}, discard)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", output["status"])

	booking, err := p.Bookings().ByID(ctx, "booking-1")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", booking.Status)
}

func TestAction_Execute_TaskAndIssue(t *testing.T) {
	p, factory := newFactory(t)
	ctx := context.Background()

	now := time.Now().UTC()

	require.NoError(t, p.Tasks().Create(ctx, &models.Task{
		ID: "task-1", PropertyID: "prop-1", Title: "Clean", Status: "pending",
		CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, p.Issues().(*file.IssueRepository).Save(ctx, &models.Issue{
		ID: "issue-1", PropertyID: "prop-1", Title: "Broken lock", Status: "open",
		Priority: models.IssuePriorityMedium, CreatedAt: now, UpdatedAt: now,
	}))

	action, err := factory.Create(map[string]any{"status": "in_progress"})
	require.NoError(t, err)

	_, err = action.Execute(ctx, models.TriggerContext{EntityType: models.EntityTask, EntityID: "task-1"}, discard)
	require.NoError(t, err)

	_, err = action.Execute(ctx, models.TriggerContext{EntityType: models.EntityIssue, EntityID: "issue-1"}, discard)
	require.NoError(t, err)

	task, err := p.Tasks().ByID(ctx, "task-1")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", task.Status)

	issue, err := p.Issues().ByID(ctx, "issue-1")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", issue.Status)
}

func TestAction_Execute_UnsupportedEntityType(t *testing.T) {
	_, factory := newFactory(t)

	action, err := factory.Create(map[string]any{"status": "closed"})
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), models.TriggerContext{
		EntityType: "property",
		EntityID:   "prop-1",
	}, discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrUnsupportedEntityType)
}

func TestAction_Execute_MissingEntity(t *testing.T) {
	_, factory := newFactory(t)

	action, err := factory.Create(map[string]any{"status": "confirmed"})
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), models.TriggerContext{
		EntityType: models.EntityBooking,
		EntityID:   "ghost",
	}, discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrBookingNotFound)
}
