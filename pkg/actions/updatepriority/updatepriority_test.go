package updatepriority_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayops/stayops/pkg/actions/updatepriority"
	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence/file"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestFactory_Create_ValidatesPriority(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	factory := updatepriority.NewActionFactory(p.Issues())

	for _, priority := range []string{"low", "medium", "high", "critical"} {
		_, err := factory.Create(map[string]any{"priority": priority})
		assert.NoError(t, err, priority)
	}

	_, err := factory.Create(map[string]any{"priority": "apocalyptic"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid 'priority'")

	_, err = factory.Create(map[string]any{})
	require.Error(t, err)
}

func TestAction_Execute(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	ctx := context.Background()

	now := time.Now().UTC()

	require.NoError(t, p.Issues().(*file.IssueRepository).Save(ctx, &models.Issue{
		ID:         "issue-1",
		PropertyID: "prop-1",
		Title:      "Water damage",
		Status:     "open",
		Priority:   models.IssuePriorityLow,
		CreatedAt:  now,
		UpdatedAt:  now,
	}))

	action, err := updatepriority.NewActionFactory(p.Issues()).Create(map[string]any{"priority": "critical"})
	require.NoError(t, err)

	output, err := action.Execute(ctx, models.TriggerContext{
		EntityType: models.EntityIssue,
		EntityID:   "issue-1",
	}, discard)
	require.NoError(t, err)
	assert.Equal(t, "critical", output["priority"])

	issue, err := p.Issues().ByID(ctx, "issue-1")
	require.NoError(t, err)
	assert.Equal(t, models.IssuePriorityCritical, issue.Priority)
}

func TestAction_Execute_NonIssueEntity(t *testing.T) {
	p := file.NewPersistence(t.TempDir())

	action, err := updatepriority.NewActionFactory(p.Issues()).Create(map[string]any{"priority": "high"})
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), models.TriggerContext{
		EntityType: models.EntityBooking,
		EntityID:   "booking-1",
	}, discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only applies to issues")
}
