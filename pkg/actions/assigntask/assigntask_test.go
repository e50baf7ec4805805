package assigntask_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayops/stayops/pkg/actions/assigntask"
	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
	"github.com/stayops/stayops/pkg/persistence/file"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestFactory_Create_RequiresParams(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	factory := assigntask.NewActionFactory(p.Tasks())

	_, err := factory.Create(map[string]any{"user_id": "user-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task_id")

	_, err = factory.Create(map[string]any{"task_id": "task-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_id")

	_, err = factory.Create(map[string]any{"task_id": "task-1", "user_id": "user-1"})
	assert.NoError(t, err)
}

func TestAction_Execute(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	ctx := context.Background()

	now := time.Now().UTC()

	require.NoError(t, p.Tasks().Create(ctx, &models.Task{
		ID:         "task-1",
		PropertyID: "prop-1",
		Title:      "Restock supplies",
		Type:       models.TaskTypeOther,
		Status:     "pending",
		CreatedAt:  now,
		UpdatedAt:  now,
	}))

	action, err := assigntask.NewActionFactory(p.Tasks()).Create(map[string]any{
		"task_id": "task-1",
		"user_id": "user-9",
	})
	require.NoError(t, err)

	output, err := action.Execute(ctx, models.TriggerContext{}, discard)
	require.NoError(t, err)
	assert.Equal(t, "task-1", output["task_id"])
	assert.Equal(t, "user-9", output["user_id"])

	task, err := p.Tasks().ByID(ctx, "task-1")
	require.NoError(t, err)
	assert.Equal(t, "user-9", task.AssignedTo)
}

func TestAction_Execute_MissingTask(t *testing.T) {
	p := file.NewPersistence(t.TempDir())

	action, err := assigntask.NewActionFactory(p.Tasks()).Create(map[string]any{
		"task_id": "ghost",
		"user_id": "user-1",
	})
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), models.TriggerContext{}, discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrTaskNotFound)
}
