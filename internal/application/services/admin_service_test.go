package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/ports"
)

func TestAdminService_Overrides(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	bob := f.register(t, "Bob", "bob@example.com")

	task := f.createTask(t, alice, "Audit me")
	other := f.createTask(t, bob, "Elsewhere")
	_, err := f.tasks.Assign(ctx, task.ID, "bob@example.com")
	require.NoError(t, err)

	updated, err := f.admin.UpdateTaskStatus(ctx, task.ID, entities.TaskStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, entities.TaskStatusCompleted, updated.Status)
	require.NotNil(t, updated.Creator)

	msg := `The status of task "Audit me" has been updated to "Completed"`
	assert.Contains(t, messages(f.store.NotificationsFor(alice.ID)), msg)
	assert.Contains(t, messages(f.store.NotificationsFor(bob.ID)), msg)

	_, err = f.admin.UpdateTaskStatus(ctx, task.ID, "Archived")
	assert.ErrorIs(t, err, entities.ErrInvalidStatus)

	comment, err := f.comments.Create(ctx, bob.ID, task.ID, "done?")
	require.NoError(t, err)

	fetched, err := f.admin.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Comments, 1)
	assert.Equal(t, bob.ID, fetched.Comments[0].Author.ID)

	err = f.admin.DeleteTaskComment(ctx, other.ID, comment.ID)
	assert.ErrorIs(t, err, entities.ErrCommentNotFound, "comment of another task")

	err = f.admin.DeleteTaskComment(ctx, uuid.New(), comment.ID)
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)

	require.NoError(t, f.admin.DeleteTaskComment(ctx, task.ID, comment.ID))
	comments, err := f.admin.GetTaskComments(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	all, err := f.admin.GetTasks(ctx, ports.ListTasksRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, f.admin.DeleteTaskByID(ctx, other.ID))
	assert.ErrorIs(t, f.admin.DeleteTaskByID(ctx, other.ID), entities.ErrTaskNotFound)
}
