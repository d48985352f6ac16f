package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_AssignedTasksAndInbox(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	bob := f.register(t, "Bob", "bob@example.com")

	mine := f.createTask(t, alice, "For Bob")
	f.createTask(t, alice, "Unassigned")

	tasks, err := f.users.AssignedTasks(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = f.tasks.Assign(ctx, mine.ID, "bob@example.com")
	require.NoError(t, err)
	_, err = f.tasks.UpdateStatus(ctx, bob.ID, mine.ID, "In-Progress")
	require.NoError(t, err)

	tasks, err = f.users.AssignedTasks(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, mine.ID, tasks[0].ID)
	require.NotNil(t, tasks[0].AssignedTo)
	assert.Equal(t, bob.ID, tasks[0].AssignedTo.ID)

	inbox, err := f.users.Notifications(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, `The status of task "For Bob" has been updated to "In-Progress"`, inbox[0].Message, "newest first")
	assert.Equal(t, `You have been assigned to task "For Bob"`, inbox[1].Message)

	creatorInbox, err := f.users.Notifications(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, creatorInbox, 1, "creator hears about the status change only")
}
