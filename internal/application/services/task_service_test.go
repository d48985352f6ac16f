package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/infrastructure/logger"
	"github.com/taskmaster/taskhub/internal/mocks"
	"github.com/taskmaster/taskhub/internal/ports"
)

func TestTaskService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")

	task := f.createTask(t, alice, "Write report", "work", "urgent", "work")
	assert.Equal(t, entities.TaskStatusTodo, task.Status)
	assert.Equal(t, []string{"work", "urgent"}, task.Tags)
	assert.Equal(t, alice.ID, task.CreatorID)
	require.NotNil(t, task.Creator)
	assert.Equal(t, "alice@example.com", task.Creator.Email)
	assert.Nil(t, task.AssigneeID)

	inProgress := entities.TaskStatusInProgress
	started, err := f.tasks.Create(ctx, alice.ID, ports.CreateTaskRequest{
		Title:       "Already going",
		Description: "d",
		DueDate:     "2030-06-01T09:00:00Z",
		Status:      &inProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.TaskStatusInProgress, started.Status)

	_, err = f.tasks.Create(ctx, alice.ID, ports.CreateTaskRequest{Title: "x", Description: "d", DueDate: "soon"})
	assert.ErrorIs(t, err, entities.ErrValidation)

	_, err = f.tasks.Create(ctx, uuid.New(), ports.CreateTaskRequest{Title: "x", Description: "d", DueDate: "2030-06-01"})
	assert.ErrorIs(t, err, entities.ErrUserNotFound)
}

func TestTaskService_AssignAndStatusFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	bob := f.register(t, "Bob", "bob@example.com")
	carol := f.register(t, "Carol", "carol@example.com")

	task := f.createTask(t, alice, "Write report")

	assigned, err := f.tasks.Assign(ctx, task.ID, "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, bob.ID, assigned.AssignedTo.ID)
	assert.Equal(t, []string{`You have been assigned to task "Write report"`}, messages(f.store.NotificationsFor(bob.ID)))

	resp, err := f.tasks.UpdateStatus(ctx, bob.ID, task.ID, entities.TaskStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, entities.TaskStatusInProgress, resp.NewStatus)

	statusMsg := `The status of task "Write report" has been updated to "In-Progress"`
	assert.Equal(t, []string{`You have been assigned to task "Write report"`, statusMsg}, messages(f.store.NotificationsFor(bob.ID)))
	assert.Equal(t, []string{statusMsg}, messages(f.store.NotificationsFor(alice.ID)))

	_, err = f.tasks.UpdateStatus(ctx, carol.ID, task.ID, entities.TaskStatusCompleted)
	assert.ErrorIs(t, err, entities.ErrNotTaskParticipant)
	assert.Empty(t, f.store.NotificationsFor(carol.ID))

	title := "Renamed"
	_, err = f.tasks.Update(ctx, bob.ID, task.ID, ports.UpdateTaskRequest{Title: &title})
	assert.ErrorIs(t, err, entities.ErrNotTaskCreator)

	err = f.tasks.Remove(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, entities.ErrNotTaskCreator)

	_, err = f.tasks.UpdateStatus(ctx, alice.ID, task.ID, "Done")
	assert.ErrorIs(t, err, entities.ErrInvalidStatus)

	_, err = f.tasks.UpdateStatus(ctx, alice.ID, uuid.New(), entities.TaskStatusCompleted)
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)

	// Reassignment moves status rights to the new assignee.
	_, err = f.tasks.Assign(ctx, task.ID, "carol@example.com")
	require.NoError(t, err)
	_, err = f.tasks.UpdateStatus(ctx, bob.ID, task.ID, entities.TaskStatusCompleted)
	assert.ErrorIs(t, err, entities.ErrNotTaskParticipant)
	_, err = f.tasks.UpdateStatus(ctx, carol.ID, task.ID, entities.TaskStatusCompleted)
	require.NoError(t, err)

	_, err = f.tasks.Assign(ctx, task.ID, "nobody@example.com")
	assert.ErrorIs(t, err, entities.ErrUserNotFound)
}

func TestTaskService_SelfAssignedNotifiedOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	task := f.createTask(t, alice, "Solo")

	_, err := f.tasks.Assign(ctx, task.ID, "alice@example.com")
	require.NoError(t, err)
	_, err = f.tasks.UpdateStatus(ctx, alice.ID, task.ID, entities.TaskStatusCompleted)
	require.NoError(t, err)

	assert.Equal(t, []string{
		`You have been assigned to task "Solo"`,
		`The status of task "Solo" has been updated to "Completed"`,
	}, messages(f.store.NotificationsFor(alice.ID)))
}

func TestTaskService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	task := f.createTask(t, alice, "Draft", "a")

	title := "Final"
	due := "2031-01-01"
	updated, err := f.tasks.Update(ctx, alice.ID, task.ID, ports.UpdateTaskRequest{
		Title:   &title,
		DueDate: &due,
		Tags:    []string{"b", "b", "c"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "Draft description", updated.Description)
	assert.Equal(t, 2031, updated.DueDate.Year())
	assert.Equal(t, []string{"b", "c"}, updated.Tags)
	assert.Empty(t, f.store.NotificationsFor(alice.ID), "no status change, no notification")

	completed := entities.TaskStatusCompleted
	_, err = f.tasks.Update(ctx, alice.ID, task.ID, ports.UpdateTaskRequest{Status: &completed})
	require.NoError(t, err)
	assert.Len(t, f.store.NotificationsFor(alice.ID), 1)

	bad := "whenever"
	_, err = f.tasks.Update(ctx, alice.ID, task.ID, ports.UpdateTaskRequest{DueDate: &bad})
	assert.ErrorIs(t, err, entities.ErrValidation)
}

func TestTaskService_AddTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	task := f.createTask(t, alice, "Tagged", "work")

	tags, err := f.tasks.AddTags(ctx, task.ID, []string{"urgent", "work"})
	require.NoError(t, err)
	assert.Equal(t, []string{"work", "urgent"}, tags)

	again, err := f.tasks.AddTags(ctx, task.ID, []string{"urgent"})
	require.NoError(t, err)
	assert.Equal(t, tags, again)

	_, err = f.tasks.AddTags(ctx, uuid.New(), []string{"x"})
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
}

func TestTaskService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")

	for _, title := range []string{"c-task", "a-task", "b-task"} {
		f.createTask(t, alice, title, "shared")
	}
	work := f.createTask(t, alice, "d-task", "work")
	_, err := f.tasks.UpdateStatus(ctx, alice.ID, work.ID, entities.TaskStatusCompleted)
	require.NoError(t, err)

	titles := func(tasks []*entities.Task) []string {
		out := make([]string, len(tasks))
		for i, task := range tasks {
			out[i] = task.Title
		}
		return out
	}

	byTitle, err := f.tasks.List(ctx, ports.ListTasksRequest{SortBy: "title"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a-task", "b-task", "c-task", "d-task"}, titles(byTitle))

	page2, err := f.tasks.List(ctx, ports.ListTasksRequest{SortBy: "title", SortOrder: "desc", Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"a-task"}, titles(page2))

	tagged, err := f.tasks.List(ctx, ports.ListTasksRequest{Tag: "work"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d-task"}, titles(tagged))

	done, err := f.tasks.List(ctx, ports.ListTasksRequest{Status: "Completed"})
	require.NoError(t, err)
	require.Len(t, done, 1)
	require.NotNil(t, done[0].Creator)
	assert.NotNil(t, done[0].Comments, "listed tasks carry their comments")

	empty, err := f.tasks.List(ctx, ports.ListTasksRequest{Page: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = f.tasks.List(ctx, ports.ListTasksRequest{SortBy: "password_hash"})
	assert.ErrorIs(t, err, entities.ErrValidation)
}

func TestTaskService_RemoveCascadesComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	task := f.createTask(t, alice, "Doomed")

	_, err := f.comments.Create(ctx, alice.ID, task.ID, "first")
	require.NoError(t, err)
	require.Equal(t, 1, f.store.CommentCount())

	require.NoError(t, f.tasks.Remove(ctx, alice.ID, task.ID))
	assert.Equal(t, 0, f.store.CommentCount())

	_, err = f.tasks.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
}

func TestTaskService_NotificationFailureDoesNotFailAssign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	task := f.createTask(t, alice, "Flaky")

	notifier := &mocks.Notifier{}
	notifier.On("Notify", mock.Anything, alice.ID, mock.AnythingOfType("string")).
		Return(nil, errors.New("store down"))

	svc := NewTaskService(f.store.Tasks(), f.store.Comments(), f.store.Users(), notifier, logger.NewNop())

	assigned, err := svc.Assign(ctx, task.ID, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, assigned.IsAssignedTo(alice.ID))

	resp, err := svc.UpdateStatus(ctx, alice.ID, task.ID, entities.TaskStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, entities.TaskStatusInProgress, resp.NewStatus)

	notifier.AssertNumberOfCalls(t, "Notify", 2)
}
