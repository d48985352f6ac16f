package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/taskhub/internal/domain/entities"
)

func TestCommentService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	bob := f.register(t, "Bob", "bob@example.com")
	task := f.createTask(t, alice, "Discuss")

	first, err := f.comments.Create(ctx, alice.ID, task.ID, "first")
	require.NoError(t, err)
	require.NotNil(t, first.Author)
	assert.Equal(t, alice.ID, first.Author.ID)

	second, err := f.comments.Create(ctx, bob.ID, task.ID, "second")
	require.NoError(t, err)

	listed, err := f.comments.ListForTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, first.ID, listed[0].ID, "oldest first")
	assert.Equal(t, "bob@example.com", listed[1].Author.Email)

	_, err = f.comments.Update(ctx, alice.ID, second.ID, "hijacked")
	assert.ErrorIs(t, err, entities.ErrNotCommentAuthor)

	edited, err := f.comments.Update(ctx, bob.ID, second.ID, "second, edited")
	require.NoError(t, err)
	assert.Equal(t, "second, edited", edited.Content)

	err = f.comments.Delete(ctx, alice.ID, second.ID)
	assert.ErrorIs(t, err, entities.ErrNotCommentAuthor)

	require.NoError(t, f.comments.Delete(ctx, bob.ID, second.ID))

	listed, err = f.comments.ListForTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, first.ID, listed[0].ID)

	fetched, err := f.tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Comments, 1)
	assert.Equal(t, "first", fetched.Comments[0].Content)

	err = f.comments.Delete(ctx, bob.ID, second.ID)
	assert.ErrorIs(t, err, entities.ErrCommentNotFound)
}

func TestCommentService_MissingTargets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	task := f.createTask(t, alice, "Lonely")

	_, err := f.comments.Create(ctx, alice.ID, uuid.New(), "hello")
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)

	_, err = f.comments.Create(ctx, uuid.New(), task.ID, "hello")
	assert.ErrorIs(t, err, entities.ErrUserNotFound)

	_, err = f.comments.ListForTask(ctx, uuid.New())
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)

	_, err = f.comments.Update(ctx, alice.ID, uuid.New(), "x")
	assert.ErrorIs(t, err, entities.ErrCommentNotFound)

	listed, err := f.comments.ListForTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
