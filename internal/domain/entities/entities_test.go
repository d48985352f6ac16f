package entities

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTask_AddTags(t *testing.T) {
	task := &Task{Tags: []string{"work"}}

	task.AddTags([]string{"urgent", "work", "urgent", "home"})
	assert.Equal(t, []string{"work", "urgent", "home"}, task.Tags)

	task.AddTags([]string{"home", "urgent"})
	assert.Equal(t, []string{"work", "urgent", "home"}, task.Tags, "adding existing tags is a no-op")

	empty := &Task{}
	empty.AddTags(nil)
	assert.Empty(t, empty.Tags)
}

func TestTask_Participants(t *testing.T) {
	creator := uuid.New()
	assignee := uuid.New()
	stranger := uuid.New()

	task := &Task{CreatorID: creator}
	assert.True(t, task.IsCreatedBy(creator))
	assert.False(t, task.IsAssignedTo(assignee))
	assert.True(t, task.CanChangeStatus(creator))
	assert.False(t, task.CanChangeStatus(assignee))

	task.AssignTo(assignee)
	assert.True(t, task.IsAssignedTo(assignee))
	assert.True(t, task.CanChangeStatus(assignee))
	assert.False(t, task.CanChangeStatus(stranger))
}

func TestTask_StatusRecipients(t *testing.T) {
	creator := uuid.New()
	assignee := uuid.New()

	tests := []struct {
		name     string
		task     *Task
		expected []uuid.UUID
	}{
		{
			name:     "unassigned task notifies creator only",
			task:     &Task{CreatorID: creator},
			expected: []uuid.UUID{creator},
		},
		{
			name:     "assignee first then creator",
			task:     &Task{CreatorID: creator, AssigneeID: &assignee},
			expected: []uuid.UUID{assignee, creator},
		},
		{
			name:     "self-assigned creator is notified once",
			task:     &Task{CreatorID: creator, AssigneeID: &creator},
			expected: []uuid.UUID{creator},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.task.StatusRecipients())
		})
	}
}

func TestMessages(t *testing.T) {
	assert.Equal(t,
		`The status of task "Write report" has been updated to "In-Progress"`,
		StatusChangedMessage("Write report", TaskStatusInProgress))
	assert.Equal(t, `You have been assigned to task "Write report"`, AssignedMessage("Write report"))
}

func TestStatusAndRoleValidity(t *testing.T) {
	assert.True(t, TaskStatusTodo.IsValid())
	assert.True(t, TaskStatusCompleted.IsValid())
	assert.False(t, TaskStatus("Done").IsValid())

	assert.True(t, AdminRoleSuperAdmin.IsValid())
	assert.False(t, AdminRole("root").IsValid())

	assert.True(t, (&Admin{Role: AdminRoleSuperAdmin}).IsSuperAdmin())
	assert.False(t, (&Admin{Role: AdminRoleAdmin}).IsSuperAdmin())
}

func TestPrincipal_HasRole(t *testing.T) {
	var nilPrincipal *Principal
	assert.False(t, nilPrincipal.HasRole(PrincipalUser))

	p := &Principal{ID: uuid.New(), Type: PrincipalAdmin}
	assert.True(t, p.HasRole(PrincipalAdmin))
	assert.False(t, p.HasRole(PrincipalUser))
}

func TestErrorKinds(t *testing.T) {
	assert.True(t, errors.Is(ErrTaskNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrEmailExists, ErrConflict))
	assert.True(t, errors.Is(ErrNotCommentAuthor, ErrUnauthorized))
	assert.True(t, errors.Is(ErrInvalidStatus, ErrValidation))
	assert.False(t, errors.Is(ErrInvalidCredentials, ErrUnauthorized))
}
