package entities

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Error kinds. Entity-specific errors wrap one of these so callers can
// classify with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
)

var (
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrAdminNotFound   = fmt.Errorf("admin %w", ErrNotFound)
	ErrTaskNotFound    = fmt.Errorf("task %w", ErrNotFound)
	ErrCommentNotFound = fmt.Errorf("comment %w", ErrNotFound)

	ErrEmailExists = fmt.Errorf("%w: email address already exists", ErrConflict)

	ErrNotTaskCreator     = fmt.Errorf("%w: only the task creator may do this", ErrUnauthorized)
	ErrNotTaskParticipant = fmt.Errorf("%w: task was not created by or assigned to you", ErrUnauthorized)
	ErrNotCommentAuthor   = fmt.Errorf("%w: you can only change your own comments", ErrUnauthorized)
	ErrNotSuperAdmin      = fmt.Errorf("%w: only a super admin can create an admin", ErrUnauthorized)

	ErrInvalidStatus = fmt.Errorf("%w: invalid task status", ErrValidation)
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "To-Do"
	TaskStatusInProgress TaskStatus = "In-Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

type AdminRole string

const (
	AdminRoleAdmin      AdminRole = "Admin"
	AdminRoleSuperAdmin AdminRole = "Super-Admin"
)

// PrincipalType distinguishes the two kinds of authenticated callers.
type PrincipalType string

const (
	PrincipalUser  PrincipalType = "user"
	PrincipalAdmin PrincipalType = "admin"
)

// User represents a registered end user.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Admin represents a privileged operator account.
type Admin struct {
	ID           uuid.UUID `json:"id" db:"id"`
	FullName     string    `json:"fullName" db:"full_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         AdminRole `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Task is the unit of work. Creator and assignee are stored as ids; the
// Creator, AssignedTo and Comments fields are filled by the service layer
// when a response needs them.
type Task struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	DueDate     time.Time  `json:"dueDate" db:"due_date"`
	Status      TaskStatus `json:"status" db:"status"`
	Tags        []string   `json:"tags" db:"-"`
	CreatorID   uuid.UUID  `json:"creatorId" db:"creator_id"`
	AssigneeID  *uuid.UUID `json:"assignedToId" db:"assignee_id"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	Creator    *User      `json:"creator,omitempty" db:"-"`
	AssignedTo *User      `json:"assignedTo,omitempty" db:"-"`
	Comments   []*Comment `json:"comments" db:"-"`
}

// Comment belongs to exactly one task and one author.
type Comment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	AuthorID  uuid.UUID `json:"authorId" db:"author_id"`
	TaskID    uuid.UUID `json:"taskId" db:"task_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Author *User `json:"author,omitempty" db:"-"`
}

// Notification is an append-only message addressed to a user.
type Notification struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID    uuid.UUID
	Email string
	Type  PrincipalType
}

// HasRole reports whether the principal satisfies a route's required role.
func (p *Principal) HasRole(role PrincipalType) bool {
	return p != nil && p.Type == role
}

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

func (r AdminRole) IsValid() bool {
	switch r {
	case AdminRoleAdmin, AdminRoleSuperAdmin:
		return true
	default:
		return false
	}
}

func (a *Admin) IsSuperAdmin() bool {
	return a.Role == AdminRoleSuperAdmin
}

// Business logic methods for Task

func (t *Task) IsCreatedBy(userID uuid.UUID) bool {
	return t.CreatorID == userID
}

func (t *Task) IsAssignedTo(userID uuid.UUID) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}

// CanChangeStatus holds for the creator and the current assignee.
func (t *Task) CanChangeStatus(userID uuid.UUID) bool {
	return t.IsCreatedBy(userID) || t.IsAssignedTo(userID)
}

// AddTags merges tags into the task's tag set. Existing tags keep their
// position, new ones follow in input order, duplicates are dropped.
func (t *Task) AddTags(tags []string) {
	seen := make(map[string]struct{}, len(t.Tags)+len(tags))
	merged := make([]string, 0, len(t.Tags)+len(tags))
	for _, tag := range append(append([]string{}, t.Tags...), tags...) {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		merged = append(merged, tag)
	}
	t.Tags = merged
}

func (t *Task) AssignTo(userID uuid.UUID) {
	id := userID
	t.AssigneeID = &id
}

// StatusRecipients returns the users to notify about a status change:
// assignee first, then creator, each at most once.
func (t *Task) StatusRecipients() []uuid.UUID {
	recipients := make([]uuid.UUID, 0, 2)
	if t.AssigneeID != nil {
		recipients = append(recipients, *t.AssigneeID)
	}
	if t.CreatorID != uuid.Nil && !t.IsAssignedTo(t.CreatorID) {
		recipients = append(recipients, t.CreatorID)
	}
	return recipients
}

// StatusChangedMessage is the text sent to task participants after a status change.
func StatusChangedMessage(title string, status TaskStatus) string {
	return fmt.Sprintf("The status of task \"%s\" has been updated to \"%s\"", title, status)
}

// AssignedMessage is the text sent to a new assignee.
func AssignedMessage(title string) string {
	return fmt.Sprintf("You have been assigned to task \"%s\"", title)
}
