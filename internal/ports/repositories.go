package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskmaster/taskhub/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.User, error)
}

// AdminRepository defines the interface for admin data operations
type AdminRepository interface {
	Create(ctx context.Context, admin *entities.Admin) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Admin, error)
	GetByEmail(ctx context.Context, email string) (*entities.Admin, error)
}

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error)
	// Patch persists only the named fields of task and refreshes its
	// UpdatedAt, so concurrent writes to other fields survive.
	Patch(ctx context.Context, task *entities.Task, fields []string) error
	// UpdateStatus, SetAssignee and SetTags each persist one field.
	UpdateStatus(ctx context.Context, task *entities.Task) error
	SetAssignee(ctx context.Context, task *entities.Task) error
	SetTags(ctx context.Context, task *entities.Task) error
	Touch(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter TaskFilter) ([]*entities.Task, error)
	ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*entities.Task, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *entities.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Comment, error)
	Update(ctx context.Context, comment *entities.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*entities.Comment, error)
	ListByTasks(ctx context.Context, taskIDs []uuid.UUID) ([]*entities.Comment, error)
}

// NotificationRepository persists notifications. Rows are never updated.
type NotificationRepository interface {
	Create(ctx context.Context, notification *entities.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Notification, error)
}

// RealtimePublisher pushes a stored notification to live subscribers of
// the recipient. Delivery is best effort.
type RealtimePublisher interface {
	Publish(ctx context.Context, notification *entities.Notification) error
}

// Sortable task fields, as exposed over the API.
const (
	TaskSortTitle       = "title"
	TaskSortDescription = "description"
	TaskSortDueDate     = "dueDate"
	TaskSortStatus      = "status"
	TaskSortCreatedAt   = "createdAt"
	TaskSortUpdatedAt   = "updatedAt"
)

// Task fields a Patch can write.
const (
	TaskFieldTitle       = "title"
	TaskFieldDescription = "description"
	TaskFieldDueDate     = "dueDate"
	TaskFieldStatus      = "status"
	TaskFieldTags        = "tags"
	TaskFieldAssignee    = "assignee"
)

const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)

// TaskFilter is a validated, defaulted task query.
type TaskFilter struct {
	Tag       string
	Status    *entities.TaskStatus
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Offset is the number of rows skipped before the requested page.
func (f TaskFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// IsTaskSortField reports whether name may be used as a task sort key.
func IsTaskSortField(name string) bool {
	switch name {
	case TaskSortTitle, TaskSortDescription, TaskSortDueDate, TaskSortStatus, TaskSortCreatedAt, TaskSortUpdatedAt:
		return true
	default:
		return false
	}
}
