package ports

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskmaster/taskhub/internal/domain/entities"
)

// AuthService interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*entities.User, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	RegisterAdmin(ctx context.Context, req CreateAdminRequest) (*entities.Admin, error)
	LoginAdmin(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	CreateAdmin(ctx context.Context, actorID uuid.UUID, req CreateAdminRequest) (*entities.Admin, error)
	ValidateToken(ctx context.Context, tokenString string) (*entities.Principal, error)
}

// TaskService interface for the user-facing task lifecycle
type TaskService interface {
	Create(ctx context.Context, actorID uuid.UUID, req CreateTaskRequest) (*entities.Task, error)
	List(ctx context.Context, req ListTasksRequest) ([]*entities.Task, error)
	GetByID(ctx context.Context, taskID uuid.UUID) (*entities.Task, error)
	Update(ctx context.Context, actorID, taskID uuid.UUID, req UpdateTaskRequest) (*entities.Task, error)
	UpdateStatus(ctx context.Context, actorID, taskID uuid.UUID, status entities.TaskStatus) (*StatusResponse, error)
	Remove(ctx context.Context, actorID, taskID uuid.UUID) error
	AddTags(ctx context.Context, taskID uuid.UUID, tags []string) ([]string, error)
	Assign(ctx context.Context, taskID uuid.UUID, email string) (*entities.Task, error)
}

// CommentService interface for comment operations
type CommentService interface {
	Create(ctx context.Context, actorID, taskID uuid.UUID, content string) (*entities.Comment, error)
	Update(ctx context.Context, actorID, commentID uuid.UUID, content string) (*entities.Comment, error)
	Delete(ctx context.Context, actorID, commentID uuid.UUID) error
	ListForTask(ctx context.Context, taskID uuid.UUID) ([]*entities.Comment, error)
}

// AdminService interface for privileged task and comment management
type AdminService interface {
	GetTasks(ctx context.Context, req ListTasksRequest) ([]*entities.Task, error)
	GetTaskByID(ctx context.Context, taskID uuid.UUID) (*entities.Task, error)
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status entities.TaskStatus) (*entities.Task, error)
	GetTaskComments(ctx context.Context, taskID uuid.UUID) ([]*entities.Comment, error)
	DeleteTaskComment(ctx context.Context, taskID, commentID uuid.UUID) error
	DeleteTaskByID(ctx context.Context, taskID uuid.UUID) error
}

// UserService interface for per-user views
type UserService interface {
	AssignedTasks(ctx context.Context, userID uuid.UUID) ([]*entities.Task, error)
	Notifications(ctx context.Context, userID uuid.UUID) ([]*entities.Notification, error)
}

// Notifier records a notification for a user and forwards it to the
// real-time channel.
type Notifier interface {
	Notify(ctx context.Context, recipientID uuid.UUID, message string) (*entities.Notification, error)
}

// Request/Response Types

// Auth related types
type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,strongpassword"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateAdminRequest struct {
	FullName string              `json:"fullName" validate:"required,max=200"`
	Email    string              `json:"email" validate:"required,email"`
	Password string              `json:"password" validate:"required,strongpassword"`
	Role     *entities.AdminRole `json:"role" validate:"omitempty,oneof=Admin Super-Admin"`
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// Task related types
type CreateTaskRequest struct {
	Title       string               `json:"title" validate:"required,max=255"`
	Description string               `json:"description" validate:"required"`
	DueDate     string               `json:"dueDate" validate:"required"`
	Status      *entities.TaskStatus `json:"status" validate:"omitempty,oneof=To-Do In-Progress Completed"`
	Tags        []string             `json:"tags" validate:"omitempty,dive,required"`
}

type UpdateTaskRequest struct {
	Title       *string              `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string              `json:"description" validate:"omitempty,min=1"`
	DueDate     *string              `json:"dueDate" validate:"omitempty"`
	Status      *entities.TaskStatus `json:"status" validate:"omitempty,oneof=To-Do In-Progress Completed"`
	Tags        []string             `json:"tags" validate:"omitempty,dive,required"`
}

type UpdateTaskStatusRequest struct {
	NewStatus entities.TaskStatus `json:"newStatus" validate:"required,oneof=To-Do In-Progress Completed"`
}

type AddTagsRequest struct {
	Tags []string `json:"tags" validate:"required,min=1,dive,required"`
}

type AssignTaskRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type StatusResponse struct {
	NewStatus entities.TaskStatus `json:"newStatus"`
}

// ListTasksRequest carries the raw listing query. Zero values mean "use the default".
type ListTasksRequest struct {
	Tag       string `query:"tag"`
	Status    string `query:"status" validate:"omitempty,oneof=To-Do In-Progress Completed"`
	Page      int    `query:"page" validate:"omitempty,min=1"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=100"`
	SortBy    string `query:"sortBy"`
	SortOrder string `query:"sortOrder"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Filter applies defaults and checks the request, returning a TaskFilter
// ready for the repository.
func (r ListTasksRequest) Filter() (TaskFilter, error) {
	filter := TaskFilter{
		Tag:       r.Tag,
		Page:      r.Page,
		Limit:     r.Limit,
		SortBy:    r.SortBy,
		SortOrder: strings.ToUpper(r.SortOrder),
	}

	if filter.Page == 0 {
		filter.Page = DefaultPage
	}
	if filter.Limit == 0 {
		filter.Limit = DefaultLimit
	}
	if filter.Page < 1 {
		return TaskFilter{}, fmt.Errorf("%w: page must be at least 1", entities.ErrValidation)
	}
	if filter.Limit < 1 || filter.Limit > MaxLimit {
		return TaskFilter{}, fmt.Errorf("%w: limit must be between 1 and %d", entities.ErrValidation, MaxLimit)
	}
	// OFFSET must stay representable; it is bounded like a 32-bit count.
	if filter.Page-1 > math.MaxInt32/filter.Limit {
		return TaskFilter{}, fmt.Errorf("%w: page is out of range", entities.ErrValidation)
	}

	if r.Status != "" {
		status := entities.TaskStatus(r.Status)
		if !status.IsValid() {
			return TaskFilter{}, entities.ErrInvalidStatus
		}
		filter.Status = &status
	}

	if filter.SortBy == "" {
		filter.SortBy = TaskSortDueDate
	} else if !IsTaskSortField(filter.SortBy) {
		return TaskFilter{}, fmt.Errorf("%w: cannot sort by %q", entities.ErrValidation, filter.SortBy)
	}

	switch filter.SortOrder {
	case "":
		filter.SortOrder = SortAsc
	case SortAsc, SortDesc:
	default:
		return TaskFilter{}, fmt.Errorf("%w: sortOrder must be ASC or DESC", entities.ErrValidation)
	}

	return filter, nil
}

// Comment related types
type CommentRequest struct {
	Content string `json:"content" validate:"required"`
}

type AdminDeleteCommentRequest struct {
	CommentID string `json:"commentId" validate:"required"`
}

// ParseDueDate accepts an RFC 3339 timestamp or a plain YYYY-MM-DD date.
func ParseDueDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: dueDate %q is not an ISO 8601 date", entities.ErrValidation, value)
}

// Response envelope

type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)
