package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/infrastructure/logger"
	"github.com/taskmaster/taskhub/internal/ports"
)

// UserService serves the per-user views.
type UserService struct {
	taskRepo         ports.TaskRepository
	notificationRepo ports.NotificationRepository
	graph            *taskGraph
	logger           *logger.Logger
}

func NewUserService(taskRepo ports.TaskRepository, commentRepo ports.CommentRepository, userRepo ports.UserRepository, notificationRepo ports.NotificationRepository, logger *logger.Logger) *UserService {
	return &UserService{
		taskRepo:         taskRepo,
		notificationRepo: notificationRepo,
		graph:            newTaskGraph(taskRepo, commentRepo, userRepo),
		logger:           logger.WithComponent("users"),
	}
}

// AssignedTasks returns the tasks currently assigned to the user.
func (s *UserService) AssignedTasks(ctx context.Context, userID uuid.UUID) ([]*entities.Task, error) {
	tasks, err := s.taskRepo.ListByAssignee(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned tasks: %w", err)
	}

	if err := s.graph.attach(ctx, tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

// Notifications returns the user's stored notifications, newest first.
func (s *UserService) Notifications(ctx context.Context, userID uuid.UUID) ([]*entities.Notification, error) {
	notifications, err := s.notificationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

var (
	_ ports.AuthService    = (*AuthService)(nil)
	_ ports.TaskService    = (*TaskService)(nil)
	_ ports.CommentService = (*CommentService)(nil)
	_ ports.AdminService   = (*AdminService)(nil)
	_ ports.UserService    = (*UserService)(nil)
	_ ports.Notifier       = (*NotificationService)(nil)
)
