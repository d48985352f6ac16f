package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/infrastructure/logger"
	"github.com/taskmaster/taskhub/internal/ports"
)

// AdminService gives admins unrestricted access to tasks and comments.
// Route-level role checks are the only gate.
type AdminService struct {
	taskRepo    ports.TaskRepository
	commentRepo ports.CommentRepository
	graph       *taskGraph
	notifier    ports.Notifier
	logger      *logger.Logger
}

func NewAdminService(taskRepo ports.TaskRepository, commentRepo ports.CommentRepository, userRepo ports.UserRepository, notifier ports.Notifier, logger *logger.Logger) *AdminService {
	return &AdminService{
		taskRepo:    taskRepo,
		commentRepo: commentRepo,
		graph:       newTaskGraph(taskRepo, commentRepo, userRepo),
		notifier:    notifier,
		logger:      logger.WithComponent("admin"),
	}
}

func (s *AdminService) GetTasks(ctx context.Context, req ports.ListTasksRequest) ([]*entities.Task, error) {
	return listTasks(ctx, s.taskRepo, s.graph, req)
}

func (s *AdminService) GetTaskByID(ctx context.Context, taskID uuid.UUID) (*entities.Task, error) {
	return getTask(ctx, s.taskRepo, s.graph, taskID)
}

// UpdateTaskStatus sets the status without an ownership check and notifies
// the task's participants.
func (s *AdminService) UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status entities.TaskStatus) (*entities.Task, error) {
	if !status.IsValid() {
		return nil, entities.ErrInvalidStatus
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	task.Status = status
	if err := s.taskRepo.UpdateStatus(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	s.logger.Infow("Task status overridden", "task_id", task.ID, "status", status)

	notifyStatusChange(ctx, s.notifier, s.logger, task)

	if err := s.graph.attach(ctx, []*entities.Task{task}); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *AdminService) GetTaskComments(ctx context.Context, taskID uuid.UUID) ([]*entities.Comment, error) {
	return s.graph.comments(ctx, taskID)
}

// DeleteTaskComment deletes any comment on the task. A comment that belongs
// to a different task is reported as not found.
func (s *AdminService) DeleteTaskComment(ctx context.Context, taskID, commentID uuid.UUID) error {
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.TaskID != taskID {
		return entities.ErrCommentNotFound
	}

	if err := s.graph.detachComment(ctx, comment); err != nil {
		return err
	}

	s.logger.Infow("Comment deleted by admin", "comment_id", comment.ID, "task_id", taskID)

	return nil
}

func (s *AdminService) DeleteTaskByID(ctx context.Context, taskID uuid.UUID) error {
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, entities.ErrTaskNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Infow("Task deleted by admin", "task_id", taskID)

	return nil
}
