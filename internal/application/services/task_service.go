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

// TaskService handles the user-facing task lifecycle
type TaskService struct {
	taskRepo ports.TaskRepository
	userRepo ports.UserRepository
	graph    *taskGraph
	notifier ports.Notifier
	logger   *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, commentRepo ports.CommentRepository, userRepo ports.UserRepository, notifier ports.Notifier, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		graph:    newTaskGraph(taskRepo, commentRepo, userRepo),
		notifier: notifier,
		logger:   logger.WithComponent("tasks"),
	}
}

// Create stores a new task owned by the acting user.
func (s *TaskService) Create(ctx context.Context, actorID uuid.UUID, req ports.CreateTaskRequest) (*entities.Task, error) {
	creator, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	dueDate, err := ports.ParseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	status := entities.TaskStatusTodo
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, entities.ErrInvalidStatus
		}
		status = *req.Status
	}

	task := &entities.Task{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		Status:      status,
		Tags:        []string{},
		CreatorID:   creator.ID,
	}
	task.AddTags(req.Tags)

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	task.Creator = creator
	task.Comments = []*entities.Comment{}

	s.logger.Infow("Task created successfully", "task_id", task.ID, "user_id", actorID)

	return task, nil
}

// List returns one page of tasks with creator, assignee and comments attached.
func (s *TaskService) List(ctx context.Context, req ports.ListTasksRequest) ([]*entities.Task, error) {
	return listTasks(ctx, s.taskRepo, s.graph, req)
}

func (s *TaskService) GetByID(ctx context.Context, taskID uuid.UUID) (*entities.Task, error) {
	return getTask(ctx, s.taskRepo, s.graph, taskID)
}

// Update applies a partial patch. Only the creator may update a task; a
// status change in the patch notifies like UpdateStatus.
func (s *TaskService) Update(ctx context.Context, actorID, taskID uuid.UUID, req ports.UpdateTaskRequest) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !task.IsCreatedBy(actorID) {
		return nil, entities.ErrNotTaskCreator
	}

	previousStatus := task.Status
	var fields []string

	if req.Title != nil {
		task.Title = *req.Title
		fields = append(fields, ports.TaskFieldTitle)
	}
	if req.Description != nil {
		task.Description = *req.Description
		fields = append(fields, ports.TaskFieldDescription)
	}
	if req.DueDate != nil {
		dueDate, err := ports.ParseDueDate(*req.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = dueDate
		fields = append(fields, ports.TaskFieldDueDate)
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, entities.ErrInvalidStatus
		}
		task.Status = *req.Status
		fields = append(fields, ports.TaskFieldStatus)
	}
	if req.Tags != nil {
		task.Tags = []string{}
		task.AddTags(req.Tags)
		fields = append(fields, ports.TaskFieldTags)
	}

	if err := s.taskRepo.Patch(ctx, task, fields); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Infow("Task updated successfully", "task_id", task.ID, "user_id", actorID)

	if task.Status != previousStatus {
		notifyStatusChange(ctx, s.notifier, s.logger, task)
	}

	if err := s.graph.attach(ctx, []*entities.Task{task}); err != nil {
		return nil, err
	}

	return task, nil
}

// UpdateStatus is open to the creator and the current assignee. Both are
// notified of the new status.
func (s *TaskService) UpdateStatus(ctx context.Context, actorID, taskID uuid.UUID, status entities.TaskStatus) (*ports.StatusResponse, error) {
	if !status.IsValid() {
		return nil, entities.ErrInvalidStatus
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !task.CanChangeStatus(actorID) {
		return nil, entities.ErrNotTaskParticipant
	}

	task.Status = status
	if err := s.taskRepo.UpdateStatus(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	s.logger.Infow("Task status updated", "task_id", task.ID, "user_id", actorID, "status", status)

	notifyStatusChange(ctx, s.notifier, s.logger, task)

	return &ports.StatusResponse{NewStatus: task.Status}, nil
}

// Remove deletes a task and, through the store, its comments.
func (s *TaskService) Remove(ctx context.Context, actorID, taskID uuid.UUID) error {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	if !task.IsCreatedBy(actorID) {
		return entities.ErrNotTaskCreator
	}

	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		if errors.Is(err, entities.ErrTaskNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Infow("Task deleted successfully", "task_id", task.ID, "user_id", actorID)

	return nil
}

// AddTags merges tags into the task's set and returns the resulting tags.
func (s *TaskService) AddTags(ctx context.Context, taskID uuid.UUID, tags []string) ([]string, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	task.AddTags(tags)

	if err := s.taskRepo.SetTags(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save tags: %w", err)
	}

	s.logger.Infow("Tags added successfully", "task_id", task.ID, "tags", task.Tags)

	return task.Tags, nil
}

// Assign makes the user with the given email the task's assignee and
// notifies them. Reassignment and self-assignment are allowed.
func (s *TaskService) Assign(ctx context.Context, taskID uuid.UUID, email string) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	assignee, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	task.AssignTo(assignee.ID)
	if err := s.taskRepo.SetAssignee(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	s.logger.Infow("Task assigned successfully", "task_id", task.ID, "user_id", assignee.ID)

	if _, err := s.notifier.Notify(ctx, assignee.ID, entities.AssignedMessage(task.Title)); err != nil {
		s.logger.Warnw("Failed to send assignment notification",
			"task_id", task.ID,
			"user_id", assignee.ID,
			"error", err,
		)
	}

	if err := s.graph.attach(ctx, []*entities.Task{task}); err != nil {
		return nil, err
	}

	return task, nil
}

func listTasks(ctx context.Context, taskRepo ports.TaskRepository, graph *taskGraph, req ports.ListTasksRequest) ([]*entities.Task, error) {
	filter, err := req.Filter()
	if err != nil {
		return nil, err
	}

	tasks, err := taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	if err := graph.attach(ctx, tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

func getTask(ctx context.Context, taskRepo ports.TaskRepository, graph *taskGraph, taskID uuid.UUID) (*entities.Task, error) {
	task, err := taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := graph.attach(ctx, []*entities.Task{task}); err != nil {
		return nil, err
	}

	return task, nil
}
