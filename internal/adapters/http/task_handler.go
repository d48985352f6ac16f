package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/infrastructure/logger"
	"github.com/taskmaster/taskhub/internal/ports"
)

// TaskHandler handles task lifecycle requests from users
type TaskHandler struct {
	taskService ports.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// CreateTask godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body ports.CreateTaskRequest true "Task data"
// @Success 201 {object} ports.Envelope
// @Failure 400 {object} ports.Envelope
// @Failure 401 {object} ports.Envelope
// @Security BearerAuth
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req ports.CreateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.Create(c.Request().Context(), p.ID, req)
	if err != nil {
		return failed(c, h.logger, "Create task", err)
	}

	return success(c, http.StatusCreated, "Task created successfully", task)
}

// ListTasks godoc
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Param tag query string false "Tag the task must carry"
// @Param status query string false "To-Do, In-Progress or Completed"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param sortBy query string false "title, description, dueDate, status, createdAt or updatedAt"
// @Param sortOrder query string false "ASC or DESC"
// @Success 200 {object} ports.Envelope
// @Security BearerAuth
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	var req ports.ListTasksRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tasks, err := h.taskService.List(c.Request().Context(), req)
	if err != nil {
		return failed(c, h.logger, "List tasks", err)
	}

	return success(c, http.StatusOK, "Tasks retrieved successfully", tasks)
}

// GetTask godoc
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Param taskId path string true "Task ID"
// @Success 200 {object} ports.Envelope
// @Failure 404 {object} ports.Envelope
// @Security BearerAuth
// @Router /tasks/{taskId} [get]
func (h *TaskHandler) GetTask(c echo.Context) error {
	taskID, err := pathID(c, "taskId", entities.ErrTaskNotFound)
	if err != nil {
		return err
	}

	task, err := h.taskService.GetByID(c.Request().Context(), taskID)
	if err != nil {
		return failed(c, h.logger, "Get task", err)
	}

	return success(c, http.StatusOK, "Task data retrieved successfully", task)
}

// UpdateTask godoc
// @Summary Update a task (creator only)
// @Tags tasks
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID"
// @Param request body ports.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} ports.Envelope
// @Failure 401 {object} ports.Envelope
// @Failure 404 {object} ports.Envelope
// @Security BearerAuth
// @Router /tasks/{taskId} [put]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	taskID, err := pathID(c, "taskId", entities.ErrTaskNotFound)
	if err != nil {
		return err
	}

	var req ports.UpdateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.Update(c.Request().Context(), p.ID, taskID, req)
	if err != nil {
		return failed(c, h.logger, "Update task", err)
	}

	return success(c, http.StatusOK, "Task data updated successfully", task)
}

// UpdateTaskStatus godoc
// @Summary Change a task's status (creator or assignee)
// @Tags tasks
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID"
// @Param request body ports.UpdateTaskStatusRequest true "New status"
// @Success 200 {object} ports.Envelope
// @Failure 401 {object} ports.Envelope
// @Failure 404 {object} ports.Envelope
// @Security BearerAuth
// @Router /tasks/{taskId}/status [put]
func (h *TaskHandler) UpdateTaskStatus(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	taskID, err := pathID(c, "taskId", entities.ErrTaskNotFound)
	if err != nil {
		return err
	}

	var req ports.UpdateTaskStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.taskService.UpdateStatus(c.Request().Context(), p.ID, taskID, req.NewStatus)
	if err != nil {
		return failed(c, h.logger, "Update task status", err)
	}

	return success(c, http.StatusOK, "Task status successfully updated", result)
}

// AddTags godoc
// @Summary Add tags to a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID"
// @Param request body ports.AddTagsRequest true "Tags"
// @Success 200 {object} ports.Envelope
// @Failure 404 {object} ports.Envelope
// @Security BearerAuth
// @Router /tasks/{taskId}/tags [put]
func (h *TaskHandler) AddTags(c echo.Context) error {
	taskID, err := pathID(c, "taskId", entities.ErrTaskNotFound)
	if err != nil {
		return err
	}

	var req ports.AddTagsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tags, err := h.taskService.AddTags(c.Request().Context(), taskID, req.Tags)
	if err != nil {
		return failed(c, h.logger, "Add tags", err)
	}

	return success(c, http.StatusOK, "Tags added successfully", map[string][]string{"tags": tags})
}

// AssignTask godoc
// @Summary Assign a task to a user by email
// @Tags tasks
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID"
// @Param request body ports.AssignTaskRequest true "Assignee"
// @Success 200 {object} ports.Envelope
// @Failure 404 {object} ports.Envelope
// @Security BearerAuth
// @Router /tasks/{taskId}/assign [put]
func (h *TaskHandler) AssignTask(c echo.Context) error {
	taskID, err := pathID(c, "taskId", entities.ErrTaskNotFound)
	if err != nil {
		return err
	}

	var req ports.AssignTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.Assign(c.Request().Context(), taskID, req.Email)
	if err != nil {
		return failed(c, h.logger, "Assign task", err)
	}

	return success(c, http.StatusOK, "Task assigned successfully", task)
}

// DeleteTask godoc
// @Summary Delete a task (creator only)
// @Tags tasks
// @Produce json
// @Param taskId path string true "Task ID"
// @Success 200 {object} ports.Envelope
// @Failure 401 {object} ports.Envelope
// @Failure 404 {object} ports.Envelope
// @Security BearerAuth
// @Router /tasks/{taskId} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	taskID, err := pathID(c, "taskId", entities.ErrTaskNotFound)
	if err != nil {
		return err
	}

	if err := h.taskService.Remove(c.Request().Context(), p.ID, taskID); err != nil {
		return failed(c, h.logger, "Delete task", err)
	}

	return success(c, http.StatusOK, "Task deleted successfully", nil)
}
