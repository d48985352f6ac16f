package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/infrastructure/logger"
	"github.com/taskmaster/taskhub/internal/ports"
)

// AdminHandler serves the /admin/tasks override routes.
type AdminHandler struct {
	adminService ports.AdminService
	logger       *logger.Logger
}

func NewAdminHandler(adminService ports.AdminService, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// GetTasks godoc
// @Summary List all tasks
// @Tags admin
// @Produce json
// @Param tag query string false "Tag the task must carry"
// @Param status query string false "To-Do, In-Progress or Completed"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param sortBy query string false "Sort field"
// @Param sortOrder query string false "ASC or DESC"
// @Success 200 {object} ports.Envelope
// @Security BearerAuth
// @Router /admin/tasks [get]
func (h *AdminHandler) GetTasks(c echo.Context) error {
	var req ports.ListTasksRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tasks, err := h.adminService.GetTasks(c.Request().Context(), req)
	if err != nil {
		return failed(c, h.logger, "Get tasks", err)
	}

	return success(c, http.StatusOK, "Tasks retrieved successfully", tasks)
}

// GetTask godoc
// @Summary Get any task
// @Tags admin
// @Produce json
// @Param taskId path string true "Task ID"
// @Success 200 {object} ports.Envelope
// @Failure 404 {object} ports.Envelope
// @Security BearerAuth
// @Router /admin/tasks/{taskId} [get]
func (h *AdminHandler) GetTask(c echo.Context) error {
	taskID, err := pathID(c, "taskId", entities.ErrTaskNotFound)
	if err != nil {
		return err
	}

	task, err := h.adminService.GetTaskByID(c.Request().Context(), taskID)
	if err != nil {
		return failed(c, h.logger, "Get task", err)
	}

	return success(c, http.StatusOK, "Task data retrieved successfully", task)
}

// UpdateTaskStatus godoc
// @Summary Override a task's status
// @Tags admin
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID"
// @Param request body ports.UpdateTaskStatusRequest true "New status"
// @Success 200 {object} ports.Envelope
// @Failure 404 {object} ports.Envelope
// @Security BearerAuth
// @Router /admin/tasks/{taskId}/status [put]
func (h *AdminHandler) UpdateTaskStatus(c echo.Context) error {
	taskID, err := pathID(c, "taskId", entities.ErrTaskNotFound)
	if err != nil {
		return err
	}

	var req ports.UpdateTaskStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.adminService.UpdateTaskStatus(c.Request().Context(), taskID, req.NewStatus)
	if err != nil {
		return failed(c, h.logger, "Update task status", err)
	}

	return success(c, http.StatusOK, "Task status updated successfully", task)
}

// GetTaskComments godoc
// @Summary List any task's comments
// @Tags admin
// @Produce json
// @Param taskId path string true "Task ID"
// @Success 200 {object} ports.Envelope
// @Failure 404 {object} ports.Envelope
// @Security BearerAuth
// @Router /admin/tasks/{taskId}/comments [get]
func (h *AdminHandler) GetTaskComments(c echo.Context) error {
	taskID, err := pathID(c, "taskId", entities.ErrTaskNotFound)
	if err != nil {
		return err
	}

	comments, err := h.adminService.GetTaskComments(c.Request().Context(), taskID)
	if err != nil {
		return failed(c, h.logger, "Get task comments", err)
	}

	return success(c, http.StatusOK, "Comments retrieved successfully", comments)
}

// DeleteTaskComment godoc
// @Summary Delete any comment on a task
// @Tags admin
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID"
// @Param request body ports.AdminDeleteCommentRequest true "Comment to delete"
// @Success 200 {object} ports.Envelope
// @Failure 404 {object} ports.Envelope
// @Security BearerAuth
// @Router /admin/tasks/{taskId}/comments [delete]
func (h *AdminHandler) DeleteTaskComment(c echo.Context) error {
	taskID, err := pathID(c, "taskId", entities.ErrTaskNotFound)
	if err != nil {
		return err
	}

	var req ports.AdminDeleteCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	commentID, err := uuid.Parse(req.CommentID)
	if err != nil {
		return Error(entities.ErrCommentNotFound)
	}

	if err := h.adminService.DeleteTaskComment(c.Request().Context(), taskID, commentID); err != nil {
		return failed(c, h.logger, "Delete task comment", err)
	}

	return success(c, http.StatusOK, "Comment deleted successfully", nil)
}

// DeleteTask godoc
// @Summary Delete any task
// @Tags admin
// @Produce json
// @Param taskId path string true "Task ID"
// @Success 200 {object} ports.Envelope
// @Failure 404 {object} ports.Envelope
// @Security BearerAuth
// @Router /admin/tasks/{taskId} [delete]
func (h *AdminHandler) DeleteTask(c echo.Context) error {
	taskID, err := pathID(c, "taskId", entities.ErrTaskNotFound)
	if err != nil {
		return err
	}

	if err := h.adminService.DeleteTaskByID(c.Request().Context(), taskID); err != nil {
		return failed(c, h.logger, "Delete task", err)
	}

	return success(c, http.StatusOK, "Task deleted successfully", nil)
}
