package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/infrastructure/logger"
	"github.com/taskmaster/taskhub/internal/ports"
)

// CommentHandler serves /tasks/:taskId/comments.
type CommentHandler struct {
	commentService ports.CommentService
	logger         *logger.Logger
}

func NewCommentHandler(commentService ports.CommentService, logger *logger.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		logger:         logger,
	}
}

// ListComments godoc
// @Summary List a task's comments
// @Tags comments
// @Produce json
// @Param taskId path string true "Task ID"
// @Success 200 {object} ports.Envelope
// @Failure 404 {object} ports.Envelope
// @Security BearerAuth
// @Router /tasks/{taskId}/comments [get]
func (h *CommentHandler) ListComments(c echo.Context) error {
	taskID, err := pathID(c, "taskId", entities.ErrTaskNotFound)
	if err != nil {
		return err
	}

	comments, err := h.commentService.ListForTask(c.Request().Context(), taskID)
	if err != nil {
		return failed(c, h.logger, "List comments", err)
	}

	return success(c, http.StatusOK, "Comments retrieved successfully", comments)
}

// CreateComment godoc
// @Summary Comment on a task
// @Tags comments
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID"
// @Param request body ports.CommentRequest true "Comment"
// @Success 201 {object} ports.Envelope
// @Failure 404 {object} ports.Envelope
// @Security BearerAuth
// @Router /tasks/{taskId}/comments [post]
func (h *CommentHandler) CreateComment(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	taskID, err := pathID(c, "taskId", entities.ErrTaskNotFound)
	if err != nil {
		return err
	}

	var req ports.CommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.commentService.Create(c.Request().Context(), p.ID, taskID, req.Content)
	if err != nil {
		return failed(c, h.logger, "Create comment", err)
	}

	return success(c, http.StatusCreated, "Comment created successfully", comment)
}

// UpdateComment godoc
// @Summary Edit your own comment
// @Tags comments
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID"
// @Param commentId path string true "Comment ID"
// @Param request body ports.CommentRequest true "Comment"
// @Success 200 {object} ports.Envelope
// @Failure 401 {object} ports.Envelope
// @Failure 404 {object} ports.Envelope
// @Security BearerAuth
// @Router /tasks/{taskId}/comments/{commentId} [put]
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	commentID, err := pathID(c, "commentId", entities.ErrCommentNotFound)
	if err != nil {
		return err
	}

	var req ports.CommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.commentService.Update(c.Request().Context(), p.ID, commentID, req.Content)
	if err != nil {
		return failed(c, h.logger, "Update comment", err)
	}

	return success(c, http.StatusOK, "Comment updated successfully", comment)
}

// DeleteComment godoc
// @Summary Delete your own comment
// @Tags comments
// @Produce json
// @Param taskId path string true "Task ID"
// @Param commentId path string true "Comment ID"
// @Success 200 {object} ports.Envelope
// @Failure 401 {object} ports.Envelope
// @Failure 404 {object} ports.Envelope
// @Security BearerAuth
// @Router /tasks/{taskId}/comments/{commentId} [delete]
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	commentID, err := pathID(c, "commentId", entities.ErrCommentNotFound)
	if err != nil {
		return err
	}

	if err := h.commentService.Delete(c.Request().Context(), p.ID, commentID); err != nil {
		return failed(c, h.logger, "Delete comment", err)
	}

	return success(c, http.StatusOK, "Comment deleted successfully", nil)
}
