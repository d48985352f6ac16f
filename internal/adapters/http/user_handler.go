package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/taskhub/internal/infrastructure/logger"
	"github.com/taskmaster/taskhub/internal/ports"
)

// UserHandler handles requests about the calling user
type UserHandler struct {
	userService ports.UserService
	logger      *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService ports.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// AssignedTasks godoc
// @Summary Tasks assigned to the caller
// @Tags users
// @Produce json
// @Success 200 {object} ports.Envelope
// @Security BearerAuth
// @Router /user/tasks [get]
func (h *UserHandler) AssignedTasks(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	tasks, err := h.userService.AssignedTasks(c.Request().Context(), p.ID)
	if err != nil {
		return failed(c, h.logger, "Assigned tasks", err)
	}

	return success(c, http.StatusOK, "User tasks retrieved", tasks)
}

// Notifications godoc
// @Summary The caller's notifications, newest first
// @Tags users
// @Produce json
// @Success 200 {object} ports.Envelope
// @Security BearerAuth
// @Router /user/notifications [get]
func (h *UserHandler) Notifications(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	notifications, err := h.userService.Notifications(c.Request().Context(), p.ID)
	if err != nil {
		return failed(c, h.logger, "Notifications", err)
	}

	return success(c, http.StatusOK, "Notifications retrieved", notifications)
}
