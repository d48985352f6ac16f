package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/taskhub/internal/infrastructure/logger"
	"github.com/taskmaster/taskhub/internal/ports"
)

// AuthHandler handles user and admin authentication requests
type AuthHandler struct {
	authService ports.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService ports.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary Register a user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ports.RegisterRequest true "User details"
// @Success 201 {object} ports.Envelope
// @Failure 400 {object} ports.Envelope
// @Failure 409 {object} ports.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return failed(c, h.logger, "Register", err)
	}

	return success(c, http.StatusCreated, "User registration successful", user)
}

// Login godoc
// @Summary Log in as a user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ports.LoginRequest true "Credentials"
// @Success 200 {object} ports.Envelope
// @Failure 400 {object} ports.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		return failed(c, h.logger, "Login", err)
	}

	return success(c, http.StatusOK, "User login successful", token)
}

// RegisterAdmin godoc
// @Summary Register an admin
// @Tags admin
// @Accept json
// @Produce json
// @Param request body ports.CreateAdminRequest true "Admin details"
// @Success 201 {object} ports.Envelope
// @Failure 400 {object} ports.Envelope
// @Failure 409 {object} ports.Envelope
// @Router /admin/register [post]
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	var req ports.CreateAdminRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	admin, err := h.authService.RegisterAdmin(c.Request().Context(), req)
	if err != nil {
		return failed(c, h.logger, "Register admin", err)
	}

	return success(c, http.StatusCreated, "Admin registration successful", admin)
}

// LoginAdmin godoc
// @Summary Log in as an admin
// @Tags admin
// @Accept json
// @Produce json
// @Param request body ports.LoginRequest true "Credentials"
// @Success 200 {object} ports.Envelope
// @Failure 400 {object} ports.Envelope
// @Router /admin/login [post]
func (h *AuthHandler) LoginAdmin(c echo.Context) error {
	var req ports.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.authService.LoginAdmin(c.Request().Context(), req)
	if err != nil {
		return failed(c, h.logger, "Login admin", err)
	}

	return success(c, http.StatusOK, "Admin login successful", token)
}

// CreateAdmin godoc
// @Summary Create an admin (Super-Admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Param request body ports.CreateAdminRequest true "Admin details"
// @Success 201 {object} ports.Envelope
// @Failure 401 {object} ports.Envelope
// @Failure 409 {object} ports.Envelope
// @Security BearerAuth
// @Router /admin/create [post]
func (h *AuthHandler) CreateAdmin(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req ports.CreateAdminRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	admin, err := h.authService.CreateAdmin(c.Request().Context(), p.ID, req)
	if err != nil {
		return failed(c, h.logger, "Create admin", err)
	}

	return success(c, http.StatusCreated, "New admin created", admin)
}
