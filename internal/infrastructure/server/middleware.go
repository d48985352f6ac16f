package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	httpHandlers "github.com/taskmaster/taskhub/internal/adapters/http"
	"github.com/taskmaster/taskhub/internal/domain/entities"
)

// authMiddleware validates the bearer token and attaches the principal.
func (s *Server) authMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			p, err := s.authService.ValidateToken(c.Request().Context(), parts[1])
			if err != nil {
				httpHandlers.RequestLogger(c, s.logger).WithError(err).
					LogSecurityEvent("invalid_token", "", c.RealIP(), map[string]interface{}{
						"endpoint": c.Request().URL.Path,
					})
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			httpHandlers.SetPrincipal(c, p)

			return next(c)
		}
	}
}

// requireRole admits only principals of the given type.
func (s *Server) requireRole(role entities.PrincipalType) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := httpHandlers.PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			if p.HasRole(role) {
				return next(c)
			}

			httpHandlers.RequestLogger(c, s.logger).LogSecurityEvent("insufficient_permissions",
				p.ID.String(),
				c.RealIP(),
				map[string]interface{}{
					"required_role":  role,
					"principal_type": p.Type,
					"endpoint":       c.Request().URL.Path,
				})

			return echo.NewHTTPError(http.StatusForbidden, "Forbidden resource")
		}
	}
}
