package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/infrastructure/logger"
	"github.com/taskmaster/taskhub/internal/ports"
)

// principalKey is the echo context key the auth middleware stores the
// authenticated principal under.
const principalKey = "principal"

// SetPrincipal attaches the authenticated principal to the request.
func SetPrincipal(c echo.Context, p *entities.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the principal set by the auth middleware.
func PrincipalFrom(c echo.Context) (*entities.Principal, bool) {
	p, ok := c.Get(principalKey).(*entities.Principal)
	return p, ok && p != nil
}

func principal(c echo.Context) (*entities.Principal, error) {
	p, ok := PrincipalFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return p, nil
}

// RequestLogger scopes log to the request id and, once authenticated, the
// caller's id.
func RequestLogger(c echo.Context, log *logger.Logger) *logger.Logger {
	log = log.WithRequestID(c.Response().Header().Get(echo.HeaderXRequestID))
	if p, ok := PrincipalFrom(c); ok {
		log = log.WithUserID(p.ID.String())
	}
	return log
}

// failed maps a service error for the client. Client errors are logged here;
// server errors are logged once by the HTTP error handler.
func failed(c echo.Context, log *logger.Logger, action string, err error) error {
	he := Error(err)
	if he.Code < http.StatusInternalServerError {
		RequestLogger(c, log).WithError(err).Infow(action+" failed", "status_code", he.Code)
	}
	return he
}

// pathID parses a UUID path parameter. A malformed id cannot name a stored
// entity, so it fails with notFound.
func pathID(c echo.Context, name string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, Error(notFound)
	}
	return id, nil
}

func success(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, ports.Envelope{
		Status:  ports.StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// bindAndValidate decodes the request into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// StatusCode maps a domain error to its HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, entities.ErrValidation), errors.Is(err, entities.ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error converts a service error into an echo.HTTPError carrying a client
// safe message. Unclassified errors keep the cause as Internal.
func Error(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	code := StatusCode(err)
	switch {
	case code == http.StatusInternalServerError:
		return echo.NewHTTPError(code, "Internal server error").SetInternal(err)
	case errors.Is(err, entities.ErrInvalidCredentials):
		return echo.NewHTTPError(code, "Invalid credentials")
	case errors.Is(err, entities.ErrEmailExists):
		return echo.NewHTTPError(code, "Email address already exists")
	default:
		return echo.NewHTTPError(code, capitalize(err.Error()))
	}
}

// ValidationMessage renders validator errors as one line per field.
func ValidationMessage(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fieldMessage(fe))
	}
	return strings.Join(parts, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "strongpassword":
		return fmt.Sprintf("%s must be at least 8 characters and contain upper and lower case letters, a digit and one of @$!%%*?&", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
