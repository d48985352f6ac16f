package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/infrastructure/logger"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{entities.ErrInvalidStatus, http.StatusBadRequest},
		{entities.ErrInvalidCredentials, http.StatusBadRequest},
		{fmt.Errorf("%w: bad date", entities.ErrValidation), http.StatusBadRequest},
		{entities.ErrNotTaskCreator, http.StatusUnauthorized},
		{entities.ErrNotSuperAdmin, http.StatusUnauthorized},
		{entities.ErrTaskNotFound, http.StatusNotFound},
		{entities.ErrUserNotFound, http.StatusNotFound},
		{entities.ErrEmailExists, http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.code, StatusCode(tt.err))
		})
	}
}

func TestError_Messages(t *testing.T) {
	assert.Equal(t, "Invalid credentials", Error(entities.ErrInvalidCredentials).Message)
	assert.Equal(t, "Email address already exists", Error(entities.ErrEmailExists).Message)
	assert.Equal(t, "Task not found", Error(entities.ErrTaskNotFound).Message)

	internal := errors.New("pq: relation does not exist")
	he := Error(fmt.Errorf("list tasks: %w", internal))
	assert.Equal(t, http.StatusInternalServerError, he.Code)
	assert.Equal(t, "Internal server error", he.Message)
	assert.ErrorIs(t, he.Internal, internal)
}

func newObservedContext(t *testing.T) (echo.Context, *logger.Logger, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/tasks", nil), rec)
	c.Response().Header().Set(echo.HeaderXRequestID, "req-1")

	return c, &logger.Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestFailed_LogsClientErrorsWithRequestScope(t *testing.T) {
	c, log, logs := newObservedContext(t)
	userID := uuid.New()
	SetPrincipal(c, &entities.Principal{ID: userID, Type: entities.PrincipalUser})

	err := failed(c, log, "Get task", entities.ErrTaskNotFound)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.Code)

	entries := logs.FilterMessage("Get task failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, userID.String(), fields["user_id"])
	assert.Equal(t, entities.ErrTaskNotFound.Error(), fields["error"])
	assert.EqualValues(t, http.StatusNotFound, fields["status_code"])
}

func TestFailed_LeavesServerErrorsToTheErrorHandler(t *testing.T) {
	c, log, logs := newObservedContext(t)

	err := failed(c, log, "List tasks", errors.New("connection reset"))

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusInternalServerError, he.Code)
	assert.Zero(t, logs.Len())
}
