package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/taskmaster/taskhub/docs"
	httpHandlers "github.com/taskmaster/taskhub/internal/adapters/http"
	"github.com/taskmaster/taskhub/internal/adapters/realtime"
	"github.com/taskmaster/taskhub/internal/adapters/repository"
	"github.com/taskmaster/taskhub/internal/application/services"
	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/infrastructure/config"
	"github.com/taskmaster/taskhub/internal/infrastructure/database"
	"github.com/taskmaster/taskhub/internal/infrastructure/logger"
	"github.com/taskmaster/taskhub/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo        *echo.Echo
	config      *config.Config
	logger      *logger.Logger
	db          *database.DB
	redis       *redis.Client
	registry    *prometheus.Registry
	authService ports.AuthService
}

// Repositories are the stores the server's services run on.
type Repositories struct {
	Users         ports.UserRepository
	Admins        ports.AdminRepository
	Tasks         ports.TaskRepository
	Comments      ports.CommentRepository
	Notifications ports.NotificationRepository
}

type handlers struct {
	auth     *httpHandlers.AuthHandler
	tasks    *httpHandlers.TaskHandler
	comments *httpHandlers.CommentHandler
	admin    *httpHandlers.AdminHandler
	users    *httpHandlers.UserHandler
}

// New wires the PostgreSQL repositories and, when redisClient is non-nil,
// the Redis notification publisher.
func New(cfg *config.Config, db *database.DB, redisClient *redis.Client, appLogger *logger.Logger) (*Server, error) {
	repos := Repositories{
		Users:         repository.NewUserRepository(db.DB),
		Admins:        repository.NewAdminRepository(db.DB),
		Tasks:         repository.NewTaskRepository(db.DB),
		Comments:      repository.NewCommentRepository(db.DB),
		Notifications: repository.NewNotificationRepository(db.DB),
	}

	var publisher ports.RealtimePublisher = realtime.NoopPublisher{}
	if redisClient != nil {
		publisher = realtime.NewRedisPublisher(redisClient, cfg.Redis.ChannelPrefix)
	}

	s := build(cfg, repos, publisher, appLogger)
	s.db = db
	s.redis = redisClient
	return s, nil
}

// NewWithRepositories builds a server over arbitrary stores. Operational
// checks that need a database report it as not configured.
func NewWithRepositories(cfg *config.Config, repos Repositories, publisher ports.RealtimePublisher, appLogger *logger.Logger) *Server {
	return build(cfg, repos, publisher, appLogger)
}

func build(cfg *config.Config, repos Repositories, publisher ports.RealtimePublisher, appLogger *logger.Logger) *Server {
	e := echo.New()
	e.Validator = NewValidator()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = customErrorHandler(appLogger)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	s := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
	}

	s.setupMiddleware()

	if cfg.Metrics.Enabled {
		s.setupMetrics()
		notifications := realtime.NewNotificationsCounter()
		s.registry.MustRegister(notifications)
		publisher = realtime.WithMetrics(publisher, notifications)
	}

	notifier := services.NewNotificationService(repos.Notifications, publisher, appLogger)
	authService := services.NewAuthService(repos.Users, repos.Admins, cfg.JWT, cfg.Bcrypt.Cost, appLogger)
	taskService := services.NewTaskService(repos.Tasks, repos.Comments, repos.Users, notifier, appLogger)
	commentService := services.NewCommentService(repos.Tasks, repos.Comments, repos.Users, appLogger)
	adminService := services.NewAdminService(repos.Tasks, repos.Comments, repos.Users, notifier, appLogger)
	userService := services.NewUserService(repos.Tasks, repos.Comments, repos.Users, repos.Notifications, appLogger)

	s.authService = authService

	s.setupRoutes(handlers{
		auth:     httpHandlers.NewAuthHandler(authService, appLogger),
		tasks:    httpHandlers.NewTaskHandler(taskService, appLogger),
		comments: httpHandlers.NewCommentHandler(commentService, appLogger),
		admin:    httpHandlers.NewAdminHandler(adminService, appLogger),
		users:    httpHandlers.NewUserHandler(userService, appLogger),
	})

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			s.logger.LogHTTPRequest(
				values.Method,
				values.URI,
				values.RequestID,
				values.Status,
				float64(values.Latency.Nanoseconds())/1000000,
				values.Error,
			)
			return nil
		},
	}))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))

	if s.config.Security.RateLimitRequests > 0 && s.config.Security.RateLimitWindow > 0 {
		perSecond := float64(s.config.Security.RateLimitRequests) / s.config.Security.RateLimitWindow.Seconds()
		s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(perSecond),
				Burst:     s.config.Security.RateLimitRequests,
				ExpiresIn: s.config.Security.RateLimitWindow,
			}),
			IdentifierExtractor: func(ctx echo.Context) (string, error) {
				return ctx.RealIP(), nil
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return echo.NewHTTPError(http.StatusForbidden, "Rate limit identifier unavailable")
			},
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded")
			},
		}))
	}

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	if s.config.Server.RequestTimeout > 0 {
		s.echo.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: s.config.Server.RequestTimeout,
		}))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(h handlers) {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	authenticated := s.authMiddleware()
	userOnly := []echo.MiddlewareFunc{authenticated, s.requireRole(entities.PrincipalUser)}
	adminOnly := []echo.MiddlewareFunc{authenticated, s.requireRole(entities.PrincipalAdmin)}

	authGroup := s.echo.Group("/auth")
	authGroup.POST("/register", h.auth.Register)
	authGroup.POST("/login", h.auth.Login)

	adminGroup := s.echo.Group("/admin")
	adminGroup.POST("/register", h.auth.RegisterAdmin)
	adminGroup.POST("/login", h.auth.LoginAdmin)
	adminGroup.POST("/create", h.auth.CreateAdmin, adminOnly...)
	adminGroup.GET("/tasks", h.admin.GetTasks, adminOnly...)
	adminGroup.GET("/tasks/:taskId", h.admin.GetTask, adminOnly...)
	adminGroup.PUT("/tasks/:taskId/status", h.admin.UpdateTaskStatus, adminOnly...)
	adminGroup.GET("/tasks/:taskId/comments", h.admin.GetTaskComments, adminOnly...)
	adminGroup.DELETE("/tasks/:taskId/comments", h.admin.DeleteTaskComment, adminOnly...)
	adminGroup.DELETE("/tasks/:taskId", h.admin.DeleteTask, adminOnly...)

	taskGroup := s.echo.Group("/tasks")
	taskGroup.GET("", h.tasks.ListTasks, userOnly...)
	taskGroup.POST("", h.tasks.CreateTask, userOnly...)
	taskGroup.GET("/:taskId", h.tasks.GetTask, userOnly...)
	taskGroup.PUT("/:taskId", h.tasks.UpdateTask, userOnly...)
	taskGroup.PUT("/:taskId/status", h.tasks.UpdateTaskStatus, userOnly...)
	taskGroup.PUT("/:taskId/tags", h.tasks.AddTags, userOnly...)
	taskGroup.PUT("/:taskId/assign", h.tasks.AssignTask, userOnly...)
	taskGroup.DELETE("/:taskId", h.tasks.DeleteTask, userOnly...)

	taskGroup.GET("/:taskId/comments", h.comments.ListComments, authenticated)
	taskGroup.POST("/:taskId/comments", h.comments.CreateComment, authenticated)
	taskGroup.PUT("/:taskId/comments/:commentId", h.comments.UpdateComment, authenticated)
	taskGroup.DELETE("/:taskId/comments/:commentId", h.comments.DeleteComment, authenticated)

	userGroup := s.echo.Group("/user")
	userGroup.GET("/tasks", h.users.AssignedTasks, authenticated)
	userGroup.GET("/notifications", h.users.Notifications, userOnly...)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	s.registry = prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	s.registry.MustRegister(requestsTotal, requestDuration)

	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// Render now so the recorded status is the one sent.
				c.Error(err)
			}
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(time.Since(start).Seconds())

			return err
		}
	})

	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	status := "ok"
	checks := make(map[string]interface{})

	switch {
	case s.db == nil:
		checks["database"] = map[string]interface{}{"status": "not_configured"}
	default:
		if err := s.db.HealthCheck(ctx); err != nil {
			status = "error"
			checks["database"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		} else {
			checks["database"] = map[string]interface{}{
				"status": "ok",
				"stats":  s.db.GetConnectionInfo(),
			}
		}
	}

	switch {
	case s.redis == nil:
		checks["redis"] = map[string]interface{}{"status": "disabled"}
	default:
		if err := s.redis.Ping(ctx).Err(); err != nil {
			status = "error"
			checks["redis"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		} else {
			checks["redis"] = map[string]interface{}{"status": "ok"}
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
			"go":  runtime.Version(),
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if s.db == nil || s.db.HealthCheck(c.Request().Context()) != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "database_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ServeHTTP lets tests drive the router directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler renders every error as the JSON error envelope.
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			code    int
			message string
			he      *echo.HTTPError
			ve      validator.ValidationErrors
		)

		switch {
		case errors.As(err, &ve):
			code = http.StatusBadRequest
			message = httpHandlers.ValidationMessage(ve)
		case errors.As(err, &he):
			code = he.Code
			message = fmt.Sprint(he.Message)
			if he.Internal != nil {
				err = fmt.Errorf("%v, %w", err, he.Internal)
			}
		default:
			mapped := httpHandlers.Error(err)
			code = mapped.Code
			message = fmt.Sprint(mapped.Message)
		}

		if code == http.StatusInternalServerError {
			httpHandlers.RequestLogger(c, logger).WithError(err).Errorw("Internal server error", "path", c.Request().URL.Path)
			message = "Internal server error"
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, ports.Envelope{Status: ports.StatusError, Message: message})
		}
		if err != nil {
			logger.WithError(err).Errorw("Error sending response")
		}
	}
}
