package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	httpHandlers "github.com/taskmaster/taskhub/internal/adapters/http"
	"github.com/taskmaster/taskhub/internal/adapters/realtime"
	"github.com/taskmaster/taskhub/internal/adapters/repository"
	"github.com/taskmaster/taskhub/internal/application/services"
	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/infrastructure/config"
	"github.com/taskmaster/taskhub/internal/infrastructure/database"
	"github.com/taskmaster/taskhub/internal/infrastructure/logger"
	"github.com/taskmaster/taskhub/internal/infrastructure/server"
	"github.com/taskmaster/taskhub/internal/ports"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

const shutdownTimeout = 15 * time.Second

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the TaskHub API server",
		Long:  "Start the TaskHub API server with all configured routes and middleware",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version)",
	}

	var steps int
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *database.Migrator) error {
				if steps > 0 {
					return report(cmd, "up")(m.Steps(steps))
				}
				return report(cmd, "up")(m.Up())
			})
		},
	}
	upCmd.Flags().IntVar(&steps, "steps", 0, "Number of migrations to apply (0 applies all)")

	var downSteps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Revert migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *database.Migrator) error {
				if downSteps > 0 {
					return report(cmd, "down")(m.Steps(-downSteps))
				}
				return report(cmd, "down")(m.Down())
			})
		},
	}
	downCmd.Flags().IntVar(&downSteps, "steps", 0, "Number of migrations to revert (0 reverts all)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *database.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				cmd.Printf("Current migration version: %d\n", version)
				cmd.Printf("Dirty: %t\n", dirty)
				return nil
			})
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, versionCmd)
	return migrateCmd
}

// NewAdminCommand creates the admin management command. It is the only way
// to seed the first Super-Admin, since creating admins over HTTP needs one.
func NewAdminCommand() *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin management commands",
	}

	var email, password, fullName, role string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := adminRequest(fullName, email, password, role)
			if err != nil {
				return err
			}
			return createAdmin(cmd, req)
		},
	}

	createCmd.Flags().StringVar(&email, "email", "", "Admin email (required)")
	createCmd.Flags().StringVar(&password, "password", "", "Admin password (required)")
	createCmd.Flags().StringVar(&fullName, "full-name", "", "Admin full name (required)")
	createCmd.Flags().StringVar(&role, "role", string(entities.AdminRoleSuperAdmin), "Admin role (Admin, Super-Admin)")

	adminCmd.AddCommand(createCmd)
	return adminCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print TaskHub version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("TaskHub %s\n", Version)
		},
	}
}

func runServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	for _, warning := range cfg.Warnings() {
		appLogger.Warnw("Unsafe production setting", "setting", warning)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		appLogger.Errorw("Failed to connect to database", "error", err)
		return err
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = realtime.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Errorw("Failed to connect to redis", "error", err, "addr", cfg.Redis.GetAddr())
			return err
		}
		defer redisClient.Close()
	}

	srv, err := server.New(cfg, db, redisClient, appLogger)
	if err != nil {
		appLogger.Errorw("Failed to initialize server", "error", err)
		return err
	}

	appLogger.Infow("Starting TaskHub API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"realtime", cfg.Redis.Enabled,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		appLogger.Infow("Received shutdown signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func withMigrator(fn func(*database.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := database.NewMigrator(db, cfg.Database.MigrationsPath)
	if err != nil {
		return err
	}
	return fn(m)
}

func report(cmd *cobra.Command, direction string) func(bool, error) error {
	return func(changed bool, err error) error {
		if err != nil {
			return err
		}
		if !changed {
			cmd.Println("No migrations to run")
			return nil
		}
		cmd.Printf("Migration %s completed successfully\n", direction)
		return nil
	}
}

// adminRequest builds the request and checks it with the same rules as
// POST /admin/create.
func adminRequest(fullName, email, password, role string) (ports.CreateAdminRequest, error) {
	adminRole := entities.AdminRole(role)
	req := ports.CreateAdminRequest{
		FullName: fullName,
		Email:    email,
		Password: password,
		Role:     &adminRole,
	}

	if err := server.NewValidator().Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return ports.CreateAdminRequest{}, errors.New(httpHandlers.ValidationMessage(verrs))
		}
		return ports.CreateAdminRequest{}, err
	}

	return req, nil
}

func createAdmin(cmd *cobra.Command, req ports.CreateAdminRequest) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	db, err := database.New(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	auth := services.NewAuthService(
		repository.NewUserRepository(db.DB),
		repository.NewAdminRepository(db.DB),
		cfg.JWT,
		cfg.Bcrypt.Cost,
		appLogger,
	)

	admin, err := auth.RegisterAdmin(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	cmd.Println("Admin created successfully:")
	cmd.Printf("  ID: %s\n", admin.ID)
	cmd.Printf("  Email: %s\n", admin.Email)
	cmd.Printf("  Role: %s\n", admin.Role)
	return nil
}
