package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskmaster/taskhub/cmd/api/commands"
)

// @title TaskHub API
// @version 1.0
// @description Multi-user task management: tasks, comments, assignment and notifications.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskhub",
		Short: "TaskHub API Server",
		Long:  `TaskHub is a multi-user task management backend with admin oversight and per-user notifications.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewAdminCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
