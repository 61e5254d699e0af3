// Package main provides the main entry point for the quiz backend admin CLI tool.
package main

import (
	"context"
	"fmt"
	"os"

	"quizarena/cmd/adm/commands"
	"quizarena/internal/config"
	"quizarena/internal/database"
	"quizarena/internal/observability"
	"quizarena/internal/services"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Quiet, local-only operation for the CLI
	cfg.Server.LogLevel = "error"
	cfg.OpenTelemetry.EnableTracing = false
	cfg.OpenTelemetry.EnableMetrics = false
	cfg.OpenTelemetry.EnableLogging = false

	_, _, logger, err := observability.SetupObservability(&cfg.OpenTelemetry, "quizarena-adm")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize observability: %v\n", err)
		os.Exit(1)
	}

	dbManager := database.NewManager(logger)

	// No migrations on connect, they are an explicit subcommand here
	db, err := dbManager.InitDBWithoutMigrations(cfg.Database)
	if err != nil {
		logger.Error(ctx, "Failed to connect to database", err, nil)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn(ctx, "Failed to close database connection", map[string]interface{}{"error": err.Error()})
		}
	}()

	cache := services.NewQuizCache(&config.RedisConfig{Enabled: false}, logger)
	questionService := services.NewQuestionService(db, cache, cfg, logger)

	rootCmd := &cobra.Command{
		Use:   "adm",
		Short: "Quiz Backend Administration Tool",
		Long: `Quiz Backend Administration Tool

A CLI tool for administering the adaptive quiz backend.
Provides commands for database migrations and question catalog management.`,

		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				fmt.Printf("Error showing help: %v\n", err)
			}
		},
	}

	rootCmd.AddCommand(commands.DatabaseCommands(dbManager, logger, cfg.Database.URL, db))
	rootCmd.AddCommand(commands.QuestionCommands(questionService, logger))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
