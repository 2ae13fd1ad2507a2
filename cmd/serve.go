package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/modules/api"
	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/notification"
	"github.com/example/task-tracker/modules/tracker"
	"github.com/example/task-tracker/storage"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and all modules",
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := storage.OpenAndMigrate(storage.Options{Path: cfg.Database.Path, Debug: cfg.Database.Debug})
	if err != nil {
		return err
	}

	logLevel := mono.LogLevelInfo
	if cfg.Log.Level == "warn" || cfg.Log.Level == "error" {
		logLevel = mono.LogLevelError
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		mono.WithLogLevel(logLevel),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		storage.Close(db)
		return fmt.Errorf("failed to create application: %w", err)
	}

	// Independent modules first, then dependent modules.
	app.Register(auth.NewModule(db, authOptions(cfg)))
	app.Register(tracker.NewModule(db))
	app.Register(notification.NewModule(notification.Options{
		RedisAddr: cfg.Notification.RedisAddr,
		Queue:     cfg.Notification.Queue,
		History:   cfg.Notification.History,
	}))
	app.Register(api.NewModule(cfg.Server.Port))

	if err := app.Start(context.Background()); err != nil {
		storage.Close(db)
		return fmt.Errorf("failed to start application: %w", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.Server.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				err := app.Stop(ctx)
				if cerr := storage.Close(db); cerr != nil {
					log.Printf("Failed to close database: %v", cerr)
				}
				return err
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
	return nil
}

func authOptions(cfg *config.Config) auth.Options {
	return auth.Options{
		JWT: auth.JWTConfig{
			SecretKey:            cfg.Auth.SecretKey,
			AccessTokenDuration:  cfg.Auth.AccessTokenDuration,
			RefreshTokenDuration: cfg.Auth.RefreshTokenDuration,
			Issuer:               cfg.Auth.Issuer,
		},
		BcryptCost: cfg.Auth.BcryptCost,
	}
}

func printStartupInfo(cfg *config.Config) {
	log.Println("")
	log.Println("Task tracker started successfully!")
	log.Printf("  Database: %s", cfg.Database.Path)
	if cfg.Notification.RedisAddr != "" {
		log.Printf("  Notifications: log + redis %s (%s)", cfg.Notification.RedisAddr, cfg.Notification.Queue)
	} else {
		log.Println("  Notifications: log")
	}
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d):", cfg.Server.Port)
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/v1/auth/register            - Register a new user")
	log.Println("  POST   /api/v1/auth/login               - Login and get tokens")
	log.Println("  POST   /api/v1/auth/refresh             - Refresh access token")
	log.Println("  GET    /health                          - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /api/v1/auth/me                  - Current user")
	log.Println("  POST   /api/v1/task-lists               - Create a task list")
	log.Println("  GET    /api/v1/task-lists               - List owned task lists")
	log.Println("  GET    /api/v1/task-lists/:id           - Get a task list")
	log.Println("  PUT    /api/v1/task-lists/:id           - Update a task list")
	log.Println("  DELETE /api/v1/task-lists/:id           - Delete a task list and its tasks")
	log.Println("  GET    /api/v1/task-lists/:id/stats     - Completion statistics")
	log.Println("  POST   /api/v1/tasks                    - Create a task")
	log.Println("  GET    /api/v1/tasks                    - List visible tasks")
	log.Println("  GET    /api/v1/tasks/overdue            - List overdue tasks")
	log.Println("  POST   /api/v1/tasks/overdue/remind     - Send an overdue digest")
	log.Println("  GET    /api/v1/tasks/:id                - Get a task")
	log.Println("  PUT    /api/v1/tasks/:id                - Update a task")
	log.Println("  DELETE /api/v1/tasks/:id                - Delete a task")
	log.Println("  PATCH  /api/v1/tasks/:id/status         - Change task status")
	log.Println("  POST   /api/v1/tasks/:id/assign         - Assign a task")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
