// Package cmd implements the tasktracker command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/example/task-tracker/config"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tasktracker",
	Short: "Multi-tenant task tracker backend",
	Long: `A task tracker backend built as a modular monolith.

Users own task lists, assign tasks to each other and move them through
pending, in_progress, completed and cancelled. Running without a
subcommand is the same as "tasktracker serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default $TASKTRACKER_CONFIG or ./"+config.DefaultPath+")")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
