package cmd

import (
	"fmt"

	"github.com/example/task-tracker/storage"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long:  `Create or update the users, task_lists and tasks tables in the configured SQLite database.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := storage.OpenAndMigrate(storage.Options{Path: cfg.Database.Path, Debug: cfg.Database.Debug})
		if err != nil {
			return err
		}
		defer storage.Close(db)

		fmt.Fprintf(cmd.OutOrStdout(), "Database %s is up to date\n", cfg.Database.Path)
		return nil
	},
}
