package cmd

import (
	"fmt"
	"strconv"

	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/storage"
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var setActiveCmd = &cobra.Command{
	Use:   "set-active <user-id> <true|false>",
	Short: "Activate or deactivate a user",
	Long: `Activate or deactivate a user account. Inactive users cannot log in
and cannot be assigned new tasks; tasks already assigned to them are kept.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || userID <= 0 {
			return fmt.Errorf("invalid user id %q", args[0])
		}
		active, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("invalid active flag %q: %w", args[1], err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := storage.OpenAndMigrate(storage.Options{Path: cfg.Database.Path, Debug: cfg.Database.Debug})
		if err != nil {
			return err
		}
		defer storage.Close(db)

		svc := auth.NewServiceFromOptions(db, authOptions(cfg))
		if err := svc.SetActive(cmd.Context(), userID, active); err != nil {
			return fmt.Errorf("failed to update user %d: %w", userID, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "User %d active=%t\n", userID, active)
		return nil
	},
}

func init() {
	usersCmd.AddCommand(setActiveCmd)
}
