package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"picfolio/db"
	"picfolio/internal/auth"
	"picfolio/internal/eventlog"
	"picfolio/models"
)

// NewAddUserCmd creates the adduser subcommand.
func NewAddUserCmd(opts *rootOptions) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "adduser <username>",
		Short: "Create an account without going through the web form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return errors.New("--password is required")
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			sqliteDB, repoFactory, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer sqliteDB.Close()

			dbManager := db.NewDBManager()
			defer dbManager.Stop()

			authService := auth.NewAuthService(repoFactory.NewUserRepository(), dbManager)
			user, err := authService.Register(cmd.Context(), args[0], password)
			if err != nil {
				return fmt.Errorf("creating user %q: %w", args[0], err)
			}

			eventlog.NewEventLogService(repoFactory.NewEventLogRepository(), dbManager).
				Record(cmd.Context(), models.UserRegistered, user.Username, "", "")
			cmd.Printf("created user %s\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password for the new account")
	return cmd
}
