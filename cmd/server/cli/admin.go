package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hongminglow/arcade-be/internal/auth"
	"github.com/hongminglow/arcade-be/internal/config"
	"github.com/hongminglow/arcade-be/internal/models"
	"github.com/hongminglow/arcade-be/internal/storage"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(newAdminBootstrapCmd())
	cmd.AddCommand(newAdminCreateCmd())
	return cmd
}

func newAdminBootstrapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the configured admin account if no admin exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(cfg config.Config, store storage.Store, logger *slog.Logger) error {
				created, err := auth.EnsureAdmin(cmd.Context(), store, cfg.AdminUsername, cfg.AdminPassword, logger)
				if err != nil {
					return err
				}
				if created {
					fmt.Fprintf(cmd.OutOrStdout(), "created admin %q\n", cfg.AdminUsername)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "an admin account already exists")
				}
				return nil
			})
		},
	}
}

func newAdminCreateCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an additional admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return errors.New("--username and --password are required")
			}
			if err := auth.ValidatePassword(password); err != nil {
				return err
			}
			return withStore(cmd.Context(), func(_ config.Config, store storage.Store, _ *slog.Logger) error {
				hash, err := auth.HashPassword(password)
				if err != nil {
					return err
				}
				user, err := store.CreateUser(cmd.Context(), models.User{Username: username, PasswordHash: hash, Role: models.RoleAdmin})
				if errors.Is(err, storage.ErrAlreadyExists) {
					return fmt.Errorf("user %q already exists", username)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %q (id=%s)\n", user.Username, user.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	return cmd
}
