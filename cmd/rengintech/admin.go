package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/engYuns/rengintech/internal/repos"
	"github.com/engYuns/rengintech/internal/services"
)

func newCreateAdminCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a dashboard admin in the configured store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if password == "" {
				password = cfg.AdminPassword
			}
			if username == "" {
				username = cfg.AdminUsername
			}
			ctx := cmd.Context()
			store, err := repos.Open(ctx, cfg.Storage())
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer store.Close()

			auth, err := services.NewAuthService(store, cfg.SessionSecret, cfg.SessionTTL, cfg.AdminUsername)
			if err != nil {
				return err
			}
			a, err := auth.CreateAdmin(ctx, username, password)
			if errors.Is(err, repos.ErrDuplicate) {
				return fmt.Errorf("admin %q already exists", username)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", a.Username, a.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "admin username (default ADMIN_USERNAME)")
	cmd.Flags().StringVar(&password, "password", "", "admin password (default ADMIN_PASSWORD)")
	return cmd
}
