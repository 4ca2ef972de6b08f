package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/projectflow-api/internal/repository"
	"github.com/yukikurage/projectflow-api/internal/services"
)

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage login sessions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete expired and revoked sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(false)
			if err != nil {
				return err
			}
			defer a.close()

			auth := services.NewAuthService(
				repository.NewUserRepository(a.db),
				repository.NewSessionRepository(a.db),
				a.cfg.SessionTTL,
			)
			purged, err := auth.PurgeExpiredSessions(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "purged %d sessions\n", purged)
			return nil
		},
	})

	return cmd
}
