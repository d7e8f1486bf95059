// Package commands implements the campusctl admin CLI: university
// management, user verification, report moderation and session pruning,
// all against the database directly.
package commands

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/campusswap/campusswap-api/internal/config"
	"github.com/campusswap/campusswap-api/internal/store"
	"github.com/campusswap/campusswap-api/internal/store/postgres"
)

var (
	databaseURL string

	pool         *pgxpool.Pool
	universities store.UniversityStore
	users        store.UserStore
	reports      store.ReportStore
	sessions     store.SessionStore
)

func Execute() error {
	root := &cobra.Command{
		Use:           "campusctl",
		Short:         "CampusSwap admin tool",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				databaseURL = config.DatabaseURL()
			}
			p, err := postgres.Connect(cmd.Context(), databaseURL)
			if err != nil {
				return err
			}
			pool = p
			universities = postgres.NewUniversityStore(pool)
			users = postgres.NewUserStore(pool)
			reports = postgres.NewReportStore(pool)
			sessions = postgres.NewSessionStore(pool)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if pool != nil {
				pool.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL (default from DATABASE_URL / PG* env)")

	root.AddCommand(universityCmd(), userCmd(), reportCmd(), sessionCmd())
	return root.Execute()
}
