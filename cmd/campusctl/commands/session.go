package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage login sessions",
	}
	cmd.AddCommand(sessionPruneCmd())
	return cmd
}

func sessionPruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete expired sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := sessions.DeleteExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Pruned %d expired sessions\n", n)
			return nil
		},
	}
}
