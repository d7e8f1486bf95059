package commands

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/campusswap/campusswap-api/internal/store"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(userVerifyCmd())
	return cmd
}

func userVerifyCmd() *cobra.Command {
	var revoke bool
	cmd := &cobra.Command{
		Use:   "verify [id]",
		Short: "Mark a user's student status as verified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			if err := users.SetVerified(cmd.Context(), id, !revoke); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("user %s not found", id)
				}
				return err
			}
			if revoke {
				fmt.Printf("Revoked verification for %s\n", id)
			} else {
				fmt.Printf("Verified %s\n", id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&revoke, "revoke", false, "revoke verification instead")
	return cmd
}
