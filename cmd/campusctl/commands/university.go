package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

func universityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "university",
		Short: "Manage the campus registry",
	}
	cmd.AddCommand(universityAddCmd(), universityListCmd(), universityDeactivateCmd())
	return cmd
}

func universityAddCmd() *cobra.Command {
	var name, domain, location string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a university so its students can sign up",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			u := &models.University{
				ID:          uuid.New(),
				Name:        name,
				EmailDomain: strings.ToLower(strings.TrimPrefix(domain, "@")),
				Location:    location,
				IsActive:    true,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := universities.Create(cmd.Context(), u); err != nil {
				if errors.Is(err, store.ErrDuplicate) {
					return fmt.Errorf("email domain %q is already registered", u.EmailDomain)
				}
				return err
			}
			fmt.Printf("Added %s (@%s) as %s\n", u.Name, u.EmailDomain, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "university name")
	cmd.Flags().StringVar(&domain, "domain", "", "student email domain, e.g. uni.edu")
	cmd.Flags().StringVar(&location, "location", "", "campus location")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("domain")
	return cmd
}

func universityListCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List universities",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := universities.List(cmd.Context(), !all)
			if err != nil {
				return err
			}
			for _, u := range list {
				state := "active"
				if !u.IsActive {
					state = "inactive"
				}
				fmt.Printf("%s  %-8s %s (@%s)\n", u.ID, state, u.Name, u.EmailDomain)
			}
			fmt.Printf("%d universities\n", len(list))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include deactivated universities")
	return cmd
}

func universityDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate [id]",
		Short: "Stop registrations for a university",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid university id %q", args[0])
			}
			if err := universities.SetActive(cmd.Context(), id, false); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("university %s not found", id)
				}
				return err
			}
			fmt.Printf("Deactivated %s\n", id)
			return nil
		},
	}
}
