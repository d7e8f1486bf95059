package commands

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Moderate abuse reports",
	}
	cmd.AddCommand(reportListCmd(), reportResolveCmd(), reportDismissCmd())
	return cmd
}

func reportListCmd() *cobra.Command {
	var statusFlag string
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reports, pending first by default",
		RunE: func(cmd *cobra.Command, args []string) error {
			var status *models.ReportStatus
			if statusFlag != "" {
				s := models.ReportStatus(statusFlag)
				if !s.Valid() {
					return fmt.Errorf("unknown status %q", statusFlag)
				}
				status = &s
			}
			list, err := reports.List(cmd.Context(), status, limit, 0)
			if err != nil {
				return err
			}
			for _, r := range list {
				target := "-"
				if r.ItemID != nil {
					target = "item " + r.ItemID.String()
				}
				fmt.Printf("%s  %-13s %-15s reporter=%s target=%s\n",
					r.ID, r.Status, r.Reason, r.ReporterID, target)
				if r.Description != nil {
					fmt.Printf("    %s\n", *r.Description)
				}
			}
			fmt.Printf("%d reports\n", len(list))
			return nil
		},
	}
	cmd.Flags().StringVar(&statusFlag, "status", string(models.ReportPending), "filter by status, empty for all")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum reports to show")
	return cmd
}

func moderateCmd(use, short string, status models.ReportStatus, verb string) *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   use + " [id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid report id %q", args[0])
			}
			var notePtr *string
			if note != "" {
				notePtr = &note
			}
			resolvedBy := "campusctl"
			if err := reports.UpdateStatus(cmd.Context(), id, status, notePtr, &resolvedBy); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("report %s not found", id)
				}
				return err
			}
			fmt.Printf("%s %s\n", verb, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "resolution note")
	return cmd
}

func reportResolveCmd() *cobra.Command {
	return moderateCmd("resolve", "Mark a report resolved", models.ReportResolved, "Resolved")
}

func reportDismissCmd() *cobra.Command {
	return moderateCmd("dismiss", "Dismiss a report", models.ReportDismissed, "Dismissed")
}
