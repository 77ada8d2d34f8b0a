package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Trinhvhao/event-management/internal/repository"
	"github.com/Trinhvhao/event-management/internal/service"
	"github.com/spf13/cobra"
)

var updateStatusesCmd = &cobra.Command{
	Use:   "update-statuses",
	Short: "Advance event statuses by the current time",
	Long: `Move upcoming events whose start has passed to ongoing and ongoing events
whose end has passed to completed. Safe to run repeatedly; schedule it with
cron or a Kubernetes CronJob.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer closeDB(db, logger)

		events := service.NewEventService(
			repository.NewEventRepository(db),
			repository.NewReferenceRepository(db),
			logger,
		)

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()
		moved, err := events.UpdateStatuses(ctx)
		if err != nil {
			return fmt.Errorf("failed to update event statuses: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ongoing: %d, completed: %d\n", moved.Ongoing, moved.Completed)
		return nil
	},
}
