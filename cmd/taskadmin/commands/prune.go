package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"task-reminder-bot/internal/database"
)

// NewPruneCmd creates the prune command
func NewPruneCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old completed tasks",
		Long:  "Delete completed tasks whose completion time is older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}

			db, err := connect()
			if err != nil {
				return err
			}
			defer closeDB(db)

			repo := database.NewTaskRepository(db)
			cutoff := time.Now().Add(-olderThan)

			removed, err := repo.PruneCompleted(context.Background(), cutoff)
			if err != nil {
				return fmt.Errorf("failed to prune tasks: %w", err)
			}

			fmt.Printf("Removed %d completed task(s) finished before %s\n",
				removed, cutoff.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "retention window, e.g. 720h")

	return cmd
}
