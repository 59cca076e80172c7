package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"task-reminder-bot/internal/database"
	"task-reminder-bot/internal/models"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate task counts",
		Long:  "Show how many tasks exist per lifecycle status across all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			defer closeDB(db)

			repo := database.NewTaskRepository(db)
			counts, err := repo.CountByStatus(context.Background())
			if err != nil {
				return fmt.Errorf("failed to count tasks: %w", err)
			}

			fmt.Printf("Active:    %d\n", counts[models.TaskStatusActive])
			fmt.Printf("Completed: %d\n", counts[models.TaskStatusCompleted])
			return nil
		},
	}

	return cmd
}
