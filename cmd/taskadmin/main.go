package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"task-reminder-bot/cmd/taskadmin/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "taskadmin",
		Short: "Admin tool for the task reminder bot",
		Long:  "CLI tool for inspecting and maintaining the task store",
	}

	rootCmd.AddCommand(commands.NewStatsCmd())
	rootCmd.AddCommand(commands.NewPruneCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
