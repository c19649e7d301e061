package task

import (
	"github.com/spf13/cobra"
)

// Cmd is the task command group
var Cmd = &cobra.Command{
	Use:   "task",
	Short: "Fit tasks into the schedule",
	Long:  `Match tasks against free gaps in the schedule.`,
}

func init() {
	Cmd.AddCommand(fitCmd)
}
