package schedule

import (
	"github.com/spf13/cobra"
)

// Cmd is the schedule command group
var Cmd = &cobra.Command{
	Use:   "schedule",
	Short: "Inspect and plan your daily schedule",
	Long:  `Detect conflicts, find free gaps, plan blocks, and move existing blocks.`,
}

func init() {
	Cmd.AddCommand(conflictsCmd)
	Cmd.AddCommand(gapsCmd)
	Cmd.AddCommand(planCmd)
	Cmd.AddCommand(rescheduleCmd)
}
