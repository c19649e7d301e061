package schedule

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mitchforest/dayli/adapter/cli"
	"github.com/mitchforest/dayli/internal/scheduling/application/commands"
	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

var (
	rescheduleDate  string
	rescheduleStart string
	rescheduleEnd   string
)

var rescheduleCmd = &cobra.Command{
	Use:   "reschedule <block-id>",
	Short: "Move a time block to a different time",
	Long: `Reschedule an existing block to a new slot. Fixed blocks cannot be
moved, and the target slot must not overlap another block.

Examples:
  dayli schedule reschedule abc123 --start 14:00 --end 15:00
  dayli schedule reschedule abc123 --start 09:00 --end 10:30 --date 2026-01-15`,
	Aliases: []string{"move", "mv"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		out := cmd.OutOrStdout()
		if app == nil || app.RescheduleBlockHandler == nil {
			return fmt.Errorf("rescheduling requires database connection")
		}

		blockID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid block ID: %w", err)
		}

		date, err := parseDateFlag(rescheduleDate)
		if err != nil {
			return err
		}
		start, err := parseTimeOnDate(date, rescheduleStart)
		if err != nil {
			return fmt.Errorf("invalid start: %w", err)
		}
		end, err := parseTimeOnDate(date, rescheduleEnd)
		if err != nil {
			return fmt.Errorf("invalid end: %w", err)
		}

		block, err := app.RescheduleBlockHandler.Handle(cmd.Context(), commands.RescheduleBlockCommand{
			UserID:   app.CurrentUserID,
			BlockID:  blockID,
			Date:     date,
			NewStart: start,
			NewEnd:   end,
		})
		if err != nil {
			switch {
			case errors.Is(err, commands.ErrBlockFixed):
				return fmt.Errorf("block is fixed and cannot be moved")
			case errors.Is(err, domain.ErrBlockOverlap):
				return fmt.Errorf("target slot overlaps another block")
			case errors.Is(err, domain.ErrBlockNotFound):
				return fmt.Errorf("block not found")
			default:
				return fmt.Errorf("failed to reschedule block: %w", err)
			}
		}

		fmt.Fprintf(out, "Moved %q to %s %s - %s\n",
			block.Title(),
			block.Date().Format("2006-01-02"),
			block.StartTime().Format("15:04"),
			block.EndTime().Format("15:04"),
		)

		return nil
	},
}

func init() {
	rescheduleCmd.Flags().StringVarP(&rescheduleDate, "date", "d", "", "target date (YYYY-MM-DD)")
	rescheduleCmd.Flags().StringVar(&rescheduleStart, "start", "", "new start time (HH:MM)")
	rescheduleCmd.Flags().StringVar(&rescheduleEnd, "end", "", "new end time (HH:MM)")
	_ = rescheduleCmd.MarkFlagRequired("start")
	_ = rescheduleCmd.MarkFlagRequired("end")
}
