package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mitchforest/dayli/adapter/cli"
	"github.com/mitchforest/dayli/internal/scheduling/application/queries"
)

var (
	conflictsDate string
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Detect conflicts in a day's schedule",
	Long: `Scan blocks and calendar events for a date and report overlaps,
buffer violations, travel-time problems, and protected-time intrusions.

Examples:
  dayli schedule conflicts
  dayli schedule conflicts --date 2026-01-15`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		out := cmd.OutOrStdout()
		if app == nil || app.DetectConflictsHandler == nil {
			return fmt.Errorf("conflict detection requires database connection")
		}

		date, err := parseDateFlag(conflictsDate)
		if err != nil {
			return err
		}

		report, err := app.DetectConflictsHandler.Handle(cmd.Context(), queries.DetectConflictsQuery{
			UserID: app.CurrentUserID,
			Date:   date,
		})
		if err != nil {
			return fmt.Errorf("failed to detect conflicts: %w", err)
		}

		fmt.Fprintf(out, "Conflicts for %s\n", date.Format("Monday, January 2, 2006"))
		fmt.Fprintln(out, strings.Repeat("=", 60))

		if len(report.Conflicts) == 0 {
			fmt.Fprintf(out, "\n  No conflicts across %d scheduled items.\n", report.ItemCount)
			return nil
		}

		for _, conflict := range report.Conflicts {
			fmt.Fprintf(out, "\n[%s] %s\n", strings.ToUpper(string(conflict.Severity)), conflict.Description)
			for _, item := range conflict.Items {
				fmt.Fprintf(out, "    %s - %s  %s\n",
					item.Interval.Start.Format("15:04"),
					item.Interval.End.Format("15:04"),
					item.Title,
				)
			}
			for _, suggestion := range conflict.Suggestions {
				fmt.Fprintf(out, "    > %s\n", suggestion)
			}
		}

		fmt.Fprintln(out, strings.Repeat("-", 60))
		fmt.Fprintf(out, "Total: %d conflicts across %d items\n", len(report.Conflicts), report.ItemCount)

		return nil
	},
}

func parseDateFlag(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
	}
	return date, nil
}

func init() {
	conflictsCmd.Flags().StringVarP(&conflictsDate, "date", "d", "", "date to check (YYYY-MM-DD)")
}
