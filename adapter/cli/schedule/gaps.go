package schedule

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mitchforest/dayli/adapter/cli"
	"github.com/mitchforest/dayli/internal/scheduling/application/queries"
)

var (
	gapsDate string
	gapsMin  int
)

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Find free gaps in a day's schedule",
	Long: `List the unoccupied stretches of the working day, classified by
day part and quality.

Examples:
  dayli schedule gaps
  dayli schedule gaps --date 2026-01-15 --min 30`,
	Aliases: []string{"available", "free"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		out := cmd.OutOrStdout()
		if app == nil || app.FindGapsHandler == nil {
			return fmt.Errorf("gap analysis requires database connection")
		}

		date, err := parseDateFlag(gapsDate)
		if err != nil {
			return err
		}

		report, err := app.FindGapsHandler.Handle(cmd.Context(), queries.FindGapsQuery{
			UserID:        app.CurrentUserID,
			Date:          date,
			MinGapMinutes: gapsMin,
		})
		if err != nil {
			return fmt.Errorf("failed to find gaps: %w", err)
		}

		fmt.Fprintf(out, "Free time on %s (%s - %s)\n",
			date.Format("Monday, January 2, 2006"),
			report.WorkStart.Format("15:04"),
			report.WorkEnd.Format("15:04"),
		)
		fmt.Fprintln(out, strings.Repeat("=", 60))

		if len(report.Gaps) == 0 {
			fmt.Fprintln(out, "\n  No free gaps. The day is fully booked.")
			return nil
		}

		for _, gap := range report.Gaps {
			fmt.Fprintf(out, "\n%s - %s  %dm  [%s, %s]\n",
				gap.Start.Format("15:04"),
				gap.End.Format("15:04"),
				gap.DurationMinutes,
				gap.DayPart,
				gap.Quality,
			)
			if len(gap.SuitableFor) > 0 {
				fmt.Fprintf(out, "    Suitable for: %s\n", strings.Join(gap.SuitableFor, ", "))
			}
		}

		fmt.Fprintln(out, strings.Repeat("-", 60))
		fmt.Fprintf(out, "Total: %d gaps, %dm free, largest %dm, utilization %d%%\n",
			report.Stats.Count,
			report.Stats.TotalMinutes,
			report.Stats.LargestGapMinutes,
			report.Stats.UtilizationPercent,
		)

		return nil
	},
}

func init() {
	gapsCmd.Flags().StringVarP(&gapsDate, "date", "d", "", "date to analyze (YYYY-MM-DD)")
	gapsCmd.Flags().IntVarP(&gapsMin, "min", "m", 0, "minimum gap duration in minutes")
}
