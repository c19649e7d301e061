package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	scheduleQueries "github.com/mitchforest/dayli/internal/scheduling/application/queries"
	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

var (
	balanceWeekStart string
	balanceDays      int
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Analyze workload balance across the week",
	Long: `Score each day's load against your daily target and propose moves
that even out overloaded and underloaded days.

Examples:
  dayli balance
  dayli balance --week-start 2026-01-12 --days 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		out := cmd.OutOrStdout()
		if app == nil || app.AnalyzeWorkloadHandler == nil {
			return errors.New("workload analysis requires database connection")
		}

		weekStart := startOfWeek(time.Now())
		if balanceWeekStart != "" {
			parsed, err := time.Parse("2006-01-02", balanceWeekStart)
			if err != nil {
				return fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
			}
			weekStart = parsed
		}

		report, err := app.AnalyzeWorkloadHandler.Handle(cmd.Context(), scheduleQueries.AnalyzeWorkloadQuery{
			UserID:    app.CurrentUserID,
			WeekStart: weekStart,
			Days:      balanceDays,
		})
		if err != nil {
			return fmt.Errorf("failed to analyze workload: %w", err)
		}

		fmt.Fprintf(out, "Workload for week of %s (target %dm/day)\n",
			weekStart.Format("January 2, 2006"), report.TargetPerDay)
		fmt.Fprintln(out, strings.Repeat("=", 60))

		for _, day := range report.Week.Days {
			marker := " "
			if day.LoadScore > domain.OverloadedThreshold {
				marker = "!"
			} else if day.LoadScore < domain.UnderloadedThreshold {
				marker = "-"
			}
			fmt.Fprintf(out, "%s %s  load %3d  (%dm total: %dm work, %dm meetings, %dm breaks)\n",
				marker,
				day.Date.Format("Mon Jan 2"),
				day.LoadScore,
				day.TotalMinutes,
				day.WorkMinutes,
				day.MeetingMinutes,
				day.BreakMinutes,
			)
		}

		fmt.Fprintln(out, strings.Repeat("-", 60))
		fmt.Fprintf(out, "Balance score: %d (average load %.0f, variance %.0f%%)\n",
			report.Week.BalanceScore, report.Week.AverageLoad, report.Week.VariancePercent)

		if len(report.Suggestions) == 0 {
			fmt.Fprintln(out, "\nNo rebalancing needed.")
			return nil
		}

		fmt.Fprintln(out, "\nSuggestions:")
		for _, suggestion := range report.Suggestions {
			switch suggestion.Kind {
			case domain.SuggestionMove:
				fmt.Fprintf(out, "  Move %q from %s to %s (%s)\n",
					suggestion.BlockTitle,
					suggestion.FromDate.Format("Mon Jan 2"),
					suggestion.ToDate.Format("Mon Jan 2"),
					suggestion.Impact,
				)
			case domain.SuggestionSplit:
				fmt.Fprintf(out, "  Split %q on %s (%s)\n",
					suggestion.BlockTitle,
					suggestion.FromDate.Format("Mon Jan 2"),
					suggestion.Impact,
				)
			}
		}

		return nil
	},
}

// startOfWeek returns the Monday of the given date's week.
func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	day := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
}

func init() {
	balanceCmd.Flags().StringVarP(&balanceWeekStart, "week-start", "w", "", "first day of the week (YYYY-MM-DD)")
	balanceCmd.Flags().IntVar(&balanceDays, "days", 7, "number of days to analyze")
	rootCmd.AddCommand(balanceCmd)
}
