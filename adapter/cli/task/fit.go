package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mitchforest/dayli/adapter/cli"
	"github.com/mitchforest/dayli/internal/scheduling/application/queries"
	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

var (
	fitDate     string
	fitMinutes  int
	fitEnergy   string
	fitPriority string
	fitKeywords []string
)

var fitCmd = &cobra.Command{
	Use:   "fit <title>",
	Short: "Find the best gaps for a task",
	Long: `Score the day's free gaps against a task's duration, energy, and
priority, and rank where it fits best.

Examples:
  dayli task fit "Write report" --minutes 90
  dayli task fit "Code review" --minutes 45 --energy high --priority high --keywords deep,focus`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		out := cmd.OutOrStdout()
		if app == nil || app.FitTaskHandler == nil {
			return fmt.Errorf("task fitting requires database connection")
		}

		date := time.Now()
		if fitDate != "" {
			parsed, err := time.Parse("2006-01-02", fitDate)
			if err != nil {
				return fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
			}
			date = parsed
		}

		placement, err := app.FitTaskHandler.Handle(cmd.Context(), queries.FitTaskQuery{
			UserID: app.CurrentUserID,
			Date:   date,
			Task: domain.SchedulableTask{
				ID:               uuid.New(),
				Title:            args[0],
				EstimatedMinutes: fitMinutes,
				Energy:           domain.TaskEnergy(fitEnergy),
				Priority:         domain.TaskPriority(fitPriority),
				Keywords:         fitKeywords,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to fit task: %w", err)
		}

		fmt.Fprintf(out, "Best slots for %q (%dm) on %s\n",
			args[0], fitMinutes, date.Format("Monday, January 2, 2006"))
		fmt.Fprintln(out, strings.Repeat("=", 60))

		if len(placement.Candidates) == 0 {
			fmt.Fprintln(out, "\n  No gap is long enough for this task.")
			return nil
		}

		for i, candidate := range placement.Candidates {
			fmt.Fprintf(out, "\n%d. %s - %s  %dm gap  (score %.0f)\n",
				i+1,
				candidate.Gap.Start.Format("15:04"),
				candidate.Gap.End.Format("15:04"),
				candidate.Gap.DurationMinutes,
				candidate.Score,
			)
			if candidate.Factors.EnergyMatch {
				fmt.Fprintln(out, "    Energy matches this part of the day")
			}
		}

		return nil
	},
}

func init() {
	fitCmd.Flags().StringVarP(&fitDate, "date", "d", "", "date to fit into (YYYY-MM-DD)")
	fitCmd.Flags().IntVarP(&fitMinutes, "minutes", "m", 30, "estimated task duration in minutes")
	fitCmd.Flags().StringVar(&fitEnergy, "energy", "", "required energy (high, medium, low)")
	fitCmd.Flags().StringVar(&fitPriority, "priority", "", "task priority (high, medium, low)")
	fitCmd.Flags().StringSliceVar(&fitKeywords, "keywords", nil, "task keywords for gap matching")
}
