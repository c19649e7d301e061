package slots

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mitchforest/dayli/adapter/cli"
	"github.com/mitchforest/dayli/internal/scheduling/application/queries"
	"github.com/mitchforest/dayli/internal/scheduling/application/services"
)

var (
	suggestDate       string
	suggestDays       int
	suggestDuration   int
	suggestPrefer     string
	suggestAttendees  []string
	suggestRequireAll bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest ranked meeting slots",
	Long: `Score candidate meeting windows over the next days and return the
best options. With attendees, their free/busy status weighs into the
ranking; attendees whose calendars cannot be read score neutrally.

Examples:
  dayli slots suggest --duration 30
  dayli slots suggest --duration 60 --days 5 --prefer morning
  dayli slots suggest --duration 30 --attendees alice@example.com,bob@example.com --require-all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		out := cmd.OutOrStdout()
		if app == nil || app.SuggestSlotsHandler == nil {
			return fmt.Errorf("slot suggestions require database connection")
		}

		startDate := time.Now()
		if suggestDate != "" {
			parsed, err := time.Parse("2006-01-02", suggestDate)
			if err != nil {
				return fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
			}
			startDate = parsed
		}

		var preference services.TimePreference
		switch suggestPrefer {
		case "":
			preference = services.PreferenceNone
		case "morning":
			preference = services.PreferenceMorning
		case "afternoon":
			preference = services.PreferenceAfternoon
		default:
			return fmt.Errorf("invalid preference %q, use morning or afternoon", suggestPrefer)
		}

		suggestions, err := app.SuggestSlotsHandler.Handle(cmd.Context(), queries.SuggestSlotsQuery{
			UserID:              app.CurrentUserID,
			StartDate:           startDate,
			Days:                suggestDays,
			DurationMinutes:     suggestDuration,
			Preference:          preference,
			Attendees:           suggestAttendees,
			RequireAllAttendees: suggestRequireAll,
		})
		if err != nil {
			return fmt.Errorf("failed to suggest slots: %w", err)
		}

		fmt.Fprintf(out, "Top meeting slots (%dm)\n", suggestDuration)
		fmt.Fprintln(out, strings.Repeat("=", 60))

		if len(suggestions.Candidates) == 0 {
			fmt.Fprintln(out, "\n  No viable slots found in the search window.")
			return nil
		}

		for i, candidate := range suggestions.Candidates {
			fmt.Fprintf(out, "\n%d. %s  %s - %s  (score %.0f)\n",
				i+1,
				candidate.Date.Format("Mon Jan 2"),
				candidate.Start.Format("15:04"),
				candidate.End.Format("15:04"),
				candidate.Score,
			)
		}

		if len(suggestions.UnknownAttendees) > 0 {
			fmt.Fprintln(out, strings.Repeat("-", 60))
			fmt.Fprintf(out, "Availability unknown for: %s\n", strings.Join(suggestions.UnknownAttendees, ", "))
		}

		return nil
	},
}

func init() {
	suggestCmd.Flags().StringVarP(&suggestDate, "date", "d", "", "first date to search (YYYY-MM-DD)")
	suggestCmd.Flags().IntVar(&suggestDays, "days", 1, "number of days to search")
	suggestCmd.Flags().IntVarP(&suggestDuration, "duration", "m", 30, "meeting duration in minutes")
	suggestCmd.Flags().StringVarP(&suggestPrefer, "prefer", "p", "", "time preference (morning or afternoon)")
	suggestCmd.Flags().StringSliceVarP(&suggestAttendees, "attendees", "a", nil, "attendee emails")
	suggestCmd.Flags().BoolVar(&suggestRequireAll, "require-all", false, "drop slots with any attendee conflict")
}
