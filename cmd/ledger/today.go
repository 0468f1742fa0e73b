package ledger

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/saadjs/kcal-ledger/internal/service"
	"github.com/spf13/cobra"
)

var todayDate string

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show the day's ledger, totals, and goal progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := service.DateOrToday(todayDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			s, err := service.DaySummary(sqldb, date)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), s, cfg.Display.BarWidth)
			return nil
		})
	},
}

func printSummary(w io.Writer, s *service.Summary, barWidth int) {
	status := "open"
	if s.Complete {
		status = "complete"
	}
	fmt.Fprintf(w, "Date: %s (%s)\n", s.Date, status)
	if len(s.Entries) == 0 {
		fmt.Fprintln(w, "No entries")
	} else {
		fmt.Fprintln(w, "ID\tTYPE\tNAME\tKCAL\tQTY")
		for _, e := range s.Entries {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", e.ID, e.Type, e.Name, e.Calories, formatEntryQuantity(e))
		}
	}
	fmt.Fprintf(w, "Food: %d kcal\n", s.Totals.FoodTotal)
	fmt.Fprintf(w, "Exercise: %d kcal over %d min (RMR credit +%d)\n", s.Totals.ExerciseDirectBurn, s.Totals.ExerciseMinutes, s.Totals.RMRCredit)
	fmt.Fprintf(w, "Burned: %d kcal\n", s.Totals.BurnedTotal)
	fmt.Fprintf(w, "Net: %d kcal\n", s.Totals.NetCalories)
	source := "settings"
	if s.Defaults {
		source = "defaults"
	}
	fmt.Fprintf(w, "Goal: %d kcal (RMR %d - deficit %d, %s)\n", s.Status.Goal, s.RMR, s.Deficit, source)
	fmt.Fprintf(w, "%s: %d kcal\n", s.Status.Zone.Label(), s.Status.Magnitude)
	fmt.Fprintf(w, "%s %.0f%%/%.0f%%/%.0f%% of %d\n", s.Bar.Render(barWidth), s.Bar.GreenPct, s.Bar.YellowPct, s.Bar.RedPct, s.Bar.Scale)
}

func init() {
	rootCmd.AddCommand(todayCmd)
	todayCmd.Flags().StringVar(&todayDate, "date", "", "Date YYYY-MM-DD (default today)")
}
