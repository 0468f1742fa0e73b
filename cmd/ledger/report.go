package ledger

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/saadjs/kcal-ledger/internal/service"
	"github.com/spf13/cobra"
)

var (
	reportFrom string
	reportTo   string
	reportJSON bool
)

type reportOutput struct {
	From   string              `json:"from"`
	To     string              `json:"to"`
	Totals service.RangeTotals `json:"totals"`
	Days   []service.Summary   `json:"days"`
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarise a date range day by day",
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := service.DateOrToday(reportTo)
		if err != nil {
			return err
		}
		from := reportFrom
		if from == "" {
			from = to
		}
		from, err = service.DateOrToday(from)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			days, err := service.RangeSummary(sqldb, from, to)
			if err != nil {
				return err
			}
			out := reportOutput{From: from, To: to, Totals: service.TotalRange(days), Days: days}
			if reportJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			printReport(cmd.OutOrStdout(), out)
			return nil
		})
	},
}

func printReport(w io.Writer, r reportOutput) {
	fmt.Fprintln(w, "DATE\tFOOD\tBURNED\tNET\tGOAL\tSTATUS\tDONE")
	for _, d := range r.Days {
		done := ""
		if d.Complete {
			done = "yes"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s %d\t%s\n", d.Date, d.Totals.FoodTotal, d.Totals.BurnedTotal, d.Totals.NetCalories, d.Status.Goal, d.Status.Zone.Label(), d.Status.Magnitude, done)
	}
	t := r.Totals
	fmt.Fprintf(w, "Days: %d (logged %d, complete %d)\n", t.Days, t.LoggedDays, t.CompleteDays)
	fmt.Fprintf(w, "Food: %d kcal  Burned: %d kcal  Net: %d kcal  Goal: %d kcal\n", t.FoodTotal, t.BurnedTotal, t.NetTotal, t.GoalTotal)
	fmt.Fprintf(w, "Average net per logged day: %d kcal\n", t.AverageNet)
	fmt.Fprintf(w, "Over goal: %d day(s)  Over RMR: %d day(s)\n", t.DaysOverGoal, t.DaysOverRMR)
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "Start date YYYY-MM-DD (default --to)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "End date YYYY-MM-DD (default today)")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Print JSON")
}
