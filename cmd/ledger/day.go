package ledger

import (
	"database/sql"
	"fmt"

	"github.com/saadjs/kcal-ledger/internal/service"
	"github.com/spf13/cobra"
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Mark days complete",
}

var (
	dayCompleteDate string
	dayCompleteUndo bool
)

var dayCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Mark a day as fully logged",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := service.DateOrToday(dayCompleteDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.SetDayComplete(sqldb, date, !dayCompleteUndo); err != nil {
				return err
			}
			if dayCompleteUndo {
				fmt.Fprintf(cmd.OutOrStdout(), "%s marked open\n", date)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s marked complete\n", date)
			}
			return nil
		})
	},
}

var dayStatusDate string

var dayStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a day is complete",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := service.DateOrToday(dayStatusDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			st, err := service.DayStatusFor(sqldb, date)
			if err != nil {
				return err
			}
			state := "open"
			if st.IsComplete {
				state = "complete"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", st.Date, state)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(dayCmd)
	dayCmd.AddCommand(dayCompleteCmd)
	dayCmd.AddCommand(dayStatusCmd)

	dayCompleteCmd.Flags().StringVar(&dayCompleteDate, "date", "", "Date YYYY-MM-DD (default today)")
	dayCompleteCmd.Flags().BoolVar(&dayCompleteUndo, "undo", false, "Mark the day open again")
	dayStatusCmd.Flags().StringVar(&dayStatusDate, "date", "", "Date YYYY-MM-DD (default today)")
}
