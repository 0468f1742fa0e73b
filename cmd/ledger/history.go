package ledger

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/saadjs/kcal-ledger/internal/engine"
	"github.com/saadjs/kcal-ledger/internal/service"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Reuse entries logged on earlier days",
}

var historyListDate string

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List distinct past entries before a day, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := service.DateOrToday(historyListDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			items, err := loadHistory(sqldb, date)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "LAST DATE\tTYPE\tNAME\tKCAL\tMIN\tDESCRIPTION")
			for _, item := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d\t%d\t%s\n", item.LastDate, item.Type, item.Name, item.Calories, item.Minutes, item.Description)
			}
			return nil
		})
	},
}

var historyAdoptDate string

var historyAdoptCmd = &cobra.Command{
	Use:   "adopt <name>[=N]...",
	Short: "Log past entries on a day without touching the library",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := service.DateOrToday(historyAdoptDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			items, err := loadHistory(sqldb, date)
			if err != nil {
				return err
			}
			byName := make(map[string]engine.HistoryItem, len(items))
			for _, item := range items {
				byName[item.NameNorm] = item
			}
			selections := make([]service.HistorySelection, 0, len(args))
			for _, arg := range args {
				name, n, err := parseAdoptArg(arg)
				if err != nil {
					return err
				}
				item, ok := byName[engine.NormalizeName(name)]
				if !ok {
					return fmt.Errorf("no history entry named %q before %s: %w", name, date, service.ErrNotFound)
				}
				selections = append(selections, service.HistorySelection{Item: item, Selection: selectionFor(item.Type, n)})
			}
			ids, err := service.AdoptHistory(sqldb, date, selections, time.Now())
			if err != nil {
				return err
			}
			return printAdopted(cmd.OutOrStdout(), sqldb, date, ids)
		})
	},
}

func loadHistory(sqldb *sql.DB, date string) ([]engine.HistoryItem, error) {
	return service.HistoryFeed(sqldb, date, service.HistoryOptions{
		ScanLimit: cfg.History.ScanLimit,
		FeedLimit: cfg.History.FeedLimit,
	})
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyAdoptCmd)

	historyListCmd.Flags().StringVar(&historyListDate, "date", "", "Show history before this date (default today)")
	historyAdoptCmd.Flags().StringVar(&historyAdoptDate, "date", "", "Date to log on YYYY-MM-DD (default today)")
}
