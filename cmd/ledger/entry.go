package ledger

import (
	"database/sql"
	"fmt"

	"github.com/saadjs/kcal-ledger/internal/engine"
	"github.com/saadjs/kcal-ledger/internal/service"
	"github.com/spf13/cobra"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage food and exercise entries",
}

var (
	entryDate        string
	entryType        string
	entryName        string
	entryCalories    int
	entryMinutes     int
	entryCount       int
	entryDescription string
)

var listDate string

var entryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := service.DateOrToday(entryDate)
		if err != nil {
			return err
		}
		t, err := parseEntryType(entryType)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.CreateEntry(sqldb, service.EntryInput{
				Date:        date,
				Type:        t,
				Name:        entryName,
				Calories:    entryCalories,
				Minutes:     entryMinutes,
				Count:       entryCount,
				Description: entryDescription,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added entry %d\n", id)
			return nil
		})
	},
}

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a day's entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := service.DateOrToday(listDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			entries, err := service.ListEntries(sqldb, date)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tDATE\tTYPE\tNAME\tKCAL\tMIN\tCOUNT\tDESCRIPTION")
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n", e.ID, e.Date, e.Type, e.Name, e.Calories, e.Minutes, e.Count, e.Description)
			}
			return nil
		})
	},
}

var (
	editDate        string
	editType        string
	editName        string
	editCalories    int
	editMinutes     int
	editCount       int
	editDescription string
	editUnlink      bool
	editLink        bool
)

var entryEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an entry; exercise minutes and calories stay linked until --unlink",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("entry id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			e, err := service.EntryByID(sqldb, id)
			if err != nil {
				return err
			}
			if e.Deleted {
				return fmt.Errorf("entry %d is deleted (use entry undo first)", id)
			}
			if editUnlink && editLink {
				return fmt.Errorf("--link and --unlink are mutually exclusive")
			}
			flags := cmd.Flags()
			s := engine.View(*e).BeginEdit()
			if editUnlink && s.Link().Linked {
				s = s.ToggleLink()
			}
			if editLink {
				if s.Link().Linked {
					s = s.ToggleLink()
				}
				s = s.ToggleLink()
			}
			// Explicit minutes and calories are both kept, then the link is
			// switched back on at their ratio.
			relink := flags.Changed("minutes") && flags.Changed("calories") && s.Link().Linked
			if relink {
				s = s.ToggleLink()
			}
			if flags.Changed("name") {
				s = s.SetName(editName)
			}
			if flags.Changed("description") {
				s = s.SetDescription(editDescription)
			}
			if flags.Changed("type") {
				t, err := parseEntryType(editType)
				if err != nil {
					return err
				}
				s = s.SetType(t)
			}
			if flags.Changed("count") {
				if editCount < 1 {
					return fmt.Errorf("count must be >= 1")
				}
				s = s.SetCount(editCount)
			}
			if flags.Changed("minutes") {
				s = s.SetMinutes(editMinutes)
			}
			if flags.Changed("calories") {
				s = s.SetCalories(editCalories)
			}
			if relink {
				s = s.ToggleLink()
			}
			_, next, changed := s.Commit()
			if flags.Changed("date") {
				date, err := service.DateOrToday(editDate)
				if err != nil {
					return err
				}
				changed = changed || date != next.Date
				next.Date = date
			}
			if !changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Entry %d unchanged\n", id)
				return nil
			}
			if err := service.UpdateEntry(sqldb, next); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %d: %s %d kcal %s\n", id, next.Name, next.Calories, formatEntryQuantity(next))
			return nil
		})
	},
}

var entryCountCmd = &cobra.Command{
	Use:   "count <id> <n>",
	Short: "Set how many times an entry counts",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("entry id", args[0])
		if err != nil {
			return err
		}
		n, err := parseInt64Arg("count", args[1])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.SetEntryCount(sqldb, id, int(n)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Entry %d count set to %d\n", id, n)
			return nil
		})
	},
}

var entryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an entry (undo with entry undo)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("entry id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.SoftDeleteEntry(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %d (undo: ledger entry undo %d)\n", id, id)
			return nil
		})
	},
}

var entryUndoCmd = &cobra.Command{
	Use:   "undo <id>",
	Short: "Restore a deleted entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("entry id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.RestoreEntry(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored entry %d\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(entryCmd)
	entryCmd.AddCommand(entryAddCmd)
	entryCmd.AddCommand(entryListCmd)
	entryCmd.AddCommand(entryEditCmd)
	entryCmd.AddCommand(entryCountCmd)
	entryCmd.AddCommand(entryDeleteCmd)
	entryCmd.AddCommand(entryUndoCmd)

	entryAddCmd.Flags().StringVar(&entryDate, "date", "", "Date YYYY-MM-DD (default today)")
	entryAddCmd.Flags().StringVar(&entryType, "type", "food", "food or exercise")
	entryAddCmd.Flags().StringVar(&entryName, "name", "", "Entry name")
	entryAddCmd.Flags().IntVar(&entryCalories, "calories", 0, "Calories per occurrence (sign is normalised by type)")
	entryAddCmd.Flags().IntVar(&entryMinutes, "minutes", 0, "Exercise duration in minutes")
	entryAddCmd.Flags().IntVar(&entryCount, "count", 1, "Number of occurrences")
	entryAddCmd.Flags().StringVar(&entryDescription, "description", "", "Optional description")
	_ = entryAddCmd.MarkFlagRequired("name")

	entryListCmd.Flags().StringVar(&listDate, "date", "", "Date YYYY-MM-DD (default today)")

	entryEditCmd.Flags().StringVar(&editDate, "date", "", "Move entry to date YYYY-MM-DD")
	entryEditCmd.Flags().StringVar(&editType, "type", "", "food or exercise")
	entryEditCmd.Flags().StringVar(&editName, "name", "", "Entry name")
	entryEditCmd.Flags().IntVar(&editCalories, "calories", 0, "Calories per occurrence")
	entryEditCmd.Flags().IntVar(&editMinutes, "minutes", 0, "Exercise duration in minutes")
	entryEditCmd.Flags().IntVar(&editCount, "count", 1, "Number of occurrences")
	entryEditCmd.Flags().StringVar(&editDescription, "description", "", "Description")
	entryEditCmd.Flags().BoolVar(&editUnlink, "unlink", false, "Edit minutes and calories independently from now on")
	entryEditCmd.Flags().BoolVar(&editLink, "link", false, "Link minutes and calories again at their current ratio")
}
