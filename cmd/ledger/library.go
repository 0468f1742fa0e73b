package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/saadjs/kcal-ledger/internal/engine"
	"github.com/saadjs/kcal-ledger/internal/service"
	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage reusable food and exercise items",
}

var (
	libName        string
	libType        string
	libCalories    int
	libMinutes     int
	libDescription string
)

func libraryInputFromFlags() (service.LibraryInput, error) {
	t, err := parseEntryType(libType)
	if err != nil {
		return service.LibraryInput{}, err
	}
	return service.LibraryInput{
		Name:        libName,
		Type:        t,
		Calories:    libCalories,
		Minutes:     libMinutes,
		Description: libDescription,
	}, nil
}

func printLibraryConflict(w io.Writer, conflict *service.LibraryConflictError) {
	fmt.Fprintf(w, "%q already exists in the library (id %d)\n", conflict.Existing.Name, conflict.Existing.ID)
	changes := engine.LibraryDiff(conflict.Existing, conflict.Candidate)
	if len(changes) == 0 {
		fmt.Fprintln(w, "No differences")
		return
	}
	printChanges(w, changes)
}

func printChanges(w io.Writer, changes []engine.FieldChange) {
	for _, c := range changes {
		fmt.Fprintf(w, "  %s: %s -> %s\n", c.Field, c.Old, c.New)
	}
}

var libraryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a library item",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := libraryInputFromFlags()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.CreateLibraryItem(sqldb, in)
			var conflict *service.LibraryConflictError
			if errors.As(err, &conflict) {
				printLibraryConflict(cmd.ErrOrStderr(), conflict)
				return fmt.Errorf("library item %q exists; use library replace %d to overwrite", conflict.Existing.Name, conflict.Existing.ID)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added library item %d\n", id)
			return nil
		})
	},
}

var (
	libListQuery string
	libListType  string
)

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List library items, most used first",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := service.LibraryFilter{Query: libListQuery}
		if libListType != "" {
			t, err := parseEntryType(libListType)
			if err != nil {
				return err
			}
			filter.Type = t
		}
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.ListLibrary(sqldb, filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tTYPE\tNAME\tKCAL\tMIN\tUSES\tLAST USED\tDESCRIPTION")
			for _, item := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n", item.ID, item.Type, item.Name, item.Calories, item.Minutes, item.UsageCount, formatLastUsed(item.LastUsed), item.Description)
			}
			return nil
		})
	},
}

var (
	libEditName        string
	libEditType        string
	libEditCalories    int
	libEditMinutes     int
	libEditDescription string
)

var libraryEditCmd = &cobra.Command{
	Use:   "edit <id|name>",
	Short: "Edit selected fields of a library item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			item, err := service.ResolveLibraryItem(sqldb, args[0])
			if err != nil {
				return err
			}
			in := service.LibraryInput{
				Name:        item.Name,
				Type:        item.Type,
				Calories:    item.Calories,
				Minutes:     item.Minutes,
				Description: item.Description,
			}
			flags := cmd.Flags()
			updates := 0
			if flags.Changed("name") {
				in.Name = libEditName
				updates++
			}
			if flags.Changed("type") {
				t, err := parseEntryType(libEditType)
				if err != nil {
					return err
				}
				in.Type = t
				updates++
			}
			if flags.Changed("calories") {
				in.Calories = libEditCalories
				updates++
			}
			if flags.Changed("minutes") {
				in.Minutes = libEditMinutes
				updates++
			}
			if flags.Changed("description") {
				in.Description = libEditDescription
				updates++
			}
			if updates == 0 {
				return fmt.Errorf("set at least one flag")
			}
			err = service.UpdateLibraryItem(sqldb, fmt.Sprint(item.ID), in)
			var conflict *service.LibraryConflictError
			if errors.As(err, &conflict) {
				return fmt.Errorf("cannot rename to %q: library item %d already uses that name", in.Name, conflict.Existing.ID)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated library item %d\n", item.ID)
			return nil
		})
	},
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete <id|name>",
	Short: "Delete a library item; logged entries keep their values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteLibraryItem(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted library item %s\n", args[0])
			return nil
		})
	},
}

var libSaveReplace bool

var librarySaveCmd = &cobra.Command{
	Use:   "save <entry-id>",
	Short: "Save a logged entry to the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entryID, err := parseInt64Arg("entry id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.SaveEntryToLibrary(sqldb, entryID)
			var conflict *service.LibraryConflictError
			if !errors.As(err, &conflict) {
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved entry %d as library item %d\n", entryID, id)
				return nil
			}
			if !libSaveReplace {
				printLibraryConflict(cmd.ErrOrStderr(), conflict)
				return fmt.Errorf("library item %q exists; rerun with --replace to overwrite", conflict.Existing.Name)
			}
			e, err := service.EntryByID(sqldb, entryID)
			if err != nil {
				return err
			}
			changes, err := service.ReplaceLibraryItem(sqldb, conflict.Existing.ID, service.EntryLibraryInput(*e))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Replaced library item %d\n", conflict.Existing.ID)
			printChanges(cmd.OutOrStdout(), changes)
			return nil
		})
	},
}

var (
	libReplaceName        string
	libReplaceType        string
	libReplaceCalories    int
	libReplaceMinutes     int
	libReplaceDescription string
)

// libraryReplaceCmd overwrites every value of an item. Calories, minutes and
// description are taken from the flags as given; name and type default to
// the item's own.
var libraryReplaceCmd = &cobra.Command{
	Use:   "replace <id|name>",
	Short: "Overwrite a library item, keeping its usage history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			item, err := service.ResolveLibraryItem(sqldb, args[0])
			if err != nil {
				return err
			}
			in := service.LibraryInput{
				Name:        item.Name,
				Type:        item.Type,
				Calories:    libReplaceCalories,
				Minutes:     libReplaceMinutes,
				Description: libReplaceDescription,
			}
			if libReplaceName != "" {
				in.Name = libReplaceName
			}
			if libReplaceType != "" {
				t, err := parseEntryType(libReplaceType)
				if err != nil {
					return err
				}
				in.Type = t
			}
			changes, err := service.ReplaceLibraryItem(sqldb, item.ID, in)
			if err != nil {
				return err
			}
			if len(changes) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Library item %d unchanged\n", item.ID)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Replaced library item %d\n", item.ID)
			printChanges(cmd.OutOrStdout(), changes)
			return nil
		})
	},
}

var libAdoptDate string

var libraryAdoptCmd = &cobra.Command{
	Use:   "adopt <id|name>[=N]...",
	Short: "Log library items on a day (N is a count for food, minutes for exercise)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := service.DateOrToday(libAdoptDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			selections := make([]service.AdoptSelection, 0, len(args))
			for _, arg := range args {
				ident, n, err := parseAdoptArg(arg)
				if err != nil {
					return err
				}
				item, err := service.ResolveLibraryItem(sqldb, ident)
				if err != nil {
					return err
				}
				selections = append(selections, service.AdoptSelection{Item: *item, Selection: selectionFor(item.Type, n)})
			}
			ids, err := service.AdoptItems(sqldb, date, selections, time.Now())
			if err != nil {
				return err
			}
			return printAdopted(cmd.OutOrStdout(), sqldb, date, ids)
		})
	},
}

func printAdopted(w io.Writer, sqldb *sql.DB, date string, ids []int64) error {
	for _, id := range ids {
		e, err := service.EntryByID(sqldb, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Added entry %d: %s %d kcal %s\n", e.ID, e.Name, e.Calories, formatEntryQuantity(*e))
	}
	fmt.Fprintf(w, "Adopted %d item(s) on %s\n", len(ids), date)
	return nil
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryEditCmd)
	libraryCmd.AddCommand(libraryDeleteCmd)
	libraryCmd.AddCommand(librarySaveCmd)
	libraryCmd.AddCommand(libraryReplaceCmd)
	libraryCmd.AddCommand(libraryAdoptCmd)

	libraryAddCmd.Flags().StringVar(&libName, "name", "", "Item name")
	libraryAddCmd.Flags().StringVar(&libType, "type", "food", "food or exercise")
	libraryAddCmd.Flags().IntVar(&libCalories, "calories", 0, "Calories (per serving, or per base duration for exercise)")
	libraryAddCmd.Flags().IntVar(&libMinutes, "minutes", 0, "Base duration in minutes for exercise (default 30)")
	libraryAddCmd.Flags().StringVar(&libDescription, "description", "", "Optional description")
	_ = libraryAddCmd.MarkFlagRequired("name")

	libraryReplaceCmd.Flags().StringVar(&libReplaceName, "name", "", "Item name (default: keep)")
	libraryReplaceCmd.Flags().StringVar(&libReplaceType, "type", "", "food or exercise (default: keep)")
	libraryReplaceCmd.Flags().IntVar(&libReplaceCalories, "calories", 0, "Calories")
	libraryReplaceCmd.Flags().IntVar(&libReplaceMinutes, "minutes", 0, "Base duration in minutes")
	libraryReplaceCmd.Flags().StringVar(&libReplaceDescription, "description", "", "Description")

	libraryListCmd.Flags().StringVar(&libListQuery, "query", "", "Filter by name substring")
	libraryListCmd.Flags().StringVar(&libListType, "type", "", "Filter by type: food or exercise")

	libraryEditCmd.Flags().StringVar(&libEditName, "name", "", "Item name")
	libraryEditCmd.Flags().StringVar(&libEditType, "type", "", "food or exercise")
	libraryEditCmd.Flags().IntVar(&libEditCalories, "calories", 0, "Calories")
	libraryEditCmd.Flags().IntVar(&libEditMinutes, "minutes", 0, "Base duration in minutes")
	libraryEditCmd.Flags().StringVar(&libEditDescription, "description", "", "Description")

	librarySaveCmd.Flags().BoolVar(&libSaveReplace, "replace", false, "Overwrite an existing item with the same name")

	libraryAdoptCmd.Flags().StringVar(&libAdoptDate, "date", "", "Date YYYY-MM-DD (default today)")
}
