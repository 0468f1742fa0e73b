package ledger

import (
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/saadjs/kcal-ledger/internal/engine"
	"github.com/saadjs/kcal-ledger/internal/model"
	"github.com/saadjs/kcal-ledger/internal/service"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage dated body profile and calorie settings",
}

var (
	setDate     string
	setWeight   float64
	setHeight   float64
	setGender   string
	setDOB      string
	setActivity string
	setRMR      int
	setDeficit  int
)

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save settings effective from a date; unset flags keep the values in force",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := service.DateOrToday(setDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			prior, err := service.ResolveSettings(sqldb, date)
			if err != nil {
				return err
			}
			var form model.DaySettings
			if prior != nil {
				form = *prior
			}
			flags := cmd.Flags()
			changed := false
			if flags.Changed("weight") {
				form.WeightKg = setWeight
				changed = true
			}
			if flags.Changed("height") {
				form.HeightCm = setHeight
				changed = true
			}
			if flags.Changed("gender") {
				form.Gender = model.Gender(setGender)
				changed = true
			}
			if flags.Changed("dob") {
				form.DOB = setDOB
				changed = true
			}
			if flags.Changed("activity") {
				form.ActivityLevel = model.ActivityLevel(setActivity)
				changed = true
			}
			if flags.Changed("rmr") {
				form.RMR = setRMR
				changed = true
			}
			if flags.Changed("deficit") {
				form.Deficit = setDeficit
				changed = true
			}
			if !changed {
				return fmt.Errorf("set at least one flag")
			}
			saved, err := service.SaveSettings(sqldb, date, form, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved settings for %s\n", saved.Date)
			printSettings(cmd.OutOrStdout(), engine.EffectiveFrom(saved), time.Now())
			return nil
		})
	},
}

var weightDate string

var settingsWeightCmd = &cobra.Command{
	Use:   "weight <kg>",
	Short: "Record weight for a date, carrying the rest of the profile forward",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kg, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
		if err != nil || kg <= 0 {
			return fmt.Errorf("invalid weight %q (expected kg > 0)", args[0])
		}
		date, err := service.DateOrToday(weightDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			saved, err := service.UpdateSettingsField(sqldb, date, engine.SettingsPatch{WeightKg: &kg}, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Weight %.1f kg recorded for %s (RMR %d)\n", saved.WeightKg, saved.Date, engine.EffectiveFrom(saved).RMR)
			return nil
		})
	},
}

var currentDate string

var settingsCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the settings in force on a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := service.DateOrToday(currentDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			eff, err := service.EffectiveSettings(sqldb, date)
			if err != nil {
				return err
			}
			if !eff.Found {
				fmt.Fprintf(cmd.OutOrStdout(), "No settings on or before %s; using defaults\n", date)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Settings from %s in force on %s\n", eff.Settings.Date, date)
			}
			printSettings(cmd.OutOrStdout(), eff, time.Now())
			return nil
		})
	},
}

func printSettings(w io.Writer, eff engine.Effective, now time.Time) {
	s := eff.Settings
	if eff.Found {
		fmt.Fprintf(w, "Weight: %s\n", orUnset(s.WeightKg, "%.1f kg"))
		fmt.Fprintf(w, "Height: %s\n", orUnset(s.HeightCm, "%.1f cm"))
		fmt.Fprintf(w, "Gender: %s\n", orUnsetString(string(s.Gender)))
		if s.DOB != "" {
			fmt.Fprintf(w, "Date of birth: %s (age %d)\n", s.DOB, engine.Age(s.DOB, now))
		} else {
			fmt.Fprintln(w, "Date of birth: -")
		}
		fmt.Fprintf(w, "Activity: %s\n", orUnsetString(string(s.ActivityLevel)))
		if engine.ProfileComplete(s) {
			bmr := engine.BMR(s.WeightKg, s.HeightCm, engine.Age(s.DOB, now), s.Gender)
			fmt.Fprintf(w, "BMR: %d kcal\n", bmr)
		}
	}
	fmt.Fprintf(w, "RMR: %d kcal\n", eff.RMR)
	fmt.Fprintf(w, "Deficit: %d kcal\n", eff.Deficit)
	fmt.Fprintf(w, "Goal: %d kcal\n", eff.Goal())
}

func orUnset(v float64, format string) string {
	if v <= 0 {
		return "-"
	}
	return fmt.Sprintf(format, v)
}

func orUnsetString(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

var settingsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List every stored settings record",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			records, err := service.SettingsHistory(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "DATE\tWEIGHT\tHEIGHT\tGENDER\tDOB\tACTIVITY\tRMR\tDEFICIT")
			for _, s := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
					s.Date,
					orUnset(s.WeightKg, "%.1f"),
					orUnset(s.HeightCm, "%.1f"),
					orUnsetString(string(s.Gender)),
					orUnsetString(s.DOB),
					orUnsetString(string(s.ActivityLevel)),
					s.RMR,
					s.Deficit,
				)
			}
			return nil
		})
	},
}

var settingsDeleteDate string

var settingsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the settings record stored on a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(settingsDeleteDate) == "" {
			return fmt.Errorf("--date is required")
		}
		date, err := service.DateOrToday(settingsDeleteDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteSettings(sqldb, date); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted settings for %s\n", date)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWeightCmd)
	settingsCmd.AddCommand(settingsCurrentCmd)
	settingsCmd.AddCommand(settingsHistoryCmd)
	settingsCmd.AddCommand(settingsDeleteCmd)

	settingsSetCmd.Flags().StringVar(&setDate, "date", "", "Effective date YYYY-MM-DD (default today)")
	settingsSetCmd.Flags().Float64Var(&setWeight, "weight", 0, "Weight in kg")
	settingsSetCmd.Flags().Float64Var(&setHeight, "height", 0, "Height in cm")
	settingsSetCmd.Flags().StringVar(&setGender, "gender", "", "male or female")
	settingsSetCmd.Flags().StringVar(&setDOB, "dob", "", "Date of birth YYYY-MM-DD")
	settingsSetCmd.Flags().StringVar(&setActivity, "activity", "", "sedentary, light, moderate, active or extra")
	settingsSetCmd.Flags().IntVar(&setRMR, "rmr", 0, "Manual RMR (ignored once the profile is complete)")
	settingsSetCmd.Flags().IntVar(&setDeficit, "deficit", 0, "Daily deficit in kcal")

	settingsWeightCmd.Flags().StringVar(&weightDate, "date", "", "Date YYYY-MM-DD (default today)")
	settingsCurrentCmd.Flags().StringVar(&currentDate, "date", "", "Date YYYY-MM-DD (default today)")
	settingsDeleteCmd.Flags().StringVar(&settingsDeleteDate, "date", "", "Date of the record to delete YYYY-MM-DD")
}
