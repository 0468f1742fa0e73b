package ledger

import (
	"fmt"

	"github.com/saadjs/kcal-ledger/internal/app"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage ledger configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show effective configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values := cfg.Values()
		if len(args) == 1 {
			v, ok := values[args[0]]
			if !ok {
				return fmt.Errorf("unknown config key %q (valid: %v)", args[0], app.Keys())
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "KEY\tVALUE")
		for _, k := range app.Keys() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", k, values[k])
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := app.SaveConfig(path, cfg); err != nil {
			return err
		}
		logger.Printf("wrote %s", path)
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
