package ledger

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/saadjs/kcal-ledger/internal/app"
	"github.com/spf13/cobra"
)

var (
	dbPath     string
	configPath string
	verbose    bool

	cfg    = app.DefaultConfig()
	logger = log.New(io.Discard, "ledger: ", log.LstdFlags)
)

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "ledger tracks food, exercise, and your calorie goal from the terminal",
	Long:  "ledger is a local-first calorie ledger with dated body settings, a reusable item library, and goal progress that credits resting burn during exercise.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetOutput(io.Discard)
		if verbose {
			logger.SetOutput(cmd.ErrOrStderr())
		}
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		loaded, err := app.LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Printf("config %s", path)
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log diagnostics to stderr")
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return app.DefaultConfigPath()
}

func resolveDBPath() (string, error) {
	return app.ResolveDBPath(dbPath, cfg)
}
