package ledger

import (
	"database/sql"
	"fmt"

	"github.com/saadjs/kcal-ledger/internal/db"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize local ledger database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			versions, err := db.AppliedVersions(sqldb)
			if err != nil {
				return err
			}
			logger.Printf("schema versions %v", versions)
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized ledger database at %s\n", path)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
