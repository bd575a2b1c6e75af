package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"readify-backend/internal/platform/db"
)

func newMigrateCmd() *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			if printOnly {
				fmt.Print(db.Schema())
				return nil
			}
			if cfg.Database.Driver == "memory" {
				warn("database.driver is memory; nothing to migrate")
				return nil
			}
			conn, err := db.Connect(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := db.Migrate(cmd.Context(), conn); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			ok("Schema applied to %s", cfg.Database.DBName)
			return nil
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the schema instead of applying it")
	return cmd
}
