package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kvn-koech/car-rental-management-system/internal/database"
)

// migrateCmd runs goose against the configured database
var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status]",
	Short: "Run database migrations",
	Long: `Run the embedded database migrations.

Subcommands:
  up      - Apply pending migrations (default)
  down    - Roll back the latest migration
  status  - Show migration status`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"up", "down", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		command := "up"
		if len(args) == 1 {
			command = args[0]
		}
		return runMigrate(cmd, command)
	},
}

func runMigrate(cmd *cobra.Command, command string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	db, err := database.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(cmd.Context(), db, command); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	log.Info("migrations done", "command", command)
	return nil
}
