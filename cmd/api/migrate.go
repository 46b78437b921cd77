package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	pg "pet-health-core/internal/adapters/storage/postgres"
	"pet-health-core/internal/adapters/storage/postgres/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the Postgres schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		if strings.TrimSpace(cfg.Database.DSN) == "" {
			return fmt.Errorf("DB_DSN is required")
		}

		db, err := pg.Open(cmd.Context(), cfg.Database.DSN, pg.DefaultPoolOptions())
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		if err := migrations.Up(db); err != nil {
			return err
		}
		log.Info("schema up to date", nil)
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if strings.TrimSpace(cfg.Database.DSN) == "" {
			return fmt.Errorf("DB_DSN is required")
		}

		db, err := pg.Open(cmd.Context(), cfg.Database.DSN, pg.DefaultPoolOptions())
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		st, err := migrations.CurrentStatus(db)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version: %d\nlatest:  %d\ndirty:   %t\n", st.Version, st.Latest, st.Dirty)
		if !st.UpToDate() {
			return fmt.Errorf("schema is not up to date")
		}
		return nil
	},
}
