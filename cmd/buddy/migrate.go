package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobseeker-buddy/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  "Apply pending PostgreSQL migrations. The SQLite store creates its schema when opened.",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	logger := setupLogger(verbose)
	cfg, err := loadConfig(cfgPath, os.Getenv)
	if err != nil {
		return err
	}

	store, err := openStore(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	out := cmd.OutOrStdout()
	database, ok := store.(*db.DB)
	if !ok {
		fmt.Fprintf(out, "SQLite schema ready at %s\n", cfg.SQLitePath)
		return nil
	}

	applied, err := database.Migrate(cmd.Context())
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if len(applied) == 0 {
		fmt.Fprintln(out, "Database is up to date")
		return nil
	}
	for _, name := range applied {
		fmt.Fprintf(out, "Applied %s\n", name)
	}
	return nil
}
