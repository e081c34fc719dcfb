package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeCmd groups review store maintenance.
//
// Store subcommands read only the persistence settings instead of running
// the full sharedSetup.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage stored reviews and users",
	Long: `Manage the database that holds review history and user accounts.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show store statistics
  export  - Export reviews and findings to Parquet
  clear   - Remove all stored data
  migrate - Run database schema migrations

Examples:
  # Check store status
  codecritic store status

  # Export for analysis in pandas/DuckDB
  codecritic store export --output-file reviews`,
}

// storeClearCmd clears the stored data.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored reviews and users",
	Long: `Delete the review history and user accounts.

For SQLite the database file is removed. For MySQL and PostgreSQL the
tables are dropped and recreated on next use.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  codecritic store export --output-file backup
  codecritic store clear`,
	PreRunE: storeSettingsWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := cfg.StoreDBConnect
		if dbFilePath == "" {
			dbFilePath = store.GetDBFilePath()
		}
		if err := store.ClearStore(cfg.StoreBackend, dbFilePath, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show the backend, connection state, number of stored reviews, the
newest and oldest review times and per-table row counts.

Examples:
  codecritic store status
  codecritic store status --store-backend postgresql --store-db-connect "$DSN"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := store.Manager.GetReviewStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		store.PrintStoreStatus(os.Stdout, status)
	},
}

// storeExportCmd exports stored reviews to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored reviews to Parquet for BI tools",
	Long: `Export every stored review to Parquet.

Writes two files next to --output-file:
- <output-file>.reviews.parquet  - one row per review with its metrics
- <output-file>.findings.parquet - one row per syntax error or logic issue

Requires: --output-file parameter

Examples:
  codecritic store export --output-file reviews
  duckdb -c "SELECT language, avg(score) FROM 'reviews.reviews.parquet' GROUP BY 1"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.ExecuteReviewExport(rootCtx, os.Stdout, store.Manager.GetReviewStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export reviews", err)
		}
	},
}

// storeMigrateCmd runs database migrations for the review store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the review and user tables.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  codecritic store migrate

  # Rollback to the initial state
  codecritic store migrate --target-version 0`,
	PreRunE: storeSettingsWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := store.Migrate(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
