package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/fpstats/internal/contract"
	"github.com/huangsam/fpstats/internal/outwriter"
	"github.com/huangsam/fpstats/internal/statstore"
	"github.com/huangsam/fpstats/schema"
	"github.com/spf13/cobra"
)

// sqlitePath returns the SQLite file the store uses for the current config.
func sqlitePath() string {
	if cfg.Backend == schema.SQLiteBackend && cfg.DBConnect != "" {
		return cfg.DBConnect
	}
	return contract.GetDBFilePath()
}

// storeCmd focused on stats store management.
//
// Note: clear and migrate only validate the configuration and never open the
// store, so they also work on a missing or outdated schema.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the stats store",
	Long: `Manage the database that holds the daily statistics, lookup counters,
accounts and fingerprints.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show store statistics and connection info
  clear   - Remove all stored data
  migrate - Run database schema migrations
  export  - Export stats and lookups to Parquet

Examples:
  # Check store status
  fpstats store status

  # Use PostgreSQL through the environment
  FPSTATS_DB_BACKEND=postgresql FPSTATS_DB_CONNECT="host=db dbname=fpstats" fpstats store status`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the stats store.

Displays:
- Backend type and connection status
- Schema version
- Number of stats rows and distinct series
- Oldest and latest stats dates
- Table sizes`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetStatsStore().GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		if err := outwriter.NewOutWriter().WriteStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to print store status", err)
		}
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored statistics",
	Long: `Delete all stored data from the configured backend.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the store tables

Examples:
  fpstats store export --output-file backup
  fpstats store clear`,
	PreRunE: configOnlySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := statstore.ClearStore(cfg.Backend, sqlitePath(), cfg.DBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeMigrateCmd runs database migrations for the stats store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the stats store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  fpstats store migrate

  # Migrate to specific version
  fpstats store migrate --target-version 1

  # Rollback everything
  fpstats store migrate --target-version 0`,
	PreRunE: configOnlySetup,
	Run: func(_ *cobra.Command, _ []string) {
		connStr := cfg.DBConnect
		if cfg.Backend == schema.SQLiteBackend {
			connStr = sqlitePath()
		}
		result, err := statstore.Migrate(rootCtx, cfg.Backend, connStr, cfg.TargetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		if !result.Changed {
			fmt.Printf("No migrations to run (version %d).\n", result.ToVersion)
			return
		}
		fmt.Printf("Migrated %s store from version %d to %d.\n", cfg.Backend, result.FromVersion, result.ToVersion)
	},
}

// storeExportCmd exports the store to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stats and lookups to Parquet for analytics",
	Long: `Export the stored data to Parquet format for use with analytics tools.

Writes two files next to --output-file:
- <output-file>.stats.parquet   - every (name, date, value) row
- <output-file>.lookups.parquet - daily lookup totals

Examples:
  fpstats store export --output-file fpstats
  duckdb -c "SELECT * FROM read_parquet('fpstats.stats.parquet') LIMIT 10"`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := statstore.ExecuteExport(rootCtx, os.Stdout, storeManager.GetStatsStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export store", err)
		}
	},
}
