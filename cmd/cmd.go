// Package cmd defines the command-line interface for fpstats.
package cmd

import (
	"github.com/huangsam/fpstats/internal/contract"
	"github.com/huangsam/fpstats/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(lookupsCmd)
	rootCmd.AddCommand(contributorsCmd)
	rootCmd.AddCommand(fingerprintCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(countersCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the fingerprint subcommands to the parent fingerprint command
	fingerprintCmd.AddCommand(fingerprintRenderCmd)
	fingerprintCmd.AddCommand(fingerprintDiffCmd)
	fingerprintCmd.AddCommand(fingerprintAddCmd)

	// Add the stats subcommands to the parent stats command
	statsCmd.AddCommand(statsRecordCmd)
	statsCmd.AddCommand(statsImportCmd)
	statsCmd.AddCommand(statsSnapshotCmd)

	// Add the counters subcommands to the parent counters command
	countersCmd.AddCommand(countersIncrCmd)
	countersCmd.AddCommand(countersFlushCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)
	storeCmd.AddCommand(storeExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("db-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for sqlite/mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("days", 0, "Number of days to report (0 = command default)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("chart-base-url", contract.DefaultChartURL, "Chart service endpoint used in graph URLs")
	rootCmd.PersistentFlags().Bool("allow-stale", false, "Plot series even when today has no value")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of dailyCmd to Viper
	dailyCmd.Flags().String("names", "", "Comma-separated series names (default: the standard daily set)")
	if err := viper.BindPFlags(dailyCmd.Flags()); err != nil {
		contract.LogFatal("Error binding daily flags", err)
	}

	// Bind all persistent flags of fingerprintCmd to Viper
	fingerprintCmd.PersistentFlags().Int("offset", 0, "Frame offset of the second fingerprint in a diff")
	fingerprintCmd.PersistentFlags().Bool("from-store", false, "Read integer arguments as stored fingerprint ids")
	fingerprintCmd.PersistentFlags().Int64("track-id", 0, "Track id attached to an added fingerprint")
	fingerprintCmd.PersistentFlags().StringP("png-file", "o", "", "Path of the PNG image to write")
	if err := viper.BindPFlags(fingerprintCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding fingerprint flags", err)
	}

	// Flags local to counters incr, not part of the shared configuration
	countersIncrCmd.Flags().Bool("hit", false, "Count the lookups as hits")
	countersIncrCmd.Flags().Int64("count", 1, "Number of lookups to count")

	// Bind all persistent flags of countersCmd to Viper
	countersCmd.PersistentFlags().String("redis-addr", contract.DefaultRedisAddr, "Redis address holding the lookup counters")
	countersCmd.PersistentFlags().String("redis-password", "", "Redis password (prefer FPSTATS_REDIS_PASSWORD)")
	countersCmd.PersistentFlags().Int("redis-db", 0, "Redis database number")
	if err := viper.BindPFlags(countersCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding counters flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
