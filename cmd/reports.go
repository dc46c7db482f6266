package cmd

import (
	"github.com/huangsam/fpstats/core"
	"github.com/huangsam/fpstats/internal/contract"
	"github.com/spf13/cobra"
)

// graphCmd prints the chart URL of one series.
var graphCmd = &cobra.Command{
	Use:   "graph <series>",
	Short: "Build the chart URL of a daily statistic series.",
	Long: `Fetch the newest values of a series and encode them into a chart service URL.

The chart covers the last --days days ending today (40 by default), with one
x-axis label every fifth day. Days without a value are drawn as gaps.

The series must have a value for today unless --allow-stale is given.

Examples:
  # URL of the submissions chart
  fpstats graph submission.all

  # 90 days of fingerprints, even if today's snapshot is not in yet
  fpstats graph fingerprint.all --days 90 --allow-stale

  # The pieces of the chart as JSON
  fpstats graph track.all --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteGraph(rootCtx, cfg, storeManager, args[0]); err != nil {
			contract.LogFatal("Cannot build graph", err)
		}
	},
}

// overviewCmd prints the statistics dashboard.
var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show the current database statistics.",
	Long: `Show the statistics of the most recent stats date.

Includes:
- Submissions, fingerprints, tracks, MBIDs and contributors
- Tracks with at least one MBID and their share
- Tracks by number of MBIDs and MBIDs by number of tracks
- Graph URLs for submissions and fingerprints over 60 days

Examples:
  fpstats overview
  fpstats overview --output json --output-file overview.json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteOverview(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build overview", err)
		}
	},
}

// dailyCmd prints per-day additions.
var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Show how much each series grew per day.",
	Long: `Show per-day deltas of statistic series over the last --days days (31 by default).

Each value is the difference to the previous recorded value of the same series.

Examples:
  fpstats daily
  fpstats daily --names submission.all,track.all --days 14
  fpstats daily --output parquet --output-file daily.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDailyAdditions(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute daily additions", err)
		}
	},
}

// lookupsCmd prints lookup counters.
var lookupsCmd = &cobra.Command{
	Use:   "lookups",
	Short: "Show daily lookup counts and hit rates.",
	Long: `Show lookup hits and misses per day for the last --days days (30 by default).
Today is excluded because its counters are still being flushed.

Examples:
  fpstats lookups
  fpstats lookups --days 7 --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLookups(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot read lookup stats", err)
		}
	},
}

// contributorsCmd prints the top contributors.
var contributorsCmd = &cobra.Command{
	Use:   "contributors",
	Short: "Show the accounts with the most submissions.",
	Long: `Rank accounts by submission count, with their MusicBrainz profile when linked.

Examples:
  fpstats contributors --limit 10
  fpstats contributors --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteContributors(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot read contributors", err)
		}
	},
}
