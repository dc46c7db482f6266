package cmd

import (
	"github.com/huangsam/fpstats/core"
	"github.com/spf13/cobra"
)

// statsCmd groups the commands that write statistics.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Record daily statistic values",
	Long: `Write values into the daily statistic series.

Subcommands:
  record   - set one value of a series
  import   - load name,date,value rows from CSV
  snapshot - recompute the counters derivable from the store`,
}

var statsRecordCmd = &cobra.Command{
	Use:   "record <name> <date> <value>",
	Short: "Set the value of a series on one date",
	Long: `Insert or replace the value of a series on a YYYY-MM-DD date.

Examples:
  fpstats stats record submission.all 2024-03-10 123456`,
	Args:    cobra.ExactArgs(3),
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, args []string) error {
		return core.ExecuteRecordStat(rootCtx, storeManager, args[0], args[1], args[2])
	},
}

var statsImportCmd = &cobra.Command{
	Use:   "import <csv>",
	Short: "Load name,date,value rows from a CSV file",
	Long: `Record every name,date,value row of a CSV file ("-" reads stdin).
A leading name,date,value header is skipped.

Examples:
  fpstats stats import history.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, args []string) error {
		return core.ExecuteImportStats(rootCtx, storeManager, args[0])
	},
}

var statsSnapshotCmd = &cobra.Command{
	Use:   "snapshot [date]",
	Short: "Recompute the counters derivable from the store",
	Long: `Count accounts, fingerprints, tracks and submissions in the store and
record them for the given date (today by default).

Examples:
  fpstats stats snapshot
  fpstats stats snapshot 2024-03-10`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, args []string) error {
		var date string
		if len(args) == 1 {
			date = args[0]
		}
		return core.ExecuteSnapshot(rootCtx, storeManager, date)
	},
}
