package cmd

import (
	"fmt"
	"strconv"

	"github.com/huangsam/fpstats/core"
	"github.com/spf13/cobra"
)

// countersCmd groups the redis lookup counter commands.
var countersCmd = &cobra.Command{
	Use:   "counters",
	Short: "Manage the redis lookup counters",
	Long: `Lookup counters are kept in redis hashes per application and hour,
then flushed into the stats store.

Subcommands:
  incr  - count lookups of an application
  flush - move the counted lookups into the store`,
}

var countersFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Move counted lookups from redis into the store",
	Long: `Walk every counter partition in redis, add each count to the store and
subtract it from redis. Counters already at zero are deleted.

Examples:
  fpstats counters flush --redis-addr redis:6379
  FPSTATS_REDIS_PASSWORD=secret fpstats counters flush`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ExecuteFlushCounters(rootCtx, cfg, storeManager)
	},
}

var countersIncrCmd = &cobra.Command{
	Use:   "incr <app-id>",
	Short: "Count lookups of an application in the current hour",
	Long: `Add lookups of one application to the redis counters of the current hour.
Lookups are misses unless --hit is set. They reach the store on the next flush.

Examples:
  fpstats counters incr 12 --hit
  fpstats counters incr 12 --count 50`,
	Args:    cobra.ExactArgs(1),
	PreRunE: configOnlySetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		appID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || appID <= 0 {
			return fmt.Errorf("invalid application id %q", args[0])
		}
		hit, err := cmd.Flags().GetBool("hit")
		if err != nil {
			return err
		}
		count, err := cmd.Flags().GetInt64("count")
		if err != nil {
			return err
		}
		return core.ExecuteCountLookups(rootCtx, cfg, appID, hit, count)
	},
}
