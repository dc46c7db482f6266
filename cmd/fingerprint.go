package cmd

import (
	"github.com/huangsam/fpstats/core"
	"github.com/spf13/cobra"
)

// fingerprintCmd groups the fingerprint image commands.
var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint",
	Short: "Render, compare and store fingerprints",
	Long: `Work with 32-bit audio fingerprints.

Fingerprints are read from a file, or from stdin with "-". Accepted forms are
fpcalc -raw output, array literals such as {1,2,3} or [1,2,3], and plain
integers separated by commas or whitespace. With --from-store, an integer
argument is the id of a stored fingerprint.

Subcommands:
  render - write the bitmap of one fingerprint
  diff   - write two fingerprints and their XOR side by side
  add    - store a fingerprint`,
}

var fingerprintRenderCmd = &cobra.Command{
	Use:   "render <file|id>",
	Short: "Write the bitmap of one fingerprint as PNG",
	Long: `Render one fingerprint as a 32-pixel wide bitmap with one row per frame.
Set bits are white, clear bits are black.

Examples:
  fpcalc -raw track.mp3 | fpstats fingerprint render - -o track.png
  fpstats fingerprint render 1234 --from-store -o fp.png`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, args []string) error {
		return core.ExecuteRenderFingerprint(rootCtx, cfg, storeManager, args[0])
	},
}

var fingerprintDiffCmd = &cobra.Command{
	Use:   "diff <a> <b>",
	Short: "Write two fingerprints and their XOR as one PNG",
	Long: `Render both fingerprints and their bitwise difference side by side.
--offset shifts the second fingerprint by that many frames before comparing.
A summary line with the bit error rate is printed.

Examples:
  fpstats fingerprint diff a.txt b.txt -o diff.png
  fpstats fingerprint diff 10 11 --from-store --offset 3 -o diff.png`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, args []string) error {
		return core.ExecuteDiffFingerprints(rootCtx, cfg, storeManager, args[0], args[1])
	},
}

var fingerprintAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Store a fingerprint and print its id",
	Long: `Store a fingerprint. The DURATION= line of fpcalc output becomes its length.

Examples:
  fpcalc -raw track.mp3 | fpstats fingerprint add - --track-id 42`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, args []string) error {
		return core.ExecuteAddFingerprint(rootCtx, cfg, storeManager, args[0])
	},
}
