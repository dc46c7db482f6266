package cmd

import (
	"github.com/huangsam/fpstats/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the fpstats MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents read statistics,
build graph URLs and render fingerprints via standard tools.

Tools:
  get_graph_url        - chart URL of one series
  get_overview         - current statistics dashboard
  get_daily_additions  - per-day deltas of series
  render_fingerprint   - PNG bitmap of a fingerprint
  diff_fingerprints    - aligned PNG diff of two fingerprints`,
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
