// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/fpstats/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the fpstats MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"fpstats Server",
		"1.0.0",
		server.WithLogging(),
		server.WithRecovery(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_graph_url ---
	s.AddTool(mcp.NewTool("get_graph_url",
		mcp.WithDescription("Build the chart URL of a daily statistic series such as submission.all."),
		mcp.WithString("series", mcp.Description("Name of the series to plot."), mcp.Required()),
		mcp.WithNumber("days", mcp.Description("Number of days to plot (defaults to 40).")),
		mcp.WithBoolean("allow_stale", mcp.Description("Plot the series even when today has no value.")),
	), h.handleGetGraphURL)

	// --- 2. Tool: get_overview ---
	s.AddTool(mcp.NewTool("get_overview",
		mcp.WithDescription("Current database statistics: headline counts, MBID distributions and graph URLs."),
	), h.handleGetOverview)

	// --- 3. Tool: get_daily_additions ---
	s.AddTool(mcp.NewTool("get_daily_additions",
		mcp.WithDescription("Per-day additions of statistic series over a recent window."),
		mcp.WithString("names", mcp.Description("Comma-separated series names (defaults to the standard set).")),
		mcp.WithNumber("days", mcp.Description("Number of days to look back (defaults to 31).")),
	), h.handleGetDailyAdditions)

	// --- 4. Tool: render_fingerprint ---
	s.AddTool(mcp.NewTool("render_fingerprint",
		mcp.WithDescription("Render a 32-bit fingerprint as a PNG bitmap, one row per frame."),
		mcp.WithString("fingerprint", mcp.Description("Fingerprint values (fpcalc -raw output, {a,b,c} or comma-separated integers).")),
		mcp.WithNumber("id", mcp.Description("Id of a stored fingerprint, used when fingerprint is empty.")),
	), h.handleRenderFingerprint)

	// --- 5. Tool: diff_fingerprints ---
	s.AddTool(mcp.NewTool("diff_fingerprints",
		mcp.WithDescription("Render two fingerprints and their XOR side by side, aligned by offset."),
		mcp.WithString("fingerprint_a", mcp.Description("First fingerprint values.")),
		mcp.WithString("fingerprint_b", mcp.Description("Second fingerprint values.")),
		mcp.WithNumber("id_a", mcp.Description("Id of the first stored fingerprint, used when fingerprint_a is empty.")),
		mcp.WithNumber("id_b", mcp.Description("Id of the second stored fingerprint, used when fingerprint_b is empty.")),
		mcp.WithNumber("offset", mcp.Description("Frame offset of the second fingerprint relative to the first.")),
	), h.handleDiffFingerprints)

	return s
}

// StartMCPServer starts the fpstats MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
