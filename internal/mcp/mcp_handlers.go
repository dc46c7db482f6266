package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/fpstats/core"
	"github.com/huangsam/fpstats/core/chart"
	"github.com/huangsam/fpstats/internal/contract"
	"github.com/huangsam/fpstats/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// daysArg reads an optional day window, falling back to def.
func daysArg(request mcp.CallToolRequest, def int) (int, error) {
	days := request.GetInt("days", def)
	if days < 1 || days > contract.MaxDays {
		return 0, fmt.Errorf("days must be between 1 and %d (received %d)", contract.MaxDays, days)
	}
	return days, nil
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleGetGraphURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	series := strings.TrimSpace(request.GetString("series", ""))
	if series == "" {
		return mcp.NewToolResultError("series is required"), nil
	}
	days, err := daysArg(request, chart.DefaultDays)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg.AllowStale = request.GetBool("allow_stale", cfg.AllowStale)

	g, err := core.NewChartBuilder(ctx, h.mgr.GetStatsStore(), cfg).BuildGraph(ctx, series, days)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("graph failed: %v", err)), nil
	}
	return jsonResult(g), nil
}

func (h *toolHandler) handleGetOverview(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := h.mgr.GetStatsStore()
	ov, err := core.GetOverview(ctx, store, core.NewChartBuilder(ctx, store, h.baseCfg))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("overview failed: %v", err)), nil
	}
	return jsonResult(ov), nil
}

func (h *toolHandler) handleGetDailyAdditions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days, err := daysArg(request, core.DefaultDailyDays)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var names []string
	for p := range strings.SplitSeq(request.GetString("names", ""), ",") {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}

	additions, err := core.GetDailyAdditions(ctx, h.mgr.GetStatsStore(), names, days)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("daily additions failed: %v", err)), nil
	}
	return jsonResult(additions), nil
}

// fingerprintArg resolves a fingerprint from its text argument or, failing that, a stored id.
func (h *toolHandler) fingerprintArg(ctx context.Context, request mcp.CallToolRequest, textKey, idKey string) (schema.Fingerprint, error) {
	if text := request.GetString(textKey, ""); strings.TrimSpace(text) != "" {
		fp, err := schema.ParseFingerprint(text)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", textKey, err)
		}
		return fp, nil
	}
	id := request.GetInt(idKey, 0)
	if id <= 0 {
		return nil, fmt.Errorf("either %s or %s is required", textKey, idKey)
	}
	rec, err := h.mgr.GetStatsStore().GetFingerprint(ctx, int64(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load fingerprint %d: %w", id, err)
	}
	return rec.Fingerprint, nil
}

func (h *toolHandler) handleRenderFingerprint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fp, err := h.fingerprintArg(ctx, request, "fingerprint", "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := core.RenderPNG(fp)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	text := fmt.Sprintf("Fingerprint with %d frames rendered as a 32x%d bitmap.", len(fp), len(fp))
	return mcp.NewToolResultImage(text, base64.StdEncoding.EncodeToString(data), "image/png"), nil
}

func (h *toolHandler) handleDiffFingerprints(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fp1, err := h.fingerprintArg(ctx, request, "fingerprint_a", "id_a")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fp2, err := h.fingerprintArg(ctx, request, "fingerprint_b", "id_b")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, report, err := core.DiffPNG(fp1, fp2, request.GetInt("offset", 0))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("diff failed: %v", err)), nil
	}
	jsonData, _ := json.Marshal(report)
	return mcp.NewToolResultImage(string(jsonData), base64.StdEncoding.EncodeToString(data), "image/png"), nil
}
