// Package core has the report orchestration of fpstats: it reads the stats
// store, builds graphs and hands results to the output writer.
package core

import (
	"context"
	"fmt"

	"github.com/huangsam/fpstats/core/chart"
	"github.com/huangsam/fpstats/internal/contract"
	"github.com/huangsam/fpstats/internal/outwriter"
)

// ExecutorFunc defines the function signature for executing the report commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteGraph builds the chart of one series and prints it.
func ExecuteGraph(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, name string) error {
	store := mgr.GetStatsStore()
	g, err := NewChartBuilder(ctx, store, cfg).BuildGraph(ctx, name, cfg.DaysOr(chart.DefaultDays))
	if err != nil {
		return fmt.Errorf("cannot build graph for %s: %w", name, err)
	}
	return outwriter.NewOutWriter().WriteGraph(*g, cfg)
}

// ExecuteOverview prints the statistics dashboard.
func ExecuteOverview(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	progress := contract.NewProgress(contract.LoggerFrom(ctx))
	store := mgr.GetStatsStore()
	ov, err := GetOverview(ctx, store, NewChartBuilder(ctx, store, cfg))
	if err != nil {
		return err
	}
	progress.Done("Overview ready", "date", ov.Date)
	return outwriter.NewOutWriter().WriteOverview(ov, cfg)
}

// ExecuteDailyAdditions prints the per-day deltas of the configured series.
func ExecuteDailyAdditions(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	days, err := GetDailyAdditions(ctx, mgr.GetStatsStore(), cfg.Names, cfg.DaysOr(DefaultDailyDays))
	if err != nil {
		return err
	}
	contract.LoggerFrom(ctx).Debug("Daily additions", "days", len(days), "series", len(cfg.Names))
	return outwriter.NewOutWriter().WriteDailyAdditions(days, cfg.Names, cfg)
}

// ExecuteLookups prints per-day lookup totals.
func ExecuteLookups(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	stats, err := GetLookupStats(ctx, mgr.GetStatsStore(), cfg.DaysOr(DefaultLookupsDays))
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteLookups(stats, cfg)
}

// ExecuteContributors prints the accounts with the most submissions.
func ExecuteContributors(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	contributors, err := mgr.GetStatsStore().TopContributors(ctx, cfg.ResultLimit)
	if err != nil {
		return fmt.Errorf("failed to read contributors: %w", err)
	}
	return outwriter.NewOutWriter().WriteContributors(contributors, cfg)
}
