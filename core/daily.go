package core

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/huangsam/fpstats/internal/contract"
	"github.com/huangsam/fpstats/schema"
)

// Default report windows in days.
const (
	DefaultDailyDays   = 31
	DefaultLookupsDays = 30
)

// GetDailyAdditions returns per-day deltas of the named series over the last days
// days, today included. The oldest date only seeds the deltas and is not reported,
// so at most days-1 dates come back.
func GetDailyAdditions(ctx context.Context, store contract.SeriesStore, names []string, days int) ([]schema.DailyAddition, error) {
	if days <= 0 {
		days = DefaultDailyDays
	}
	if len(names) == 0 {
		names = schema.DefaultDailyNames
	}
	since := schema.FormatDay(todayFrom(ctx).AddDate(0, 0, -days+1))
	rows, err := store.DailyValues(ctx, names, since)
	if err != nil {
		return nil, fmt.Errorf("failed to read daily values: %w", err)
	}
	return computeDailyAdditions(rows), nil
}

// computeDailyAdditions turns absolute values into deltas against the previous
// row of the same series, grouped by date oldest first.
func computeDailyAdditions(rows []schema.StatRow) []schema.DailyAddition {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b schema.StatRow) int {
		return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.Name, b.Name))
	})

	previous := make(map[string]int64)
	var out []schema.DailyAddition
	for _, row := range sorted {
		if len(out) == 0 || out[len(out)-1].Date != row.Date {
			out = append(out, schema.DailyAddition{Date: row.Date, Values: make(map[string]int64)})
		}
		out[len(out)-1].Values[row.Name] = row.Value - previous[row.Name]
		previous[row.Name] = row.Value
	}
	if len(out) <= 1 {
		return []schema.DailyAddition{}
	}
	return out[1:]
}

// GetLookupStats returns per-day lookup totals for the window of the last days days
// ending today. Today itself is still being counted and is left out.
func GetLookupStats(ctx context.Context, store contract.LookupStore, days int) ([]schema.LookupStat, error) {
	if days <= 0 {
		days = DefaultLookupsDays
	}
	today := todayFrom(ctx)
	since := schema.FormatDay(today.AddDate(0, 0, -days+1))
	stats, err := store.LookupStats(ctx, since, schema.FormatDay(today))
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup stats: %w", err)
	}
	return stats, nil
}
