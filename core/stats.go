package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/fpstats/internal/contract"
	"github.com/huangsam/fpstats/internal/counters"
	"github.com/huangsam/fpstats/schema"
)

// ImportResult summarizes a stats CSV import.
type ImportResult struct {
	Rows    int `json:"rows"`
	Skipped int `json:"skipped"`
}

// ImportStats reads name,date,value records from r and records each of them.
// A leading header row is skipped. Malformed records stop the import.
func ImportStats(ctx context.Context, store contract.SeriesStore, r io.Reader) (ImportResult, error) {
	var result ImportResult
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		if err != nil {
			return result, fmt.Errorf("failed to read stats csv: %w", err)
		}
		if line == 1 && strings.EqualFold(record[0], "name") {
			result.Skipped++
			continue
		}
		value, err := strconv.ParseInt(strings.TrimSpace(record[2]), 10, 64)
		if err != nil {
			return result, fmt.Errorf("line %d: invalid value %q", line, record[2])
		}
		if err := store.RecordStat(ctx, strings.TrimSpace(record[0]), strings.TrimSpace(record[1]), value); err != nil {
			return result, fmt.Errorf("line %d: %w", line, err)
		}
		result.Rows++
	}
}

// ExecuteRecordStat records one value of a series.
func ExecuteRecordStat(ctx context.Context, mgr contract.StoreManager, name, date, raw string) error {
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", raw, err)
	}
	if err := mgr.GetStatsStore().RecordStat(ctx, name, date, value); err != nil {
		return err
	}
	contract.LoggerFrom(ctx).Info("Stat recorded", "name", name, "date", date, "value", value)
	return nil
}

// ExecuteImportStats records every row of a stats CSV file, or stdin for "-".
func ExecuteImportStats(ctx context.Context, mgr contract.StoreManager, path string) error {
	progress := contract.NewProgress(contract.LoggerFrom(ctx))
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	result, err := ImportStats(ctx, mgr.GetStatsStore(), r)
	if err != nil {
		return err
	}
	progress.Done("Stats imported", "rows", result.Rows)
	return nil
}

// ExecuteSnapshot records the counters derivable from the store for date,
// defaulting to today.
func ExecuteSnapshot(ctx context.Context, mgr contract.StoreManager, date string) error {
	if date == "" {
		date = schema.FormatDay(todayFrom(ctx))
	}
	values, err := mgr.GetStatsStore().Snapshot(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to snapshot stats: %w", err)
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(os.Stdout, "%s %s %d\n", date, name, values[name]); err != nil {
			return err
		}
	}
	return nil
}

// ExecuteCountLookups adds count lookups of appID to the redis counters of the current hour.
func ExecuteCountLookups(ctx context.Context, cfg *contract.Config, appID int64, hit bool, count int64) error {
	client, err := counters.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := counters.NewCounter(client, counters.WithClock(clockFrom(ctx))).IncrBy(ctx, appID, hit, count); err != nil {
		return err
	}
	contract.LoggerFrom(ctx).Debug("Lookups counted", "app", appID, "hit", hit, "count", count)
	return nil
}

// ExecuteFlushCounters drains the redis lookup counters into the store.
func ExecuteFlushCounters(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	progress := contract.NewProgress(contract.LoggerFrom(ctx))
	client, err := counters.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	result, err := counters.NewCounter(client).Flush(ctx, mgr.GetStatsStore())
	if err != nil {
		return fmt.Errorf("failed to flush lookup counters: %w", err)
	}
	progress.Done("Lookup counters flushed",
		"recorded", result.Recorded, "lookups", result.Lookups, "deleted", result.Deleted, "skipped", result.Skipped)
	return nil
}
