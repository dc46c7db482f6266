package statstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/fpstats/internal/contract"
	"github.com/huangsam/fpstats/internal/parquet"
	"github.com/huangsam/fpstats/schema"
)

// ExecuteExport writes the stats table and the daily lookup totals to Parquet files
// named after outputFile.
func ExecuteExport(ctx context.Context, w io.Writer, store contract.StatsStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalStats == 0 {
		return errors.New("no stats found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total stats: %d across %d series\n", status.TotalStats, status.DistinctSeries)

	rows, err := store.AllStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve stats: %w", err)
	}
	statsFile := outputFile + ".stats.parquet"
	if err := parquet.WriteParquet(parquet.ConvertStatRows(rows), statsFile); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d stats rows to: %s\n", len(rows), statsFile)

	// Every recorded day up to and including today.
	until := schema.FormatDay(time.Now().AddDate(0, 0, 1))
	lookups, err := store.LookupStats(ctx, "", until)
	if err != nil {
		return fmt.Errorf("failed to retrieve lookup stats: %w", err)
	}
	lookupsFile := outputFile + ".lookups.parquet"
	if err := parquet.WriteParquet(parquet.ConvertLookupStats(lookups), lookupsFile); err != nil {
		return fmt.Errorf("failed to write lookup stats: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d lookup days to: %s\n", len(lookups), lookupsFile)

	return nil
}
