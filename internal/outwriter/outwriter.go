// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/fpstats/internal/contract"
	"github.com/huangsam/fpstats/schema"
)

// OutWriter provides a unified interface for all output operations.
// Results go to the configured output file, or to the writer given at construction.
type OutWriter struct {
	stdout io.Writer
}

// NewOutWriter creates an output writer that defaults to os.Stdout.
func NewOutWriter() *OutWriter {
	return &OutWriter{stdout: os.Stdout}
}

// NewOutWriterTo creates an output writer that defaults to w.
func NewOutWriterTo(w io.Writer) *OutWriter {
	return &OutWriter{stdout: w}
}

// WriteGraph prints a graph URL, or its pieces for structured formats.
func (ow *OutWriter) WriteGraph(graph schema.Graph, cfg *contract.Config) error {
	return ow.dispatch(cfg, "graph", formatters{
		text: func(w io.Writer) error { return writeGraphText(w, graph) },
		json: func(w io.Writer) error { return writeJSON(w, graph) },
		csv:  func(w io.Writer) error { return writeGraphCSV(w, graph) },
	})
}

// WriteOverview prints the current statistics dashboard.
func (ow *OutWriter) WriteOverview(ov schema.Overview, cfg *contract.Config) error {
	return ow.dispatch(cfg, "overview", formatters{
		text: func(w io.Writer) error { return writeOverviewText(w, ov, cfg) },
		json: func(w io.Writer) error { return writeJSON(w, ov) },
		csv:  func(w io.Writer) error { return writeOverviewCSV(w, ov) },
	})
}

// WriteDailyAdditions prints per-day deltas of the given series.
func (ow *OutWriter) WriteDailyAdditions(days []schema.DailyAddition, names []string, cfg *contract.Config) error {
	return ow.dispatch(cfg, "daily additions", formatters{
		text:    func(w io.Writer) error { return writeDailyTable(w, days, names, cfg) },
		json:    func(w io.Writer) error { return writeJSON(w, days) },
		csv:     func(w io.Writer) error { return writeDailyCSV(w, days, names) },
		parquet: func(w io.Writer) error { return writeDailyParquet(w, days) },
	})
}

// WriteLookups prints per-day lookup totals.
func (ow *OutWriter) WriteLookups(stats []schema.LookupStat, cfg *contract.Config) error {
	return ow.dispatch(cfg, "lookup stats", formatters{
		text:    func(w io.Writer) error { return writeLookupsTable(w, stats, cfg) },
		json:    func(w io.Writer) error { return writeJSON(w, stats) },
		csv:     func(w io.Writer) error { return writeLookupsCSV(w, stats, cfg) },
		parquet: func(w io.Writer) error { return writeLookupsParquet(w, stats) },
	})
}

// WriteContributors prints the top contributors.
func (ow *OutWriter) WriteContributors(contributors []schema.Contributor, cfg *contract.Config) error {
	return ow.dispatch(cfg, "contributors", formatters{
		text:    func(w io.Writer) error { return writeContributorsTable(w, contributors, cfg) },
		json:    func(w io.Writer) error { return writeContributorsJSON(w, contributors) },
		csv:     func(w io.Writer) error { return writeContributorsCSV(w, contributors) },
		parquet: func(w io.Writer) error { return writeContributorsParquet(w, contributors) },
	})
}

// WriteStatus prints the store status.
func (ow *OutWriter) WriteStatus(status schema.StoreStatus, cfg *contract.Config) error {
	return ow.dispatch(cfg, "store status", formatters{
		text: func(w io.Writer) error { return writeStatusText(w, status) },
		json: func(w io.Writer) error { return writeJSON(w, status) },
		csv:  func(w io.Writer) error { return writeStatusCSV(w, status) },
	})
}

// formatters holds one writer per output mode. A nil entry means the mode is unsupported.
type formatters struct {
	text    func(io.Writer) error
	json    func(io.Writer) error
	csv     func(io.Writer) error
	parquet func(io.Writer) error
}

// dispatch picks the formatter for cfg.Output and runs it against the selected destination.
func (ow *OutWriter) dispatch(cfg *contract.Config, what string, f formatters) error {
	var fn func(io.Writer) error
	var label string
	switch cfg.Output {
	case schema.JSONOut:
		fn, label = f.json, "JSON"
	case schema.CSVOut:
		fn, label = f.csv, "CSV"
	case schema.ParquetOut:
		fn, label = f.parquet, "Parquet"
	default:
		// Default to human-readable table
		fn, label = f.text, "table"
	}
	if fn == nil {
		return fmt.Errorf("%s output is not supported for %s", cfg.Output, what)
	}
	if err := ow.writeWithFile(cfg.OutputFile, fn, fmt.Sprintf("Wrote %s %s", label, what)); err != nil {
		return fmt.Errorf("error writing %s output: %w", label, err)
	}
	return nil
}
