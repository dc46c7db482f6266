package statstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/huangsam/fpstats/schema"
)

// GetStatus returns status information about the stats store.
func (s *StoreImpl) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
		TableRows: map[string]int64{},
	}
	if s.disabled() {
		return status, nil
	}

	var version int64
	var dirty bool
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT version, dirty FROM %s`, s.table(migrationsTable)))
	if err := row.Scan(&version, &dirty); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return status, fmt.Errorf("failed to get schema version: %w", err)
	}
	status.SchemaVersion = uint(version)
	status.Dirty = dirty

	stats := s.table(statsTable)
	row = s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*), COUNT(DISTINCT name) FROM %s`, stats))
	if err := row.Scan(&status.TotalStats, &status.DistinctSeries); err != nil {
		return status, fmt.Errorf("failed to count stats: %w", err)
	}

	if status.TotalStats > 0 {
		var oldest, latest sql.NullString
		row = s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT MIN(date), MAX(date) FROM %s`, stats))
		if err := row.Scan(&oldest, &latest); err != nil {
			return status, fmt.Errorf("failed to get stats date range: %w", err)
		}
		status.OldestDate = schema.NormalizeDay(oldest.String)
		status.LatestDate = schema.NormalizeDay(latest.String)
	}

	for _, table := range []string{statsTable, lookupsTable, accountTable, fingerprintTable} {
		var count int64
		row = s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table(table)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to count rows of %s: %w", table, err)
		}
		status.TableRows[table] = count
	}

	return status, nil
}

// PrintStoreStatus prints store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Schema Version: %d", status.SchemaVersion)
	if status.Dirty {
		_, _ = fmt.Fprint(w, " (dirty)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Total Stats: %d across %d series\n", status.TotalStats, status.DistinctSeries)
	if status.TotalStats > 0 {
		_, _ = fmt.Fprintf(w, "Oldest Date: %s\n", status.OldestDate)
		_, _ = fmt.Fprintf(w, "Latest Date: %s\n", status.LatestDate)
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	tables := make([]string, 0, len(status.TableRows))
	for table := range status.TableRows {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableRows[table])
	}
}
