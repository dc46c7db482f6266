package statstore

import (
	"context"
	"fmt"

	"github.com/huangsam/fpstats/schema"
)

// RecordLookups adds hits and misses to the counters of one application hour.
func (s *StoreImpl) RecordLookups(ctx context.Context, appID int64, date string, hour int, hits, misses int64) error {
	if s.disabled() {
		return nil
	}
	if hits < 0 || misses < 0 {
		return fmt.Errorf("lookups for app %d: %w", appID, ErrNegativeValue)
	}
	if hour < 0 || hour > 23 {
		return fmt.Errorf("hour must be between 0 and 23 (received %d)", hour)
	}
	if _, err := schema.ParseDay(date); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, s.lookupUpsertQuery(), appID, date, hour, hits, misses); err != nil {
		return fmt.Errorf("failed to record lookups for app %d at %s %02d: %w", appID, date, hour, err)
	}
	return nil
}

// lookupUpsertQuery returns an UPSERT that increments the existing counters.
func (s *StoreImpl) lookupUpsertQuery() string {
	table := s.table(lookupsTable)
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (application_id, date, hour, count_hits, count_nohits) VALUES (?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE count_hits = %s.count_hits + new.count_hits, count_nohits = %s.count_nohits + new.count_nohits`,
			table, table, table)
	default: // SQLite and PostgreSQL
		return s.rebind(fmt.Sprintf(`INSERT INTO %s (application_id, date, hour, count_hits, count_nohits) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (application_id, date, hour) DO UPDATE SET
				count_hits = %s.count_hits + excluded.count_hits,
				count_nohits = %s.count_nohits + excluded.count_nohits`,
			table, table, table))
	}
}

// LookupStats returns per-day totals for since <= date < until, oldest first.
func (s *StoreImpl) LookupStats(ctx context.Context, since, until string) ([]schema.LookupStat, error) {
	if s.disabled() {
		return []schema.LookupStat{}, nil
	}

	query := s.rebind(fmt.Sprintf(`SELECT date, %s, %s FROM %s WHERE date >= ? AND date < ? GROUP BY date ORDER BY date`,
		s.sum("count_hits"), s.sum("count_nohits"), s.table(lookupsTable)))
	rows, err := s.db.QueryContext(ctx, query, since, until)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookup stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	stats := []schema.LookupStat{}
	for rows.Next() {
		var st schema.LookupStat
		if err := rows.Scan(&st.Date, &st.Hits, &st.Misses); err != nil {
			return nil, fmt.Errorf("failed to scan lookup stats: %w", err)
		}
		st.Date = schema.NormalizeDay(st.Date)
		st.Total = st.Hits + st.Misses
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
