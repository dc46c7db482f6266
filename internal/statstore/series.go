package statstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/huangsam/fpstats/schema"
)

// FetchSeries returns up to limit points of the named series, newest first.
func (s *StoreImpl) FetchSeries(ctx context.Context, name string, limit int) ([]schema.SeriesPoint, error) {
	if s.disabled() || limit <= 0 {
		return []schema.SeriesPoint{}, nil
	}

	query := s.rebind(fmt.Sprintf(`SELECT date, value FROM %s WHERE name = ? ORDER BY date DESC LIMIT ?`, s.table(statsTable)))
	rows, err := s.db.QueryContext(ctx, query, name, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch series %s: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	points := []schema.SeriesPoint{}
	for rows.Next() {
		var p schema.SeriesPoint
		if err := rows.Scan(&p.Date, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan series %s: %w", name, err)
		}
		p.Date = schema.NormalizeDay(p.Date)
		points = append(points, p)
	}
	return points, rows.Err()
}

// CurrentStats returns the latest stats date and every value recorded on it.
func (s *StoreImpl) CurrentStats(ctx context.Context) (string, map[string]int64, error) {
	values := map[string]int64{}
	if s.disabled() {
		return "", values, nil
	}

	var latest sql.NullString
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT MAX(date) FROM %s`, s.table(statsTable)))
	if err := row.Scan(&latest); err != nil {
		return "", nil, fmt.Errorf("failed to get latest stats date: %w", err)
	}
	if !latest.Valid || latest.String == "" {
		return "", values, nil
	}
	date := schema.NormalizeDay(latest.String)

	query := s.rebind(fmt.Sprintf(`SELECT name, value FROM %s WHERE date = ?`, s.table(statsTable)))
	rows, err := s.db.QueryContext(ctx, query, date)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get stats for %s: %w", date, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name string
		var value int64
		if err := rows.Scan(&name, &value); err != nil {
			return "", nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		values[name] = value
	}
	return date, values, rows.Err()
}

// DailyValues returns rows of the given series dated on or after since,
// ordered by date then name.
func (s *StoreImpl) DailyValues(ctx context.Context, names []string, since string) ([]schema.StatRow, error) {
	if s.disabled() || len(names) == 0 {
		return []schema.StatRow{}, nil
	}

	args := make([]any, 0, len(names)+1)
	for _, n := range names {
		args = append(args, n)
	}
	args = append(args, since)

	query := s.rebind(fmt.Sprintf(`SELECT name, date, value FROM %s WHERE name IN (%s) AND date >= ? ORDER BY date, name`,
		s.table(statsTable), placeholders(len(names))))
	return s.queryStatRows(ctx, query, args...)
}

// AllStats returns every stats row ordered by name then date.
func (s *StoreImpl) AllStats(ctx context.Context) ([]schema.StatRow, error) {
	if s.disabled() {
		return []schema.StatRow{}, nil
	}
	query := fmt.Sprintf(`SELECT name, date, value FROM %s ORDER BY name, date`, s.table(statsTable))
	return s.queryStatRows(ctx, query)
}

func (s *StoreImpl) queryStatRows(ctx context.Context, query string, args ...any) ([]schema.StatRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []schema.StatRow{}
	for rows.Next() {
		var r schema.StatRow
		if err := rows.Scan(&r.Name, &r.Date, &r.Value); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		r.Date = schema.NormalizeDay(r.Date)
		result = append(result, r)
	}
	return result, rows.Err()
}

// RecordStat inserts or replaces the value of a series on one date.
func (s *StoreImpl) RecordStat(ctx context.Context, name, date string, value int64) error {
	if s.disabled() {
		return nil
	}
	return s.recordStat(ctx, s.db, name, date, value)
}

func (s *StoreImpl) recordStat(ctx context.Context, ex execer, name, date string, value int64) error {
	if name == "" {
		return errors.New("stat name cannot be empty")
	}
	if value < 0 {
		return fmt.Errorf("%s on %s: %w", name, date, ErrNegativeValue)
	}
	if _, err := schema.ParseDay(date); err != nil {
		return err
	}

	if _, err := ex.ExecContext(ctx, s.statUpsertQuery(), name, date, value); err != nil {
		return fmt.Errorf("failed to record %s on %s: %w", name, date, err)
	}
	return nil
}

// statUpsertQuery returns the UPSERT query for the stats table.
func (s *StoreImpl) statUpsertQuery() string {
	table := s.table(statsTable)
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (name, date, value) VALUES (?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE value = new.value`, table)
	default: // SQLite and PostgreSQL
		return s.rebind(fmt.Sprintf(`INSERT INTO %s (name, date, value) VALUES (?, ?, ?)
			ON CONFLICT (name, date) DO UPDATE SET value = excluded.value`, table))
	}
}
