package statstore

import (
	"context"
	"fmt"

	"github.com/huangsam/fpstats/schema"
)

// snapshotQuery computes one derived counter from the store's own tables.
type snapshotQuery struct {
	name  string
	query func(s *StoreImpl) string
}

var snapshotQueries = []snapshotQuery{
	{schema.StatAccountAll, func(s *StoreImpl) string {
		return fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table(accountTable))
	}},
	{schema.StatAccountMusicBrainz, func(s *StoreImpl) string {
		return fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE mbuser IS NOT NULL AND mbuser <> ''`, s.table(accountTable))
	}},
	{schema.StatAccountActive, func(s *StoreImpl) string {
		return fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE submission_count > 0`, s.table(accountTable))
	}},
	{schema.StatFingerprintAll, func(s *StoreImpl) string {
		return fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table(fingerprintTable))
	}},
	{schema.StatTrackAll, func(s *StoreImpl) string {
		return fmt.Sprintf(`SELECT COUNT(DISTINCT track_id) FROM %s WHERE track_id IS NOT NULL`, s.table(fingerprintTable))
	}},
	{schema.StatSubmissionAll, func(s *StoreImpl) string {
		return fmt.Sprintf(`SELECT %s FROM %s`, s.sum("submission_count"), s.table(fingerprintTable))
	}},
}

// Snapshot recomputes the derived counters and records them for date in one transaction.
func (s *StoreImpl) Snapshot(ctx context.Context, date string) (map[string]int64, error) {
	values := make(map[string]int64, len(snapshotQueries))
	if s.disabled() {
		return values, nil
	}
	if _, err := schema.ParseDay(date); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, sq := range snapshotQueries {
		var v int64
		if err := tx.QueryRowContext(ctx, sq.query(s)).Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to compute %s: %w", sq.name, err)
		}
		if err := s.recordStat(ctx, tx, sq.name, date, v); err != nil {
			return nil, err
		}
		values[sq.name] = v
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return values, nil
}
