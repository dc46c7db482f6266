package statstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/huangsam/fpstats/schema"
)

// GetFingerprint loads one stored fingerprint by id.
func (s *StoreImpl) GetFingerprint(ctx context.Context, id int64) (*schema.FingerprintRecord, error) {
	if s.disabled() {
		return nil, fmt.Errorf("fingerprint %d: %w", id, ErrNotFound)
	}

	query := s.rebind(fmt.Sprintf(`SELECT id, track_id, length, submission_count, fingerprint FROM %s WHERE id = ?`,
		s.table(fingerprintTable)))

	var rec schema.FingerprintRecord
	var trackID sql.NullInt64
	var raw string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&rec.ID, &trackID, &rec.Length, &rec.SubmissionCount, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("fingerprint %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load fingerprint %d: %w", id, err)
	}

	rec.TrackID = trackID.Int64
	if rec.Fingerprint, err = schema.ParseFingerprint(raw); err != nil {
		return nil, fmt.Errorf("fingerprint %d is corrupt: %w", id, err)
	}
	return &rec, nil
}

// AddFingerprint stores a new fingerprint and returns its id.
// A zero TrackID is stored as NULL and a zero SubmissionCount as 1.
func (s *StoreImpl) AddFingerprint(ctx context.Context, rec schema.FingerprintRecord) (int64, error) {
	if s.disabled() {
		return 0, nil
	}
	if len(rec.Fingerprint) == 0 {
		return 0, schema.ErrEmptyFingerprint
	}
	if rec.Length < 0 || rec.SubmissionCount < 0 {
		return 0, fmt.Errorf("fingerprint record: %w", ErrNegativeValue)
	}
	if rec.SubmissionCount == 0 {
		rec.SubmissionCount = 1
	}

	trackID := sql.NullInt64{Int64: rec.TrackID, Valid: rec.TrackID > 0}
	args := []any{trackID, rec.Length, rec.SubmissionCount, schema.FormatFingerprint(rec.Fingerprint)}
	query := s.rebind(fmt.Sprintf(`INSERT INTO %s (track_id, length, submission_count, fingerprint) VALUES (?, ?, ?, ?)`,
		s.table(fingerprintTable)))

	if s.backend == schema.PostgreSQLBackend {
		var id int64
		if err := s.db.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to add fingerprint: %w", err)
		}
		return id, nil
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to add fingerprint: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read fingerprint id: %w", err)
	}
	return id, nil
}
