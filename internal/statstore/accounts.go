package statstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/huangsam/fpstats/schema"
)

// TopContributors returns active accounts ordered by submission count, then name.
func (s *StoreImpl) TopContributors(ctx context.Context, limit int) ([]schema.Contributor, error) {
	if s.disabled() || limit <= 0 {
		return []schema.Contributor{}, nil
	}

	query := s.rebind(fmt.Sprintf(`SELECT name, mbuser, submission_count FROM %s
		WHERE submission_count > 0 ORDER BY submission_count DESC, name LIMIT ?`, s.table(accountTable)))
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query contributors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []schema.Contributor{}
	for rows.Next() {
		var c schema.Contributor
		var mbuser sql.NullString
		if err := rows.Scan(&c.Name, &mbuser, &c.SubmissionCount); err != nil {
			return nil, fmt.Errorf("failed to scan contributor: %w", err)
		}
		c.MBUser = mbuser.String
		result = append(result, c)
	}
	return result, rows.Err()
}

// UpsertAccount inserts an account or updates the one with the same name.
func (s *StoreImpl) UpsertAccount(ctx context.Context, acct schema.Contributor) error {
	if s.disabled() {
		return nil
	}
	if acct.Name == "" {
		return errors.New("account name cannot be empty")
	}
	if acct.SubmissionCount < 0 {
		return fmt.Errorf("account %s: %w", acct.Name, ErrNegativeValue)
	}

	mbuser := sql.NullString{String: acct.MBUser, Valid: acct.MBUser != ""}
	if _, err := s.db.ExecContext(ctx, s.accountUpsertQuery(), acct.Name, mbuser, acct.SubmissionCount); err != nil {
		return fmt.Errorf("failed to upsert account %s: %w", acct.Name, err)
	}
	return nil
}

func (s *StoreImpl) accountUpsertQuery() string {
	table := s.table(accountTable)
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (name, mbuser, submission_count) VALUES (?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE mbuser = new.mbuser, submission_count = new.submission_count`, table)
	default: // SQLite and PostgreSQL
		return s.rebind(fmt.Sprintf(`INSERT INTO %s (name, mbuser, submission_count) VALUES (?, ?, ?)
			ON CONFLICT (name) DO UPDATE SET mbuser = excluded.mbuser, submission_count = excluded.submission_count`, table))
	}
}
