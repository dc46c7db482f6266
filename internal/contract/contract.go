// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/fpstats/schema"
)

// SeriesStore holds the daily statistic series.
type SeriesStore interface {
	// FetchSeries returns up to limit points of the named series, newest first.
	// An unknown name yields an empty slice.
	FetchSeries(ctx context.Context, name string, limit int) ([]schema.SeriesPoint, error)

	// CurrentStats returns the most recent stats date and every value recorded on it.
	// Both are empty when the table has no rows.
	CurrentStats(ctx context.Context) (string, map[string]int64, error)

	// DailyValues returns rows of the given series dated on or after since, ordered by date then name.
	DailyValues(ctx context.Context, names []string, since string) ([]schema.StatRow, error)

	// RecordStat inserts or replaces the value of a series on one date.
	RecordStat(ctx context.Context, name, date string, value int64) error

	// AllStats returns every stats row, ordered by name then date.
	AllStats(ctx context.Context) ([]schema.StatRow, error)
}

// LookupSink receives drained lookup counters.
type LookupSink interface {
	// RecordLookups adds hits and misses to the counters of one application hour.
	RecordLookups(ctx context.Context, appID int64, date string, hour int, hits, misses int64) error
}

// LookupStore keeps per-hour lookup counters.
type LookupStore interface {
	LookupSink

	// LookupStats returns per-day totals for since <= date < until, oldest first.
	LookupStats(ctx context.Context, since, until string) ([]schema.LookupStat, error)
}

// AccountStore keeps contributor accounts.
type AccountStore interface {
	TopContributors(ctx context.Context, limit int) ([]schema.Contributor, error)
	UpsertAccount(ctx context.Context, acct schema.Contributor) error
}

// FingerprintStore keeps submitted fingerprints.
type FingerprintStore interface {
	GetFingerprint(ctx context.Context, id int64) (*schema.FingerprintRecord, error)
	AddFingerprint(ctx context.Context, rec schema.FingerprintRecord) (int64, error)
}

// StatsStore is the full persistence contract of fpstats.
// This allows mocking the store for testing.
type StatsStore interface {
	SeriesStore
	LookupStore
	AccountStore
	FingerprintStore

	// Snapshot recomputes the counters derivable from the store's own tables
	// and records them for date. It returns the values it wrote.
	Snapshot(ctx context.Context, date string) (map[string]int64, error)

	// GetStatus returns status information about the store.
	GetStatus(ctx context.Context) (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// StoreManager hands out the process-wide store.
type StoreManager interface {
	GetStatsStore() StatsStore
}
