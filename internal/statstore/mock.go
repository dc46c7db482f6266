package statstore

import (
	"context"

	"github.com/huangsam/fpstats/internal/contract"
	"github.com/huangsam/fpstats/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetStatsStore implements the StoreManager interface.
func (m *MockStoreManager) GetStatsStore() contract.StatsStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.StatsStore)
	return store
}

// MockStatsStore is a mock implementation of StatsStore for testing.
type MockStatsStore struct {
	mock.Mock
}

var _ contract.StatsStore = &MockStatsStore{} // Compile-time check

// FetchSeries implements the StatsStore interface.
func (m *MockStatsStore) FetchSeries(ctx context.Context, name string, limit int) ([]schema.SeriesPoint, error) {
	args := m.Called(ctx, name, limit)
	points, _ := args.Get(0).([]schema.SeriesPoint)
	return points, args.Error(1)
}

// CurrentStats implements the StatsStore interface.
func (m *MockStatsStore) CurrentStats(ctx context.Context) (string, map[string]int64, error) {
	args := m.Called(ctx)
	values, _ := args.Get(1).(map[string]int64)
	return args.String(0), values, args.Error(2)
}

// DailyValues implements the StatsStore interface.
func (m *MockStatsStore) DailyValues(ctx context.Context, names []string, since string) ([]schema.StatRow, error) {
	args := m.Called(ctx, names, since)
	rows, _ := args.Get(0).([]schema.StatRow)
	return rows, args.Error(1)
}

// RecordStat implements the StatsStore interface.
func (m *MockStatsStore) RecordStat(ctx context.Context, name, date string, value int64) error {
	args := m.Called(ctx, name, date, value)
	return args.Error(0)
}

// AllStats implements the StatsStore interface.
func (m *MockStatsStore) AllStats(ctx context.Context) ([]schema.StatRow, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]schema.StatRow)
	return rows, args.Error(1)
}

// RecordLookups implements the StatsStore interface.
func (m *MockStatsStore) RecordLookups(ctx context.Context, appID int64, date string, hour int, hits, misses int64) error {
	args := m.Called(ctx, appID, date, hour, hits, misses)
	return args.Error(0)
}

// LookupStats implements the StatsStore interface.
func (m *MockStatsStore) LookupStats(ctx context.Context, since, until string) ([]schema.LookupStat, error) {
	args := m.Called(ctx, since, until)
	stats, _ := args.Get(0).([]schema.LookupStat)
	return stats, args.Error(1)
}

// TopContributors implements the StatsStore interface.
func (m *MockStatsStore) TopContributors(ctx context.Context, limit int) ([]schema.Contributor, error) {
	args := m.Called(ctx, limit)
	contributors, _ := args.Get(0).([]schema.Contributor)
	return contributors, args.Error(1)
}

// UpsertAccount implements the StatsStore interface.
func (m *MockStatsStore) UpsertAccount(ctx context.Context, acct schema.Contributor) error {
	args := m.Called(ctx, acct)
	return args.Error(0)
}

// GetFingerprint implements the StatsStore interface.
func (m *MockStatsStore) GetFingerprint(ctx context.Context, id int64) (*schema.FingerprintRecord, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*schema.FingerprintRecord)
	return rec, args.Error(1)
}

// AddFingerprint implements the StatsStore interface.
func (m *MockStatsStore) AddFingerprint(ctx context.Context, rec schema.FingerprintRecord) (int64, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(int64), args.Error(1)
}

// Snapshot implements the StatsStore interface.
func (m *MockStatsStore) Snapshot(ctx context.Context, date string) (map[string]int64, error) {
	args := m.Called(ctx, date)
	values, _ := args.Get(0).(map[string]int64)
	return values, args.Error(1)
}

// GetStatus implements the StatsStore interface.
func (m *MockStatsStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the StatsStore interface.
func (m *MockStatsStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
