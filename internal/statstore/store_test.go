package statstore

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/huangsam/fpstats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *StoreImpl {
	t.Helper()
	store, err := NewStatsStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStatsStore_NoneBackend(t *testing.T) {
	ctx := context.Background()
	store, err := NewStatsStore(schema.NoneBackend, "")
	require.NoError(t, err)

	points, err := store.FetchSeries(ctx, schema.StatSubmissionAll, 10)
	assert.NoError(t, err)
	assert.Empty(t, points)

	date, values, err := store.CurrentStats(ctx)
	assert.NoError(t, err)
	assert.Empty(t, date)
	assert.Empty(t, values)

	assert.NoError(t, store.RecordStat(ctx, "x", "2024-01-01", 1))
	assert.NoError(t, store.RecordLookups(ctx, 1, "2024-01-01", 3, 1, 1))

	_, err = store.GetFingerprint(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestStatsStore_UnsupportedBackend(t *testing.T) {
	_, err := NewStatsStore("oracle", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store backend")
}

func TestStatsStore_SeriesRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	for _, r := range []schema.StatRow{
		{Name: schema.StatSubmissionAll, Date: "2024-03-08", Value: 10},
		{Name: schema.StatSubmissionAll, Date: "2024-03-09", Value: 15},
		{Name: schema.StatSubmissionAll, Date: "2024-03-10", Value: 21},
		{Name: schema.StatTrackAll, Date: "2024-03-10", Value: 4},
	} {
		require.NoError(t, store.RecordStat(ctx, r.Name, r.Date, r.Value))
	}

	t.Run("newest first with limit", func(t *testing.T) {
		points, err := store.FetchSeries(ctx, schema.StatSubmissionAll, 2)
		require.NoError(t, err)
		assert.Equal(t, []schema.SeriesPoint{
			{Date: "2024-03-10", Value: 21},
			{Date: "2024-03-09", Value: 15},
		}, points)
	})

	t.Run("unknown series is empty", func(t *testing.T) {
		points, err := store.FetchSeries(ctx, "nothing.here", 5)
		require.NoError(t, err)
		assert.NotNil(t, points)
		assert.Empty(t, points)
	})

	t.Run("record replaces existing value", func(t *testing.T) {
		require.NoError(t, store.RecordStat(ctx, schema.StatSubmissionAll, "2024-03-10", 30))
		points, err := store.FetchSeries(ctx, schema.StatSubmissionAll, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(30), points[0].Value)
	})

	t.Run("current stats", func(t *testing.T) {
		date, values, err := store.CurrentStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-10", date)
		assert.Equal(t, map[string]int64{schema.StatSubmissionAll: 30, schema.StatTrackAll: 4}, values)
	})

	t.Run("daily values", func(t *testing.T) {
		rows, err := store.DailyValues(ctx, []string{schema.StatSubmissionAll, schema.StatTrackAll}, "2024-03-09")
		require.NoError(t, err)
		assert.Equal(t, []schema.StatRow{
			{Name: schema.StatSubmissionAll, Date: "2024-03-09", Value: 15},
			{Name: schema.StatSubmissionAll, Date: "2024-03-10", Value: 30},
			{Name: schema.StatTrackAll, Date: "2024-03-10", Value: 4},
		}, rows)
	})

	t.Run("all stats", func(t *testing.T) {
		rows, err := store.AllStats(ctx)
		require.NoError(t, err)
		assert.Len(t, rows, 4)
		assert.Equal(t, schema.StatTrackAll, rows[3].Name)
	})
}

func TestStatsStore_RecordStatValidation(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	tests := []struct {
		name  string
		stat  string
		date  string
		value int64
		is    error
	}{
		{name: "negative value", stat: "x", date: "2024-01-01", value: -1, is: ErrNegativeValue},
		{name: "bad date", stat: "x", date: "01/01/2024", value: 1},
		{name: "empty name", stat: "", date: "2024-01-01", value: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.RecordStat(ctx, tt.stat, tt.date, tt.value)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestStatsStore_CurrentStatsEmpty(t *testing.T) {
	date, values, err := newSQLiteStore(t).CurrentStats(context.Background())
	require.NoError(t, err)
	assert.Empty(t, date)
	assert.Empty(t, values)
}

func TestStatsStore_LookupsIncrement(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	require.NoError(t, store.RecordLookups(ctx, 1, "2024-03-09", 10, 5, 1))
	require.NoError(t, store.RecordLookups(ctx, 1, "2024-03-09", 10, 3, 2))
	require.NoError(t, store.RecordLookups(ctx, 2, "2024-03-09", 11, 1, 0))
	require.NoError(t, store.RecordLookups(ctx, 1, "2024-03-10", 0, 7, 7))

	stats, err := store.LookupStats(ctx, "2024-03-09", "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, []schema.LookupStat{{Date: "2024-03-09", Hits: 9, Misses: 3, Total: 12}}, stats)

	stats, err = store.LookupStats(ctx, "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, int64(14), stats[1].Total)

	assert.Error(t, store.RecordLookups(ctx, 1, "2024-03-09", 24, 1, 1))
	assert.ErrorIs(t, store.RecordLookups(ctx, 1, "2024-03-09", 1, -1, 0), ErrNegativeValue)
}

func TestStatsStore_Contributors(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	for _, acct := range []schema.Contributor{
		{Name: "carol", SubmissionCount: 5},
		{Name: "alice", MBUser: "alice_mb", SubmissionCount: 20},
		{Name: "bob", SubmissionCount: 5},
		{Name: "idle", SubmissionCount: 0},
	} {
		require.NoError(t, store.UpsertAccount(ctx, acct))
	}

	top, err := store.TopContributors(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []schema.Contributor{
		{Name: "alice", MBUser: "alice_mb", SubmissionCount: 20},
		{Name: "bob", SubmissionCount: 5},
		{Name: "carol", SubmissionCount: 5},
	}, top)

	require.NoError(t, store.UpsertAccount(ctx, schema.Contributor{Name: "carol", SubmissionCount: 50}))
	top, err = store.TopContributors(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "carol", top[0].Name)

	assert.Error(t, store.UpsertAccount(ctx, schema.Contributor{}))
}

func TestStatsStore_Fingerprints(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	fp := schema.Fingerprint{0, 1, 0xFFFFFFFF, 0x80000000}
	id, err := store.AddFingerprint(ctx, schema.FingerprintRecord{Length: 120, TrackID: 7, Fingerprint: fp})
	require.NoError(t, err)
	assert.Positive(t, id)

	rec, err := store.GetFingerprint(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, 120, rec.Length)
	assert.Equal(t, int64(7), rec.TrackID)
	assert.Equal(t, int64(1), rec.SubmissionCount)
	assert.Equal(t, fp, rec.Fingerprint)

	_, err = store.GetFingerprint(ctx, id+100)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.AddFingerprint(ctx, schema.FingerprintRecord{})
	assert.ErrorIs(t, err, schema.ErrEmptyFingerprint)
}

func TestStatsStore_Snapshot(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	require.NoError(t, store.UpsertAccount(ctx, schema.Contributor{Name: "a", MBUser: "a_mb", SubmissionCount: 2}))
	require.NoError(t, store.UpsertAccount(ctx, schema.Contributor{Name: "b", SubmissionCount: 0}))
	for _, rec := range []schema.FingerprintRecord{
		{Length: 10, TrackID: 1, SubmissionCount: 2, Fingerprint: schema.Fingerprint{1}},
		{Length: 10, TrackID: 1, SubmissionCount: 1, Fingerprint: schema.Fingerprint{2}},
		{Length: 10, TrackID: 2, SubmissionCount: 1, Fingerprint: schema.Fingerprint{3}},
		{Length: 10, Fingerprint: schema.Fingerprint{4}},
	} {
		_, err := store.AddFingerprint(ctx, rec)
		require.NoError(t, err)
	}

	values, err := store.Snapshot(ctx, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{
		schema.StatAccountAll:         2,
		schema.StatAccountMusicBrainz: 1,
		schema.StatAccountActive:      1,
		schema.StatFingerprintAll:     4,
		schema.StatTrackAll:           2,
		schema.StatSubmissionAll:      5,
	}, values)

	date, current, err := store.CurrentStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", date)
	assert.Equal(t, values, current)

	_, err = store.Snapshot(ctx, "today")
	assert.Error(t, err)
}

func TestStatsStore_Status(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	require.NoError(t, store.RecordStat(ctx, "a", "2024-03-01", 1))
	require.NoError(t, store.RecordStat(ctx, "b", "2024-03-05", 1))

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	latest, err := LatestSchemaVersion(schema.SQLiteBackend)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, latest, status.SchemaVersion)
	assert.False(t, status.Dirty)
	assert.Equal(t, 2, status.TotalStats)
	assert.Equal(t, 2, status.DistinctSeries)
	assert.Equal(t, "2024-03-01", status.OldestDate)
	assert.Equal(t, "2024-03-05", status.LatestDate)
	assert.Equal(t, int64(2), status.TableRows[statsTable])

	var buf bytes.Buffer
	PrintStoreStatus(&buf, status)
	assert.Contains(t, buf.String(), "Store Backend: sqlite")
	assert.Contains(t, buf.String(), "Latest Date: 2024-03-05")
	assert.Contains(t, buf.String(), "stats: 2 rows")
}

func TestRebind(t *testing.T) {
	pg := &StoreImpl{backend: schema.PostgreSQLBackend}
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y IN ($2, $3)", pg.rebind("SELECT a FROM t WHERE x = ? AND y IN (?, ?)"))

	lite := &StoreImpl{backend: schema.SQLiteBackend}
	assert.Equal(t, "x = ?", lite.rebind("x = ?"))
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`stats`", quoteTableName("stats", schema.MySQLBackend))
	assert.Equal(t, `"stats"`, quoteTableName("stats", schema.PostgreSQLBackend))
	assert.Equal(t, `"stats"`, quoteTableName("stats", schema.SQLiteBackend))

	assert.NoError(t, validateTableName("stats_lookups"))
	assert.Error(t, validateTableName(""))
	assert.Error(t, validateTableName("stats; DROP TABLE x"))
}

func TestClearStore_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "clear.db")
	store, err := NewStatsStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearStore(schema.SQLiteBackend, dbPath, ""))
	// Removing a missing file is not an error.
	require.NoError(t, ClearStore(schema.SQLiteBackend, dbPath, ""))
	assert.Error(t, ClearStore(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearStore(schema.NoneBackend, "", ""))
}
