package core

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/fpstats/core/chart"
	"github.com/huangsam/fpstats/internal/contract"
	"github.com/huangsam/fpstats/internal/statstore"
	"github.com/huangsam/fpstats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 10, 15, 4, 5, 0, time.UTC)

func fixedCtx() context.Context {
	return WithClock(context.Background(), func() time.Time { return fixedNow })
}

func newManager(store *statstore.MockStatsStore) *statstore.MockStoreManager {
	mgr := &statstore.MockStoreManager{}
	mgr.On("GetStatsStore").Return(store)
	return mgr
}

func TestPercent(t *testing.T) {
	tests := []struct {
		x, total int64
		want     string
	}{
		{1, 3, "33.33"},
		{0, 0, "0.00"},
		{5, 0, "0.00"},
		{2, 2, "100.00"},
		{1, 8, "12.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.x, tt.total), "Percent(%d, %d)", tt.x, tt.total)
	}
}

func TestGetOverview(t *testing.T) {
	ctx := fixedCtx()
	cfg := &contract.Config{ChartBaseURL: chart.DefaultBaseURL}

	t.Run("full dashboard", func(t *testing.T) {
		store := &statstore.MockStatsStore{}
		store.On("CurrentStats", mock.Anything).Return("2024-03-10", map[string]int64{
			schema.StatSubmissionAll:       100,
			schema.StatSubmissionUnhandled: 4,
			schema.StatFingerprintAll:      90,
			schema.StatTrackAll:            50,
			schema.StatTrackNoMBID:         25,
			schema.StatTrackMBIDUnique:     30,
			schema.StatAccountActive:       7,
			"track.1mbids":                 3,
			"track.2mbids":                 1,
			"mbid.1tracks":                 2,
		}, nil)
		store.On("FetchSeries", mock.Anything, schema.StatSubmissionAll, OverviewGraphDays+5).Return([]schema.SeriesPoint{
			{Date: "2024-03-10", Value: 110},
			{Date: "2024-03-09", Value: 100},
		}, nil)
		store.On("FetchSeries", mock.Anything, schema.StatFingerprintAll, OverviewGraphDays+5).Return([]schema.SeriesPoint{}, nil)

		ov, err := GetOverview(ctx, store, NewChartBuilder(ctx, store, cfg))
		require.NoError(t, err)

		assert.Equal(t, "2024-03-10", ov.Date)
		assert.Equal(t, schema.BasicStats{
			Submissions:           100,
			QueuedSubmissions:     4,
			Fingerprints:          90,
			Tracks:                50,
			MBIDs:                 30,
			Contributors:          7,
			TracksWithMBID:        25,
			TracksWithMBIDPercent: "50.00",
		}, ov.Basic)

		require.Len(t, ov.TrackMBIDs, schema.BucketCount)
		assert.Equal(t, schema.BucketShare{Bucket: 1, Count: 3, Percent: "75.00"}, ov.TrackMBIDs[0])
		assert.Equal(t, schema.BucketShare{Bucket: 2, Count: 1, Percent: "25.00"}, ov.TrackMBIDs[1])
		assert.Equal(t, schema.BucketShare{Bucket: 3, Count: 0, Percent: "0.00"}, ov.TrackMBIDs[2])
		assert.Equal(t, "100.00", ov.MBIDTracks[0].Percent)

		sub := ov.Graphs[schema.StatSubmissionAll]
		require.NotNil(t, sub.Graph)
		assert.Empty(t, sub.Error)
		assert.Equal(t, OverviewGraphDays, sub.Graph.Days)
		assert.True(t, strings.HasPrefix(sub.Graph.URL, chart.DefaultBaseURL+"?"))

		fp := ov.Graphs[schema.StatFingerprintAll]
		assert.Nil(t, fp.Graph)
		assert.Equal(t, "fingerprint.all: "+chart.ErrEmptySeries.Error(), fp.Error)
		store.AssertExpectations(t)
	})

	t.Run("mbid.all wins over track_mbid.unique", func(t *testing.T) {
		assert.Equal(t, int64(9), basicStats(map[string]int64{
			schema.StatMBIDAll:         9,
			schema.StatTrackMBIDUnique: 30,
		}).MBIDs)
	})

	t.Run("empty store", func(t *testing.T) {
		store := &statstore.MockStatsStore{}
		store.On("CurrentStats", mock.Anything).Return("", map[string]int64{}, nil)

		ov, err := GetOverview(ctx, store, NewChartBuilder(ctx, store, cfg))
		require.NoError(t, err)
		assert.Empty(t, ov.Date)
		assert.Nil(t, ov.Graphs)
		store.AssertNotCalled(t, "FetchSeries", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store error", func(t *testing.T) {
		store := &statstore.MockStatsStore{}
		store.On("CurrentStats", mock.Anything).Return("", nil, assert.AnError)

		_, err := GetOverview(ctx, store, NewChartBuilder(ctx, store, cfg))
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestComputeDailyAdditions(t *testing.T) {
	t.Run("deltas against the previous row", func(t *testing.T) {
		rows := []schema.StatRow{
			{Name: "submission.all", Date: "2024-03-10", Value: 105},
			{Name: "mbid.all", Date: "2024-03-10", Value: 7},
			{Name: "submission.all", Date: "2024-03-08", Value: 100},
			{Name: "track.all", Date: "2024-03-08", Value: 10},
			{Name: "submission.all", Date: "2024-03-09", Value: 105},
			{Name: "track.all", Date: "2024-03-09", Value: 12},
		}
		got := computeDailyAdditions(rows)
		assert.Equal(t, []schema.DailyAddition{
			{Date: "2024-03-09", Values: map[string]int64{"submission.all": 5, "track.all": 2}},
			{Date: "2024-03-10", Values: map[string]int64{"submission.all": 0, "mbid.all": 7}},
		}, got)
	})

	t.Run("shrinking series", func(t *testing.T) {
		got := computeDailyAdditions([]schema.StatRow{
			{Name: "account.active", Date: "2024-03-01", Value: 10},
			{Name: "account.active", Date: "2024-03-02", Value: 6},
		})
		require.Len(t, got, 1)
		assert.Equal(t, int64(-4), got[0].Values["account.active"])
	})

	t.Run("not enough dates", func(t *testing.T) {
		assert.Empty(t, computeDailyAdditions(nil))
		assert.NotNil(t, computeDailyAdditions(nil))
		assert.Empty(t, computeDailyAdditions([]schema.StatRow{{Name: "a", Date: "2024-03-01", Value: 1}}))
	})
}

func TestGetDailyAdditions(t *testing.T) {
	ctx := fixedCtx()

	t.Run("defaults", func(t *testing.T) {
		store := &statstore.MockStatsStore{}
		store.On("DailyValues", mock.Anything, schema.DefaultDailyNames, "2024-02-09").Return([]schema.StatRow{}, nil)

		got, err := GetDailyAdditions(ctx, store, nil, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
		store.AssertExpectations(t)
	})

	t.Run("store error", func(t *testing.T) {
		store := &statstore.MockStatsStore{}
		store.On("DailyValues", mock.Anything, []string{"a"}, "2024-03-04").Return(nil, assert.AnError)

		_, err := GetDailyAdditions(ctx, store, []string{"a"}, 7)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestGetLookupStats(t *testing.T) {
	store := &statstore.MockStatsStore{}
	want := []schema.LookupStat{{Date: "2024-03-09", Hits: 3, Misses: 1, Total: 4}}
	store.On("LookupStats", mock.Anything, "2024-03-04", "2024-03-10").Return(want, nil)

	got, err := GetLookupStats(fixedCtx(), store, 7)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	store.AssertExpectations(t)
}

func TestImportStats(t *testing.T) {
	ctx := context.Background()

	t.Run("header and rows", func(t *testing.T) {
		store := &statstore.MockStatsStore{}
		store.On("RecordStat", mock.Anything, "submission.all", "2024-03-01", int64(5)).Return(nil).Once()
		store.On("RecordStat", mock.Anything, "track.all", "2024-03-01", int64(7)).Return(nil).Once()

		in := "name,date,value\nsubmission.all,2024-03-01,5\ntrack.all, 2024-03-01, 7\n"
		result, err := ImportStats(ctx, store, strings.NewReader(in))
		require.NoError(t, err)
		assert.Equal(t, ImportResult{Rows: 2, Skipped: 1}, result)
		store.AssertExpectations(t)
	})

	t.Run("invalid value", func(t *testing.T) {
		store := &statstore.MockStatsStore{}
		_, err := ImportStats(ctx, store, strings.NewReader("submission.all,2024-03-01,many\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 1")
	})

	t.Run("wrong field count", func(t *testing.T) {
		store := &statstore.MockStatsStore{}
		_, err := ImportStats(ctx, store, strings.NewReader("submission.all,2024-03-01\n"))
		assert.Error(t, err)
	})

	t.Run("store error stops the import", func(t *testing.T) {
		store := &statstore.MockStatsStore{}
		store.On("RecordStat", mock.Anything, "a", "2024-03-01", int64(-1)).Return(statstore.ErrNegativeValue)

		result, err := ImportStats(ctx, store, strings.NewReader("a,2024-03-01,-1\nb,2024-03-01,1\n"))
		assert.ErrorIs(t, err, statstore.ErrNegativeValue)
		assert.Zero(t, result.Rows)
	})
}

func TestExecuteRecordStat(t *testing.T) {
	store := &statstore.MockStatsStore{}
	store.On("RecordStat", mock.Anything, "track.all", "2024-03-01", int64(12)).Return(nil)
	mgr := newManager(store)

	require.NoError(t, ExecuteRecordStat(context.Background(), mgr, "track.all", "2024-03-01", "12"))
	assert.Error(t, ExecuteRecordStat(context.Background(), mgr, "track.all", "2024-03-01", "x"))
	store.AssertNumberOfCalls(t, "RecordStat", 1)
}

func TestExecuteSnapshotDefaultsToToday(t *testing.T) {
	store := &statstore.MockStatsStore{}
	store.On("Snapshot", mock.Anything, "2024-03-10").Return(map[string]int64{"account.all": 2}, nil)

	require.NoError(t, ExecuteSnapshot(fixedCtx(), newManager(store), ""))
	store.AssertExpectations(t)
}

func TestLoadFingerprint(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "fp.txt")
	require.NoError(t, os.WriteFile(path, []byte("DURATION=183\nFINGERPRINT=1,2,3\n"), 0o644))

	t.Run("file", func(t *testing.T) {
		fp, err := LoadFingerprint(ctx, nil, path, false, nil)
		require.NoError(t, err)
		assert.Equal(t, schema.Fingerprint{1, 2, 3}, fp)
	})

	t.Run("stdin", func(t *testing.T) {
		fp, err := LoadFingerprint(ctx, nil, "-", false, strings.NewReader("{-1,0}"))
		require.NoError(t, err)
		assert.Equal(t, schema.Fingerprint{0xFFFFFFFF, 0}, fp)
	})

	t.Run("store id", func(t *testing.T) {
		store := &statstore.MockStatsStore{}
		store.On("GetFingerprint", mock.Anything, int64(42)).Return(&schema.FingerprintRecord{ID: 42, Fingerprint: schema.Fingerprint{7}}, nil)

		fp, err := LoadFingerprint(ctx, store, "42", true, nil)
		require.NoError(t, err)
		assert.Equal(t, schema.Fingerprint{7}, fp)
	})

	t.Run("store miss", func(t *testing.T) {
		store := &statstore.MockStatsStore{}
		store.On("GetFingerprint", mock.Anything, int64(9)).Return(nil, statstore.ErrNotFound)

		_, err := LoadFingerprint(ctx, store, "9", true, nil)
		assert.ErrorIs(t, err, statstore.ErrNotFound)
	})

	t.Run("non-integer with from-store reads the file", func(t *testing.T) {
		fp, err := LoadFingerprint(ctx, &statstore.MockStatsStore{}, path, true, nil)
		require.NoError(t, err)
		assert.Len(t, fp, 3)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFingerprint(ctx, nil, filepath.Join(dir, "nope"), false, nil)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := LoadFingerprint(ctx, nil, "-", false, strings.NewReader("1,two"))
		assert.Error(t, err)
	})
}

func TestFpcalcDuration(t *testing.T) {
	assert.Equal(t, 183, fpcalcDuration("DURATION=183\nFINGERPRINT=1"))
	assert.Equal(t, 12, fpcalcDuration("FILE=a.mp3\nDURATION=12.7\n"))
	assert.Equal(t, 0, fpcalcDuration("1,2,3"))
}

func TestDiffPNG(t *testing.T) {
	fp := schema.Fingerprint{1, 2, 3}

	data, report, err := DiffPNG(fp, fp, 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\x89PNG"))
	assert.Equal(t, DiffReport{Offset: 0, Width: 100, Height: 3, Overlap: 3, BitErrorRate: 0}, report)

	_, report, err = DiffPNG(schema.Fingerprint{0, 0}, schema.Fingerprint{0xFFFFFFFF, 0xFFFFFFFF}, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Height)
	assert.Equal(t, 1, report.Overlap)
	assert.InDelta(t, 1.0, report.BitErrorRate, 1e-9)
}

func TestDiffPNGOffsetBounds(t *testing.T) {
	fp1 := schema.Fingerprint{1, 2, 3}
	fp2 := schema.Fingerprint{1, 2}

	tests := []struct {
		name    string
		offset  int
		wantErr bool
	}{
		{"longest forward", 3, false},
		{"longest backward", -3, false},
		{"past end", 4, true},
		{"past start", -4, true},
		{"huge", 1 << 40, true},
		{"min int", math.MinInt, true},
		{"max int", math.MaxInt, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, report, err := DiffPNG(fp1, fp2, tt.offset)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOffsetOutOfRange)
				assert.Nil(t, data)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, report.Overlap)
			assert.Equal(t, 6, report.Height)
		})
	}
}

func TestExecuteFingerprintRequiresPNGFile(t *testing.T) {
	mgr := newManager(&statstore.MockStatsStore{})
	cfg := &contract.Config{}
	assert.ErrorIs(t, ExecuteRenderFingerprint(context.Background(), cfg, mgr, "-"), ErrNoPNGFile)
	assert.ErrorIs(t, ExecuteDiffFingerprints(context.Background(), cfg, mgr, "-", "-"), ErrNoPNGFile)
}

func TestExecuteRenderFingerprint(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "fp.txt")
	require.NoError(t, os.WriteFile(in, []byte("1,2"), 0o644))
	cfg := &contract.Config{PNGFile: filepath.Join(dir, "out.png")}

	require.NoError(t, ExecuteRenderFingerprint(context.Background(), cfg, newManager(&statstore.MockStatsStore{}), in))
	data, err := os.ReadFile(cfg.PNGFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\x89PNG"))
}
