package core

import (
	"context"
	"fmt"

	"github.com/huangsam/fpstats/core/chart"
	"github.com/huangsam/fpstats/internal/contract"
	"github.com/huangsam/fpstats/schema"
)

// OverviewGraphDays is the window of the graphs attached to the overview.
const OverviewGraphDays = 60

// overviewGraphs are the series plotted on the overview.
var overviewGraphs = []string{schema.StatSubmissionAll, schema.StatFingerprintAll}

// Percent formats x as a percentage of total with two decimals.
// A zero total yields "0.00".
func Percent(x, total int64) string {
	if total == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", 100*float64(x)/float64(total))
}

// NewChartBuilder returns a chart builder over store configured from cfg.
func NewChartBuilder(ctx context.Context, store chart.SeriesFetcher, cfg *contract.Config) *chart.Builder {
	return chart.NewBuilder(store,
		chart.WithBaseURL(cfg.ChartBaseURL),
		chart.WithAllowStale(cfg.AllowStale),
		chart.WithClock(clockFrom(ctx)),
	)
}

// GetOverview builds the statistics dashboard for the most recent stats date.
// Graph failures are attached to their entry and never abort the overview.
func GetOverview(ctx context.Context, store contract.SeriesStore, builder *chart.Builder) (schema.Overview, error) {
	date, values, err := store.CurrentStats(ctx)
	if err != nil {
		return schema.Overview{}, fmt.Errorf("failed to read current stats: %w", err)
	}
	if date == "" {
		return schema.Overview{}, nil
	}

	ov := schema.Overview{
		Date:       date,
		Basic:      basicStats(values),
		TrackMBIDs: bucketShares(values, schema.TrackMBIDsPattern),
		MBIDTracks: bucketShares(values, schema.MBIDTracksPattern),
		Graphs:     make(map[string]schema.GraphResult, len(overviewGraphs)),
	}

	logger := contract.LoggerFrom(ctx)
	for _, name := range overviewGraphs {
		g, err := builder.BuildGraph(ctx, name, OverviewGraphDays)
		if err != nil {
			logger.Debug("Graph unavailable", "series", name, "err", err)
			ov.Graphs[name] = schema.GraphResult{Error: err.Error()}
			continue
		}
		ov.Graphs[name] = schema.GraphResult{Graph: g}
	}
	return ov, nil
}

func basicStats(values map[string]int64) schema.BasicStats {
	mbids, ok := values[schema.StatMBIDAll]
	if !ok {
		mbids = values[schema.StatTrackMBIDUnique]
	}
	tracks := values[schema.StatTrackAll]
	withMBID := tracks - values[schema.StatTrackNoMBID]
	return schema.BasicStats{
		Submissions:           values[schema.StatSubmissionAll],
		QueuedSubmissions:     values[schema.StatSubmissionUnhandled],
		Fingerprints:          values[schema.StatFingerprintAll],
		Tracks:                tracks,
		MBIDs:                 mbids,
		Contributors:          values[schema.StatAccountActive],
		TracksWithMBID:        withMBID,
		TracksWithMBIDPercent: Percent(withMBID, tracks),
	}
}

// bucketShares reads the 1..BucketCount distribution named by pattern.
func bucketShares(values map[string]int64, pattern string) []schema.BucketShare {
	shares := make([]schema.BucketShare, schema.BucketCount)
	var sum int64
	for i := range schema.BucketCount {
		count := values[fmt.Sprintf(pattern, i+1)]
		shares[i] = schema.BucketShare{Bucket: i + 1, Count: count}
		sum += count
	}
	for i := range shares {
		shares[i].Percent = Percent(shares[i].Count, sum)
	}
	return shares
}
