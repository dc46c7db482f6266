package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/huangsam/fpstats/internal/contract"
	"github.com/huangsam/fpstats/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// basicRows flattens the headline counters in display order.
func basicRows(b schema.BasicStats) [][2]string {
	return [][2]string{
		{"Submissions", strconv.FormatInt(b.Submissions, 10)},
		{"Queued submissions", strconv.FormatInt(b.QueuedSubmissions, 10)},
		{"Fingerprints", strconv.FormatInt(b.Fingerprints, 10)},
		{"Tracks", strconv.FormatInt(b.Tracks, 10)},
		{"MBIDs", strconv.FormatInt(b.MBIDs, 10)},
		{"Contributors", strconv.FormatInt(b.Contributors, 10)},
		{"Tracks with MBID", fmt.Sprintf("%d (%s%%)", b.TracksWithMBID, b.TracksWithMBIDPercent)},
	}
}

// sortedGraphNames returns the graph keys in a stable order.
func sortedGraphNames(graphs map[string]schema.GraphResult) []string {
	names := make([]string, 0, len(graphs))
	for name := range graphs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// writeOverviewText renders the dashboard as a sequence of tables.
func writeOverviewText(w io.Writer, ov schema.Overview, cfg *contract.Config) error {
	title := func(s string) error {
		if cfg.UseColors {
			s = contract.HeaderColor.Sprint(s)
		}
		_, err := fmt.Fprintln(w, s)
		return err
	}

	if ov.Date == "" {
		_, err := fmt.Fprintln(w, "No statistics recorded yet.")
		return err
	}

	if err := title(fmt.Sprintf("Statistics for %s", ov.Date)); err != nil {
		return err
	}
	basic := tablewriter.NewWriter(w)
	basic.Header([]string{"Metric", "Value"})
	basic.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignLeft
	})
	var data [][]string
	for _, r := range basicRows(ov.Basic) {
		data = append(data, []string{r[0], r[1]})
	}
	if err := basic.Bulk(data); err != nil {
		return err
	}
	if err := basic.Render(); err != nil {
		return err
	}

	buckets := []struct {
		title  string
		header []string
		shares []schema.BucketShare
	}{
		{"Tracks by number of MBIDs", []string{"MBIDs", "Tracks", "Percent"}, ov.TrackMBIDs},
		{"MBIDs by number of tracks", []string{"Tracks", "MBIDs", "Percent"}, ov.MBIDTracks},
	}
	for _, b := range buckets {
		if err := title(b.title); err != nil {
			return err
		}
		if err := writeBucketTable(w, b.header, b.shares); err != nil {
			return err
		}
	}

	if len(ov.Graphs) == 0 {
		return nil
	}
	if err := title("Graphs"); err != nil {
		return err
	}
	for _, name := range sortedGraphNames(ov.Graphs) {
		g := ov.Graphs[name]
		line := ""
		if g.Error != "" {
			line = "unavailable: " + g.Error
		} else if g.Graph != nil {
			line = g.Graph.URL
		}
		if _, err := fmt.Fprintf(w, "  %s: %s\n", name, line); err != nil {
			return err
		}
	}
	return nil
}

// writeBucketTable renders one 1..10 distribution.
func writeBucketTable(w io.Writer, header []string, shares []schema.BucketShare) error {
	table := tablewriter.NewWriter(w)
	table.Header(header)
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, s := range shares {
		data = append(data, []string{strconv.Itoa(s.Bucket), strconv.FormatInt(s.Count, 10), s.Percent + "%"})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeOverviewCSV writes the dashboard in long form: section, key, value, percent.
func writeOverviewCSV(w io.Writer, ov schema.Overview) error {
	header := []string{"date", "section", "key", "value", "percent"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		b := ov.Basic
		basic := []struct {
			key   string
			value int64
			pct   string
		}{
			{schema.StatSubmissionAll, b.Submissions, ""},
			{schema.StatSubmissionUnhandled, b.QueuedSubmissions, ""},
			{schema.StatFingerprintAll, b.Fingerprints, ""},
			{schema.StatTrackAll, b.Tracks, ""},
			{schema.StatMBIDAll, b.MBIDs, ""},
			{schema.StatAccountActive, b.Contributors, ""},
			{"track.with_mbid", b.TracksWithMBID, b.TracksWithMBIDPercent},
		}
		for _, r := range basic {
			if err := cw.Write([]string{ov.Date, "basic", r.key, strconv.FormatInt(r.value, 10), r.pct}); err != nil {
				return err
			}
		}
		for _, s := range ov.TrackMBIDs {
			key := fmt.Sprintf(schema.TrackMBIDsPattern, s.Bucket)
			if err := cw.Write([]string{ov.Date, "track_mbid", key, strconv.FormatInt(s.Count, 10), s.Percent}); err != nil {
				return err
			}
		}
		for _, s := range ov.MBIDTracks {
			key := fmt.Sprintf(schema.MBIDTracksPattern, s.Bucket)
			if err := cw.Write([]string{ov.Date, "mbid_track", key, strconv.FormatInt(s.Count, 10), s.Percent}); err != nil {
				return err
			}
		}
		for _, name := range sortedGraphNames(ov.Graphs) {
			g := ov.Graphs[name]
			value := g.Error
			if g.Graph != nil {
				value = g.Graph.URL
			}
			if err := cw.Write([]string{ov.Date, "graph", name, value, ""}); err != nil {
				return err
			}
		}
		return nil
	})
}
