// Package schema has models, constants and parsing helpers shared by all parts of fpstats.
package schema

// SeriesPoint is a single dated value of a named statistic.
// Date is a calendar day formatted with DateLayout.
type SeriesPoint struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

// StatRow is one row of the stats table.
type StatRow struct {
	Name  string `json:"name"`
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

// LookupStat aggregates the lookup counters of all applications for one day.
type LookupStat struct {
	Date   string `json:"date"`
	Hits   int64  `json:"count_hits"`
	Misses int64  `json:"count_nohits"`
	Total  int64  `json:"count"`
}

// Contributor is an account that has submitted fingerprints.
type Contributor struct {
	Name            string `json:"name"`
	MBUser          string `json:"mbuser,omitempty"`
	SubmissionCount int64  `json:"submission_count"`
}

// ProfileURL returns the MusicBrainz profile of the contributor, or an empty
// string when the account is not linked to MusicBrainz.
func (c Contributor) ProfileURL() string {
	if c.MBUser == "" {
		return ""
	}
	return MusicBrainzUserURL + queryEscape(c.MBUser)
}

// FingerprintRecord is a stored fingerprint together with its bookkeeping columns.
type FingerprintRecord struct {
	ID              int64       `json:"id"`
	Length          int         `json:"length"`
	TrackID         int64       `json:"track_id"`
	SubmissionCount int64       `json:"submission_count"`
	Fingerprint     Fingerprint `json:"fingerprint"`
}

// Graph is a fully assembled chart for one series.
type Graph struct {
	Series   string   `json:"series"`
	Days     int      `json:"days"`
	Labels   []string `json:"labels"`
	MaxValue int64    `json:"max_value"`
	Data     string   `json:"data"`
	URL      string   `json:"url"`
}

// GraphResult pairs a graph with the error that prevented building it, if any.
type GraphResult struct {
	Graph *Graph `json:"graph,omitempty"`
	Error string `json:"error,omitempty"`
}

// BucketShare is one slice of a 1..10 distribution such as "tracks with N MBIDs".
type BucketShare struct {
	Bucket  int    `json:"i"`
	Count   int64  `json:"count"`
	Percent string `json:"percent"`
}

// BasicStats holds the headline counters of the database.
type BasicStats struct {
	Submissions           int64  `json:"submissions"`
	QueuedSubmissions     int64  `json:"queued_submissions"`
	Fingerprints          int64  `json:"fingerprints"`
	Tracks                int64  `json:"tracks"`
	MBIDs                 int64  `json:"mbids"`
	Contributors          int64  `json:"contributors"`
	TracksWithMBID        int64  `json:"tracks_with_mbid"`
	TracksWithMBIDPercent string `json:"tracks_with_mbid_percent"`
}

// Overview is the statistics dashboard for the most recent stats date.
type Overview struct {
	Date       string                 `json:"date"`
	Basic      BasicStats             `json:"basic"`
	TrackMBIDs []BucketShare          `json:"track_mbid"`
	MBIDTracks []BucketShare          `json:"mbid_track"`
	Graphs     map[string]GraphResult `json:"graphs"`
}

// DailyAddition holds per-series deltas for one day.
type DailyAddition struct {
	Date   string           `json:"date"`
	Values map[string]int64 `json:"values"`
}
