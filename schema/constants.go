package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the stats store.
	DatabaseBackend string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Series names written by the stats snapshot and read by the overview.
const (
	StatSubmissionAll       = "submission.all"
	StatSubmissionUnhandled = "submission.unhandled"
	StatFingerprintAll      = "fingerprint.all"
	StatTrackAll            = "track.all"
	StatMBIDAll             = "mbid.all"
	StatTrackMBIDUnique     = "track_mbid.unique"
	StatAccountAll          = "account.all"
	StatAccountActive       = "account.active"
	StatAccountMusicBrainz  = "account.musicbrainz"
	StatTrackNoMBID         = "track.0mbids"
)

// Bucket name patterns for the 1..10 distributions.
const (
	TrackMBIDsPattern = "track.%dmbids"
	MBIDTracksPattern = "mbid.%dtracks"
	BucketCount       = 10
)

// DateLayout is the storage and wire form of a calendar day.
const DateLayout = "2006-01-02"

// MusicBrainzUserURL is the prefix of a MusicBrainz user profile.
const MusicBrainzUserURL = "https://musicbrainz.org/user/"

// DefaultDailyNames are the series shown by the daily additions report.
var DefaultDailyNames = []string{
	StatSubmissionAll,
	StatFingerprintAll,
	StatTrackAll,
	StatMBIDAll,
	StatAccountActive,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
