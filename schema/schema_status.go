package schema

// StoreStatus represents the status of the stats store.
type StoreStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	SchemaVersion  uint             `json:"schema_version"`
	Dirty          bool             `json:"dirty"`
	TotalStats     int              `json:"total_stats"`
	DistinctSeries int              `json:"distinct_series"`
	OldestDate     string           `json:"oldest_date"`
	LatestDate     string           `json:"latest_date"`
	TableRows      map[string]int64 `json:"table_rows"`
}
