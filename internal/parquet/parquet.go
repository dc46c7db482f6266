// Package parquet provides data structures and functions for exporting fpstats
// data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/huangsam/fpstats/schema"
	"github.com/parquet-go/parquet-go"
)

// Stat is one dated value of a named series.
// This struct maps to the stats database table.
type Stat struct {
	// Name is the series name, e.g. "submission.all"
	Name string `parquet:"name,snappy,dict"`

	// Date is the calendar day of the value, in days since the Unix epoch (DATE)
	Date int32 `parquet:"date,date"`

	// Value is the counter reading on that day
	Value int64 `parquet:"value,snappy"`
}

// Lookup holds the summed lookup counters of one day.
// This struct maps to the daily totals of the stats_lookups table.
type Lookup struct {
	Date   int32 `parquet:"date,date"`
	Hits   int64 `parquet:"count_hits,snappy"`
	Misses int64 `parquet:"count_nohits,snappy"`
	Total  int64 `parquet:"count,snappy"`
}

// Contributor is an account with its submission count.
type Contributor struct {
	Name            string  `parquet:"name,snappy"`
	MBUser          *string `parquet:"mbuser,optional,snappy"`
	SubmissionCount int64   `parquet:"submission_count,snappy"`
}

// Delta is one series delta of a daily additions report, in long form.
type Delta struct {
	Date  int32  `parquet:"date,date"`
	Name  string `parquet:"name,snappy,dict"`
	Delta int64  `parquet:"delta,snappy"`
}

// WriteParquet writes rows to a new Parquet file at outputPath.
func WriteParquet[T any](data []T, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Write(file, data)
}

// Write encodes rows as a Parquet stream on w.
// The schema is derived from the struct tags of T.
func Write[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

const secondsPerDay = 24 * 60 * 60

// epochDay converts a stored day into days since 1970-01-01, the physical
// form of the Parquet DATE type. Malformed days become 0 rather than
// failing the export.
func epochDay(s string) int32 {
	t, err := schema.ParseDay(s)
	if err != nil {
		return 0
	}
	return int32(t.Unix() / secondsPerDay)
}

// DayString formats a DATE column value back into its stored day.
func DayString(days int32) string {
	return schema.FormatDay(time.Unix(int64(days)*secondsPerDay, 0).UTC())
}

// ConvertStatRows converts schema.StatRow to Stat for Parquet export.
func ConvertStatRows(rows []schema.StatRow) []Stat {
	result := make([]Stat, len(rows))
	for i, r := range rows {
		result[i] = Stat{Name: r.Name, Date: epochDay(r.Date), Value: r.Value}
	}
	return result
}

// ConvertLookupStats converts schema.LookupStat to Lookup for Parquet export.
func ConvertLookupStats(stats []schema.LookupStat) []Lookup {
	result := make([]Lookup, len(stats))
	for i, st := range stats {
		result[i] = Lookup{Date: epochDay(st.Date), Hits: st.Hits, Misses: st.Misses, Total: st.Total}
	}
	return result
}

// ConvertContributors converts schema.Contributor to Contributor for Parquet export.
func ConvertContributors(contributors []schema.Contributor) []Contributor {
	result := make([]Contributor, len(contributors))
	for i, c := range contributors {
		result[i] = Contributor{Name: c.Name, SubmissionCount: c.SubmissionCount}
		if c.MBUser != "" {
			mbuser := c.MBUser
			result[i].MBUser = &mbuser
		}
	}
	return result
}

// ConvertDailyAdditions flattens the report into one row per date and series.
// Series within a date are ordered by name.
func ConvertDailyAdditions(days []schema.DailyAddition) []Delta {
	var result []Delta
	for _, day := range days {
		date := epochDay(day.Date)
		names := make([]string, 0, len(day.Values))
		for name := range day.Values {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			result = append(result, Delta{Date: date, Name: name, Delta: day.Values[name]})
		}
	}
	return result
}
