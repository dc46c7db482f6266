package outwriter

import (
	"encoding/csv"
	"io"
	"slices"
	"strconv"

	"github.com/huangsam/fpstats/internal/statstore"
	"github.com/huangsam/fpstats/schema"
)

func writeStatusText(w io.Writer, status schema.StoreStatus) error {
	statstore.PrintStoreStatus(w, status)
	return nil
}

// writeStatusCSV writes the status as key/value records.
func writeStatusCSV(w io.Writer, status schema.StoreStatus) error {
	return writeCSVWithHeader(w, []string{"key", "value"}, func(cw *csv.Writer) error {
		rows := [][]string{
			{"backend", status.Backend},
			{"connected", strconv.FormatBool(status.Connected)},
			{"schema_version", strconv.FormatUint(uint64(status.SchemaVersion), 10)},
			{"dirty", strconv.FormatBool(status.Dirty)},
			{"total_stats", strconv.Itoa(status.TotalStats)},
			{"distinct_series", strconv.Itoa(status.DistinctSeries)},
			{"oldest_date", status.OldestDate},
			{"latest_date", status.LatestDate},
		}
		tables := make([]string, 0, len(status.TableRows))
		for table := range status.TableRows {
			tables = append(tables, table)
		}
		slices.Sort(tables)
		for _, table := range tables {
			rows = append(rows, []string{"rows." + table, strconv.FormatInt(status.TableRows[table], 10)})
		}
		return cw.WriteAll(rows)
	})
}
