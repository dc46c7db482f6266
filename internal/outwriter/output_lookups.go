package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/fpstats/internal/contract"
	"github.com/huangsam/fpstats/internal/parquet"
	"github.com/huangsam/fpstats/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeLookupsTable renders per-day lookup totals with the hit rate.
func writeLookupsTable(w io.Writer, stats []schema.LookupStat, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Hits", "Misses", "Total", "Hit %"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	var hits, total int64
	for _, st := range stats {
		data = append(data, []string{
			st.Date,
			strconv.FormatInt(st.Hits, 10),
			strconv.FormatInt(st.Misses, 10),
			strconv.FormatInt(st.Total, 10),
			formatRatio(st.Hits, st.Total, cfg.Precision),
		})
		hits += st.Hits
		total += st.Total
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%d lookups over %d days, %s%% hits\n", total, len(stats), formatRatio(hits, total, cfg.Precision))
	return err
}

// writeLookupsCSV writes one record per day.
func writeLookupsCSV(w io.Writer, stats []schema.LookupStat, cfg *contract.Config) error {
	header := []string{"date", "count_hits", "count_nohits", "count", "hit_percent"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, st := range stats {
			row := []string{
				st.Date,
				strconv.FormatInt(st.Hits, 10),
				strconv.FormatInt(st.Misses, 10),
				strconv.FormatInt(st.Total, 10),
				formatRatio(st.Hits, st.Total, cfg.Precision),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeLookupsParquet(w io.Writer, stats []schema.LookupStat) error {
	return parquet.Write(w, parquet.ConvertLookupStats(stats))
}
