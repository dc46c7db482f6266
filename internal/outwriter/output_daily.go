package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/huangsam/fpstats/internal/contract"
	"github.com/huangsam/fpstats/internal/parquet"
	"github.com/huangsam/fpstats/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// formatDelta renders a daily delta, colored by direction when colors are on.
func formatDelta(v int64, ok, colors bool) string {
	if !ok {
		return "-"
	}
	if colors {
		return contract.ColorDelta(v)
	}
	return strconv.FormatInt(v, 10)
}

// writeDailyTable renders one row per date and one column per series.
func writeDailyTable(w io.Writer, days []schema.DailyAddition, names []string, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header(append([]string{"Date"}, names...))
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, day := range days {
		row := []string{day.Date}
		for _, name := range names {
			v, ok := day.Values[name]
			row = append(row, formatDelta(v, ok, cfg.UseColors))
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeDailyCSV writes the report in wide form. Missing values are empty cells.
func writeDailyCSV(w io.Writer, days []schema.DailyAddition, names []string) error {
	header := append([]string{"date"}, names...)
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, day := range days {
			row := []string{day.Date}
			for _, name := range names {
				cell := ""
				if v, ok := day.Values[name]; ok {
					cell = strconv.FormatInt(v, 10)
				}
				row = append(row, cell)
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeDailyParquet writes the report in long form.
func writeDailyParquet(w io.Writer, days []schema.DailyAddition) error {
	return parquet.Write(w, parquet.ConvertDailyAdditions(days))
}
