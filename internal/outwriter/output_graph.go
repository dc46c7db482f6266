package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/fpstats/schema"
)

// writeGraphText prints the bare URL so it can be piped into other tools.
func writeGraphText(w io.Writer, graph schema.Graph) error {
	_, err := fmt.Fprintln(w, graph.URL)
	return err
}

// writeGraphCSV writes the graph as a single CSV record.
func writeGraphCSV(w io.Writer, graph schema.Graph) error {
	header := []string{"series", "days", "max_value", "labels", "data", "url"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		return cw.Write([]string{
			graph.Series,
			strconv.Itoa(graph.Days),
			strconv.FormatInt(graph.MaxValue, 10),
			strings.Join(graph.Labels, "|"),
			graph.Data,
			graph.URL,
		})
	})
}
