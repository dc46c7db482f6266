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

// contributorJSON adds the derived profile URL to a contributor.
type contributorJSON struct {
	Rank int `json:"rank"`
	schema.Contributor
	ProfileURL string `json:"profile_url,omitempty"`
}

func toContributorJSON(contributors []schema.Contributor) []contributorJSON {
	out := make([]contributorJSON, len(contributors))
	for i, c := range contributors {
		out[i] = contributorJSON{Rank: i + 1, Contributor: c, ProfileURL: c.ProfileURL()}
	}
	return out
}

// writeContributorsTable renders the ranked contributor list.
func writeContributorsTable(w io.Writer, contributors []schema.Contributor, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Name", "Submissions", "MusicBrainz"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	// Rank, Submissions and the profile column plus borders.
	nameWidth := getMaxTableNameWidth(cfg, 70)
	var data [][]string
	for i, c := range contributors {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			truncate(c.Name, nameWidth),
			strconv.FormatInt(c.SubmissionCount, 10),
			c.ProfileURL(),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeContributorsJSON(w io.Writer, contributors []schema.Contributor) error {
	return writeJSON(w, toContributorJSON(contributors))
}

func writeContributorsCSV(w io.Writer, contributors []schema.Contributor) error {
	header := []string{"rank", "name", "mbuser", "submission_count", "profile_url"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, c := range contributors {
			row := []string{strconv.Itoa(i + 1), c.Name, c.MBUser, strconv.FormatInt(c.SubmissionCount, 10), c.ProfileURL()}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeContributorsParquet(w io.Writer, contributors []schema.Contributor) error {
	return parquet.Write(w, parquet.ConvertContributors(contributors))
}
