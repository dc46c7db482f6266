//go:build basic || database

package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/fpstats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore walks the main CLI flows against the store selected by env.
func exerciseStore(t *testing.T, env []string) {
	env = append(env, "FPSTATS_COLOR=no")
	today := schema.FormatDay(time.Now())
	yesterday := schema.FormatDay(time.Now().AddDate(0, 0, -1))
	dir := t.TempDir()

	out := runFpstats(t, env, "store", "migrate")
	assert.Contains(t, out, "to 2")

	runFpstats(t, env, "stats", "record", "submission.all", yesterday, "100")
	runFpstats(t, env, "stats", "record", "submission.all", today, "110")

	csvPath := filepath.Join(dir, "history.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("name,date,value\ntrack.all,"+yesterday+",5\ntrack.all,"+today+",8\n"), 0o644))
	runFpstats(t, env, "stats", "import", csvPath)

	out = runFpstats(t, env, "graph", "submission.all", "--days", "10")
	assert.True(t, strings.HasPrefix(out, "http://chart.apis.google.com/chart?chxl=1:|"), out)
	assert.Contains(t, out, "&chxr=0,0,121&")

	out = runFpstats(t, env, "daily", "--names", "submission.all,track.all", "--output", "csv")
	assert.Contains(t, out, today+",10,3")

	fpPath := filepath.Join(dir, "fp.txt")
	require.NoError(t, os.WriteFile(fpPath, []byte("DURATION=10\nFINGERPRINT=1,2,-3\n"), 0o644))
	id := strings.TrimSpace(runFpstats(t, env, "fingerprint", "add", fpPath, "--track-id", "5"))
	require.NotEmpty(t, id)

	out = runFpstats(t, env, "stats", "snapshot")
	assert.Contains(t, out, "fingerprint.all 1")
	assert.Contains(t, out, "track.all 1")

	out = runFpstats(t, env, "overview", "--output", "json")
	var ov schema.Overview
	require.NoError(t, json.Unmarshal([]byte(out), &ov))
	assert.Equal(t, today, ov.Date)
	assert.Equal(t, int64(1), ov.Basic.Fingerprints)

	pngPath := filepath.Join(dir, "fp.png")
	runFpstats(t, env, "fingerprint", "render", id, "--from-store", "-o", pngPath)
	info, err := os.Stat(pngPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	out = runFpstats(t, env, "store", "status")
	assert.Contains(t, out, "Schema Version: 2")

	runFpstats(t, env, "store", "export", "--output-file", filepath.Join(dir, "export"))
	_, err = os.Stat(filepath.Join(dir, "export.stats.parquet"))
	assert.NoError(t, err)

	out = runFpstats(t, env, "store", "clear")
	assert.Contains(t, out, "Store cleared successfully.")
}
