package contract

import (
	"testing"

	"github.com/huangsam/fpstats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Backend:   string(schema.SQLiteBackend),
		Output:    string(schema.TextOut),
		Precision: DefaultPrecision,
		Limit:     DefaultResultLimit,
		Color:     "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError string
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{
			name:        "invalid backend",
			mutate:      func(in *ConfigRawInput) { in.Backend = "oracle" },
			expectError: "invalid db backend",
		},
		{
			name:        "mysql without connection",
			mutate:      func(in *ConfigRawInput) { in.Backend = "mysql" },
			expectError: "db-connect is required",
		},
		{
			name: "mysql with connection",
			mutate: func(in *ConfigRawInput) {
				in.Backend = "MySQL"
				in.DBConnect = "user:pass@tcp(localhost:3306)/fpstats"
			},
		},
		{
			name: "postgres missing dbname",
			mutate: func(in *ConfigRawInput) {
				in.Backend = "postgresql"
				in.DBConnect = "host=localhost user=postgres"
			},
			expectError: "dbname=",
		},
		{
			name:        "limit too large",
			mutate:      func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 },
			expectError: "limit must be greater than 0",
		},
		{
			name:        "negative days",
			mutate:      func(in *ConfigRawInput) { in.Days = -1 },
			expectError: "days must be between",
		},
		{
			name:        "invalid output",
			mutate:      func(in *ConfigRawInput) { in.Output = "xml" },
			expectError: "invalid output format",
		},
		{
			name:        "parquet without file",
			mutate:      func(in *ConfigRawInput) { in.Output = "parquet" },
			expectError: "requires --output-file",
		},
		{
			name:        "invalid color",
			mutate:      func(in *ConfigRawInput) { in.Color = "sometimes" },
			expectError: "invalid --color value",
		},
		{
			name:        "relative chart url",
			mutate:      func(in *ConfigRawInput) { in.ChartBaseURL = "charts/local" },
			expectError: "invalid chart-base-url",
		},
		{
			name:        "chart url with query",
			mutate:      func(in *ConfigRawInput) { in.ChartBaseURL = "http://charts.local/c?x=1" },
			expectError: "query string",
		},
		{
			name:        "negative track id",
			mutate:      func(in *ConfigRawInput) { in.TrackID = -5 },
			expectError: "track-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, schema.SQLiteBackend, cfg.Backend)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, DefaultChartURL, cfg.ChartBaseURL)
	assert.Equal(t, DefaultRedisAddr, cfg.RedisAddr)
	assert.Equal(t, schema.DefaultDailyNames, cfg.Names)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, 40, cfg.DaysOr(40))
}

func TestProcessAndValidateOverrides(t *testing.T) {
	input := validInput()
	input.Days = 7
	input.Names = " submission.all , ,track.all"
	input.ChartBaseURL = "https://charts.example.org/chart"
	input.RedisAddr = "redis:6380"
	input.AllowStale = true

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, 7, cfg.DaysOr(40))
	assert.Equal(t, []string{"submission.all", "track.all"}, cfg.Names)
	assert.Equal(t, "https://charts.example.org/chart", cfg.ChartBaseURL)
	assert.Equal(t, "redis:6380", cfg.RedisAddr)
	assert.True(t, cfg.AllowStale)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Names: []string{"a", "b"}, Days: 3}
	clone := cfg.Clone()
	clone.Names[0] = "changed"
	assert.Equal(t, "a", cfg.Names[0])
	assert.Equal(t, 3, clone.Days)
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, ""))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(profile, "out/fp"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "out/fp", profile.Prefix)
}
