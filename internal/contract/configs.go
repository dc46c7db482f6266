package contract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/huangsam/fpstats/core/chart"
	"github.com/huangsam/fpstats/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 2
	MaxDays            = 366
	DefaultRedisAddr   = "localhost:6379"
	DefaultChartURL    = chart.DefaultBaseURL
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	Backend   schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	Verbose    bool

	// Days is the window requested with --days; 0 lets each command pick its default.
	Days        int
	ResultLimit int
	Names       []string

	ChartBaseURL string
	AllowStale   bool

	RedisAddr     string
	RedisPassword string // Please use env var as this is plaintext
	RedisDB       int

	Offset        int
	FromStore     bool
	TrackID       int64
	PNGFile       string
	TargetVersion int
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Backend      string `mapstructure:"db-backend"`
	DBConnect    string `mapstructure:"db-connect"`
	Output       string `mapstructure:"output"`
	OutputFile   string `mapstructure:"output-file"`
	Precision    int    `mapstructure:"precision"`
	Width        int    `mapstructure:"width"`
	Color        string `mapstructure:"color"`
	Verbose      bool   `mapstructure:"verbose"`
	Days         int    `mapstructure:"days"`
	Limit        int    `mapstructure:"limit"`
	ChartBaseURL string `mapstructure:"chart-base-url"`

	// --- Fields from graphCmd.Flags() ---
	AllowStale bool `mapstructure:"allow-stale"`

	// --- Fields from dailyCmd.Flags() ---
	Names string `mapstructure:"names"`

	// --- Fields from countersCmd.PersistentFlags() ---
	RedisAddr     string `mapstructure:"redis-addr"`
	RedisPassword string `mapstructure:"redis-password"`
	RedisDB       int    `mapstructure:"redis-db"`

	// --- Fields from fingerprintCmd.PersistentFlags() ---
	Offset    int    `mapstructure:"offset"`
	FromStore bool   `mapstructure:"from-store"`
	TrackID   int64  `mapstructure:"track-id"`
	PNGFile   string `mapstructure:"png-file"`

	// --- Fields from storeMigrateCmd.Flags() ---
	TargetVersion int `mapstructure:"target-version"`
}

// DaysOr returns the configured day window, or def when none was requested.
func (c *Config) DaysOr(def int) int {
	if c.Days > 0 {
		return c.Days
	}
	return def
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Names != nil {
		clone.Names = make([]string, len(c.Names))
		copy(clone.Names, c.Names)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := processChartInputs(cfg, input); err != nil {
		return err
	}
	processRedisInputs(cfg, input)
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfig validates the store backend and its connection string.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.Backend = schema.DatabaseBackend(strings.ToLower(input.Backend))
	if _, ok := schema.ValidDatabaseBackends[cfg.Backend]; !ok {
		return fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql, postgresql, none", input.Backend)
	}
	cfg.DBConnect = input.DBConnect
	return ValidateDatabaseConnectionString(cfg.Backend, cfg.DBConnect)
}

// validateSimpleInputs processes and validates the presentation fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose
	cfg.FromStore = input.FromStore
	cfg.Offset = input.Offset
	cfg.PNGFile = input.PNGFile
	cfg.TargetVersion = input.TargetVersion

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Days Validation ---
	if input.Days < 0 || input.Days > MaxDays {
		return fmt.Errorf("days must be between 1 and %d (received %d)", MaxDays, input.Days)
	}
	cfg.Days = input.Days

	// --- 3. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 0 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 4. Series Names ---
	cfg.Names = nil
	for p := range strings.SplitSeq(input.Names, ",") {
		if name := strings.TrimSpace(p); name != "" {
			cfg.Names = append(cfg.Names, name)
		}
	}
	if len(cfg.Names) == 0 {
		cfg.Names = append([]string(nil), schema.DefaultDailyNames...)
	}

	// --- 5. Fingerprint Inputs ---
	if input.TrackID < 0 {
		return fmt.Errorf("track-id cannot be negative (received %d)", input.TrackID)
	}
	cfg.TrackID = input.TrackID

	return nil
}

// processChartInputs validates the chart endpoint.
func processChartInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.AllowStale = input.AllowStale
	base := strings.TrimSpace(input.ChartBaseURL)
	if base == "" {
		cfg.ChartBaseURL = DefaultChartURL
		return nil
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid chart-base-url '%s'. must be an absolute http(s) URL", input.ChartBaseURL)
	}
	if u.RawQuery != "" {
		return fmt.Errorf("chart-base-url must not carry a query string")
	}
	cfg.ChartBaseURL = base
	return nil
}

// processRedisInputs copies the counter connection settings.
func processRedisInputs(cfg *Config, input *ConfigRawInput) {
	cfg.RedisAddr = strings.TrimSpace(input.RedisAddr)
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = DefaultRedisAddr
	}
	cfg.RedisPassword = input.RedisPassword
	cfg.RedisDB = input.RedisDB
}
