// Package config centralizes importer configuration. Every tunable is a
// command-line flag whose default is seeded from an environment variable,
// so `--help` shows all knobs and the process stays 12-factor friendly. An
// optional settings file (JSON, YAML or TOML) sits below the environment.
//
// Precedence, highest first: explicit flag, environment, settings file,
// built-in default.
//
// For tests, prefer LoadFromArgs with a private flag set and a map-backed
// getenv to keep them hermetic:
//
//	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
//	cfg, err := config.LoadFromArgs(fs, func(k string) string { return env[k] }, []string{"--workers=4"})
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Config holds all process configuration. Fields are plain values so the
// struct can be copied freely once loaded.
type Config struct {
	// Import source and shape.
	CSVPath    string
	Table      string
	BatchSize  int
	Separator  string // must be exactly one byte
	Boundary   string // "aligned" or "legacy"
	Workers    int    // 0 picks the size-tiered degree
	SkippedDir string // empty disables skipped-row logs

	// Storage. DSN wins over the discrete Postgres parts when set.
	Storage    string
	DSN        string
	Database   string // SQL Server: created when missing
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	Unlogged   bool // Postgres-only: create UNLOGGED tables

	Verify bool // count persisted rows after the run

	// Logging.
	LogLevel  string
	LogFormat string

	// Metrics.
	Metrics        string // none, pushgateway or datadog
	PushgatewayURL string
	StatsdAddr     string

	// Settings is the optional settings file path.
	Settings string
}

// Bind defines every flag on fs, seeding defaults through getenv, and
// returns the Config the flags write into. The caller parses fs (cobra does
// it for the CLI) and then calls ApplySettings.
func Bind(fs *pflag.FlagSet, getenv func(string) string) *Config {
	cfg := &Config{}

	envOrDefaultFn := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	intEnvOrDefaultFn := func(k string, d int) int {
		if v := getenv(k); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				return i
			}
		}
		return d
	}
	boolEnvOrDefaultFn := func(k string, d bool) bool {
		if b, ok := parseBool(getenv(k)); ok {
			return b
		}
		return d
	}

	// Source
	fs.StringVar(&cfg.CSVPath, "csv", getenv("CSV_PATH"), "Path to the delimited source file")
	fs.StringVar(&cfg.Table, "table", envOrDefaultFn("TABLE", "CSVImport"), "Destination table")
	fs.IntVar(&cfg.BatchSize, "batch_size", intEnvOrDefaultFn("BATCH_SIZE", 1000), "Rows per bulk insert")
	fs.StringVar(&cfg.Separator, "separator", envOrDefaultFn("SEPARATOR", ","), "Field separator (one byte)")
	fs.StringVar(&cfg.Boundary, "boundary", envOrDefaultFn("BOUNDARY", "aligned"), "Slice boundary mode: aligned or legacy")
	fs.IntVar(&cfg.Workers, "workers", intEnvOrDefaultFn("WORKERS", 0), "Parallel workers; 0 sizes by file length")
	fs.StringVar(&cfg.SkippedDir, "skipped_dir", getenv("SKIPPED_DIR"), "Directory for skipped-rows CSV logs (empty disables)")

	// Storage
	fs.StringVar(&cfg.Storage, "storage", envOrDefaultFn("STORAGE_KIND", "postgres"), "Storage backend kind")
	fs.StringVar(&cfg.DSN, "dsn", getenv("DB_DSN"), "Full DSN (required for non-postgres backends)")
	fs.StringVar(&cfg.Database, "database", getenv("DB_BASE"), "SQL Server database, created when missing")
	fs.StringVar(&cfg.DBUser, "db_user", envOrDefaultFn("DB_USER", "user"), "DB user")
	fs.StringVar(&cfg.DBPassword, "db_password", envOrDefaultFn("DB_PASSWORD", "password"), "DB password")
	fs.StringVar(&cfg.DBHost, "db_host", envOrDefaultFn("DB_HOST", "localhost"), "DB host")
	fs.StringVar(&cfg.DBPort, "db_port", envOrDefaultFn("DB_PORT", "5432"), "DB port")
	fs.StringVar(&cfg.DBName, "db_name", envOrDefaultFn("DB_NAME", "testdb"), "DB name")
	fs.BoolVar(&cfg.Unlogged, "pg_unlogged", boolEnvOrDefaultFn("PG_UNLOGGED", false), "Postgres only: create UNLOGGED tables")
	fs.BoolVar(&cfg.Verify, "verify", boolEnvOrDefaultFn("VERIFY", false), "Count persisted rows after the import")

	// Observability
	fs.StringVar(&cfg.LogLevel, "log_level", envOrDefaultFn("LOG_LEVEL", "info"), "Log level")
	fs.StringVar(&cfg.LogFormat, "log_format", envOrDefaultFn("LOG_FORMAT", "console"), "Log encoding: console or json")
	fs.StringVar(&cfg.Metrics, "metrics", envOrDefaultFn("METRICS_BACKEND", "none"), "Metrics backend: none, pushgateway or datadog")
	fs.StringVar(&cfg.PushgatewayURL, "pushgateway_url", getenv("PUSHGATEWAY_URL"), "Prometheus Pushgateway URL")
	fs.StringVar(&cfg.StatsdAddr, "statsd_addr", envOrDefaultFn("STATSD_ADDR", "127.0.0.1:8125"), "DogStatsD address")

	fs.StringVar(&cfg.Settings, "settings", getenv("SETTINGS"), "Optional settings file (json, yaml or toml)")
	return cfg
}

// LoadFromArgs binds flags on fs, parses args and applies the settings file.
func LoadFromArgs(fs *pflag.FlagSet, getenv func(string) string, args []string) (*Config, error) {
	cfg := Bind(fs, getenv)
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	if err := cfg.ApplySettings(fs, getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SeparatorByte returns the configured separator; ',' when unset.
func (c *Config) SeparatorByte() byte {
	if len(c.Separator) == 0 {
		return ','
	}
	return c.Separator[0]
}

// StorageDSN returns DSN, or for postgres a URL assembled from the discrete
// DB_* parts when DSN is empty.
func (c *Config) StorageDSN() string {
	if c.DSN != "" || c.Storage != "postgres" {
		return c.DSN
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   net.JoinHostPort(c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	return u.String()
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
