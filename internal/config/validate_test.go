package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kinds = []string{"memory", "mssql", "postgres", "sqlite"}

func validConfig() *Config {
	return &Config{
		CSVPath:   "in.csv",
		Table:     "CSVImport",
		BatchSize: 1000,
		Separator: ",",
		Boundary:  "aligned",
		Storage:   "postgres",
		Metrics:   "none",
	}
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()

	issues := Validate(validConfig(), kinds)
	assert.Empty(t, issues)
	assert.NoError(t, Err(issues))
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		mut  func(*Config)
		path string
	}{
		{"no source", func(c *Config) { c.CSVPath = " " }, "csv"},
		{"no table", func(c *Config) { c.Table = "" }, "table"},
		{"batch", func(c *Config) { c.BatchSize = 0 }, "batch_size"},
		{"separator width", func(c *Config) { c.Separator = "||" }, "separator"},
		{"separator newline", func(c *Config) { c.Separator = "\n" }, "separator"},
		{"boundary", func(c *Config) { c.Boundary = "greedy" }, "boundary"},
		{"workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"storage", func(c *Config) { c.Storage = "oracle" }, "storage"},
		{"dsn", func(c *Config) { c.Storage = "mssql" }, "dsn"},
		{"pushgateway", func(c *Config) { c.Metrics = "pushgateway" }, "pushgateway_url"},
		{"metrics", func(c *Config) { c.Metrics = "graphite" }, "metrics"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mut(c)
			issues := Validate(c, kinds)
			require.Len(t, issues, 1)
			assert.Equal(t, SeverityError, issues[0].Severity)
			assert.Equal(t, tc.path, issues[0].Path)
			assert.Error(t, Err(issues))
		})
	}
}

func TestValidate_WarningIsNotAnError(t *testing.T) {
	t.Parallel()

	c := validConfig()
	c.Storage = "memory"
	c.Unlogged = true
	issues := Validate(c, kinds)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.NoError(t, Err(issues))
}
