package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// setting maps a settings-file key onto a flag and the environment variable
// that seeds it.
type setting struct {
	key  string
	flag string
	env  string
}

// settings lists the keys understood in a settings file. The "options"
// section and the "ConnectionStrings.csvimport" entry keep existing
// appsettings.json files usable as-is.
var settings = []setting{
	{"options.CSVPath", "csv", "CSV_PATH"},
	{"options.Table", "table", "TABLE"},
	{"options.BulkCopyBoundary", "batch_size", "BATCH_SIZE"},
	{"options.Separator", "separator", "SEPARATOR"},
	{"options.Boundary", "boundary", "BOUNDARY"},
	{"options.Workers", "workers", "WORKERS"},
	{"options.Base", "database", "DB_BASE"},
	{"options.Storage", "storage", "STORAGE_KIND"},
	{"options.SkippedDir", "skipped_dir", "SKIPPED_DIR"},
	{"ConnectionStrings.csvimport", "dsn", "DB_DSN"},
}

// ApplySettings reads c.Settings, if set, and fills every flag that was
// neither given explicitly nor seeded from the environment.
func (c *Config) ApplySettings(fs *pflag.FlagSet, getenv func(string) string) error {
	if c.Settings == "" {
		return nil
	}
	v := viper.New()
	v.SetConfigFile(c.Settings)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read settings %s: %w", c.Settings, err)
	}

	for _, s := range settings {
		if !v.IsSet(s.key) || fs.Changed(s.flag) || getenv(s.env) != "" {
			continue
		}
		if err := fs.Set(s.flag, v.GetString(s.key)); err != nil {
			return fmt.Errorf("settings %s: %s: %w", c.Settings, s.key, err)
		}
	}
	return nil
}
