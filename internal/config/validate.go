package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Issue is one validation finding. Path names the offending flag.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate checks c statically. kinds lists the registered storage kinds.
func Validate(c *Config, kinds []string) []Issue {
	var issues []Issue
	errorf := func(path, format string, args ...any) {
		issues = append(issues, Issue{Severity: SeverityError, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(c.CSVPath) == "" {
		errorf("csv", "source path must not be empty")
	}
	if strings.TrimSpace(c.Table) == "" {
		errorf("table", "table must not be empty")
	}
	if c.BatchSize < 1 {
		errorf("batch_size", "must be at least 1, got %d", c.BatchSize)
	}
	if len(c.Separator) != 1 {
		errorf("separator", "must be exactly one byte, got %q", c.Separator)
	} else if c.Separator == "\n" || c.Separator == "\r" {
		errorf("separator", "line terminators cannot separate fields")
	}
	if b := strings.ToLower(c.Boundary); b != "aligned" && b != "legacy" {
		errorf("boundary", "unknown mode %q (want aligned or legacy)", c.Boundary)
	}
	if c.Workers < 0 {
		errorf("workers", "must not be negative, got %d", c.Workers)
	}

	if !slices.Contains(kinds, c.Storage) {
		errorf("storage", "unknown kind %q (registered: %s)", c.Storage, strings.Join(kinds, ", "))
	} else if c.Storage != "postgres" && c.Storage != "memory" && c.DSN == "" {
		errorf("dsn", "storage %s requires a DSN", c.Storage)
	}
	if c.Unlogged && c.Storage != "postgres" {
		issues = append(issues, Issue{Severity: SeverityWarning, Path: "pg_unlogged", Message: "ignored outside postgres"})
	}

	switch c.Metrics {
	case "", "none":
	case "pushgateway":
		if c.PushgatewayURL == "" {
			errorf("pushgateway_url", "required with --metrics=pushgateway")
		}
	case "datadog":
		if c.StatsdAddr == "" {
			errorf("statsd_addr", "required with --metrics=datadog")
		}
	default:
		errorf("metrics", "unknown backend %q", c.Metrics)
	}
	return issues
}

// Err joins the error-severity issues; nil when there are none.
func Err(issues []Issue) error {
	var errs []error
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			errs = append(errs, iss)
		}
	}
	return errors.Join(errs...)
}
