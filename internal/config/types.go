package config

import (
	"strings"
	"time"

	logx "classbook/pkg/logx"
)

const (
	DefaultDataPath = "./class_schedule.json"
	DefaultPageSize = 20
	DefaultBusy     = 5 * time.Second
)

type Config struct {
	Logging LoggingConfig `json:"logging"`
	Storage StorageConfig `json:"storage"`
	Display DisplayConfig `json:"display,omitempty"`
}

type LoggingConfig struct {
	Level   string            `json:"level"`
	Console bool              `json:"console"`
	File    LoggingFileConfig `json:"file"`
}

type LoggingFileConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

// StorageConfig selects the schedule backend.
//
// Driver values:
//   - "file": JSON file (default)
//   - "sqlite": SQLite database file
//   - "memory": nothing is written to disk
//
// Format applies to the file driver only: "strings" keeps the list as rendered
// lines ("Algebra - Monday at 9:00"), "records" keeps one object per entry.
type StorageConfig struct {
	Driver string `json:"driver"`
	Path   string `json:"path"`
	Format string `json:"format,omitempty"`

	// BusyTimeout is a Go duration string (sqlite only).
	BusyTimeout string `json:"busy_timeout,omitempty"`
}

type DisplayConfig struct {
	PageSize int    `json:"page_size,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// Default is the config used when no config file exists.
func Default() *Config {
	cfg := &Config{
		Logging: LoggingConfig{Level: "warn", Console: true},
	}
	cfg.Normalize()
	return cfg
}

// Normalize fills omitted fields with their defaults.
func (c *Config) Normalize() {
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = "warn"
	}
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if c.Storage.Driver == "" {
		c.Storage.Driver = "file"
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		switch c.Storage.Driver {
		case "sqlite", "sqlite3":
			c.Storage.Path = "./class_schedule.db"
		default:
			c.Storage.Path = DefaultDataPath
		}
	}
	c.Storage.Format = strings.ToLower(strings.TrimSpace(c.Storage.Format))
	if c.Storage.Format == "" {
		c.Storage.Format = "strings"
	}
	if c.Display.PageSize <= 0 {
		c.Display.PageSize = DefaultPageSize
	}
	if strings.TrimSpace(c.Display.Timezone) == "" {
		c.Display.Timezone = "Local"
	}
}

// LogConfig converts the logging section for logx.
func (c *Config) LogConfig() logx.Config {
	return logx.Config{
		Level:   c.Logging.Level,
		Console: c.Logging.Console,
		File: logx.FileConfig{
			Enabled: c.Logging.File.Enabled,
			Path:    c.Logging.File.Path,
		},
	}
}

// Location resolves display.timezone.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Display.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(tz)
}
