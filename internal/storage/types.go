package storage

import (
	"context"
	"time"

	"classbook/internal/schedule"
)

// Store is the persistence API used by the schedule store.
type Store interface {
	Load(ctx context.Context) ([]schedule.Entry, error)
	Save(ctx context.Context, entries []schedule.Entry) error
	Close() error
}

var _ schedule.Backend = Store(nil)

// File formats for the file driver.
const (
	FormatStrings = "strings"
	FormatRecords = "records"
)

// Config configures storage.
//
// Driver values:
//   - "file": JSON file (default)
//   - "sqlite": SQLite database file
//   - "memory": nothing leaves the process
type Config struct {
	Driver      string
	Path        string
	Format      string        // file only; FormatStrings when empty
	BusyTimeout time.Duration // sqlite only; 0 means default
}
