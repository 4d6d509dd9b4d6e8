package config

import "fmt"

// Validate rejects values no component can work with.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	switch cfg.Storage.Driver {
	case "file", "sqlite", "sqlite3", "memory":
	default:
		return fmt.Errorf("storage.driver: unknown driver %q", cfg.Storage.Driver)
	}
	switch cfg.Storage.Format {
	case "strings", "records":
	default:
		return fmt.Errorf("storage.format: must be \"strings\" or \"records\", got %q", cfg.Storage.Format)
	}
	if _, err := ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout); err != nil {
		return err
	}
	if _, err := cfg.Location(); err != nil {
		return fmt.Errorf("display.timezone: %w", err)
	}
	return nil
}
