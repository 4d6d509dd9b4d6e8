package config

import (
	"fmt"
	"strings"
	"time"
)

// ParseDurationField parses a Go duration string read from the config key
// named by field (for example "storage.busy_timeout"). An empty value is
// zero. Negative durations are rejected and errors carry the key name.
func ParseDurationField(field, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	switch {
	case err != nil:
		return 0, fmt.Errorf("%s: invalid duration %q: %w", field, raw, err)
	case d < 0:
		return 0, fmt.Errorf("%s: duration must not be negative, got %s", field, d)
	}
	return d, nil
}

// ParseDurationOrDefault is ParseDurationField with def standing in for an
// empty or zero value.
func ParseDurationOrDefault(field, raw string, def time.Duration) (time.Duration, error) {
	d, err := ParseDurationField(field, raw)
	if err != nil || d > 0 {
		return d, err
	}
	return def, nil
}
