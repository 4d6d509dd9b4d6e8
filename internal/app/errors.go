package app

import (
	"errors"
	"fmt"

	"classbook/internal/schedule"
)

const (
	ExitOK        = 0
	ExitUserError = 1
	ExitUsage     = 2
	ExitStorage   = 3
)

// UsageError is a malformed command line (wrong argument count, bad number).
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }

func usagef(format string, args ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// ConfigError wraps a config file or override that could not be used.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "config: " + e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	var usage *UsageError
	var cfgErr *ConfigError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &usage):
		return ExitUsage
	case errors.Is(err, schedule.ErrValidation), errors.Is(err, schedule.ErrIndex):
		return ExitUserError
	case errors.Is(err, schedule.ErrStorage), errors.As(err, &cfgErr):
		return ExitStorage
	default:
		return ExitUserError
	}
}

// IsWarning reports whether err is a user mistake that should be shown as a
// warning rather than end the session.
func IsWarning(err error) bool {
	var usage *UsageError
	return errors.Is(err, schedule.ErrValidation) ||
		errors.Is(err, schedule.ErrIndex) ||
		errors.As(err, &usage)
}
