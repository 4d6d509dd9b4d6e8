package schedule

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrIndex      = errors.New("invalid selection")
	ErrStorage    = errors.New("storage failure")
)

// ValidationError reports which required fields were empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "please fill out all fields"
	}
	return "please fill out all fields (empty: " + strings.Join(e.Fields, ", ") + ")"
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// IndexError reports a missing selection or a position outside the list.
// Index is 0-based, or NoSelection when nothing was selected.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	if e == nil {
		return ErrIndex.Error()
	}
	if e.Index == NoSelection {
		return "please select a class first"
	}
	// Index is 0-based; the user typed Index+1.
	if e.Len == 0 {
		return fmt.Sprintf("position %d is out of range: the list is empty", e.Index+1)
	}
	return fmt.Sprintf("position %d is out of range (1-%d)", e.Index+1, e.Len)
}

func (e *IndexError) Is(target error) bool { return target == ErrIndex }

// StorageError wraps a backend failure. Op is "load" or "save".
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e == nil {
		return ErrStorage.Error()
	}
	if e.Err == nil {
		return "storage " + e.Op + " failed"
	}
	return "storage " + e.Op + " failed: " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func validateFields(className, day, at string) error {
	var empty []string
	if className == "" {
		empty = append(empty, "class name")
	}
	if day == "" {
		empty = append(empty, "day")
	}
	if at == "" {
		empty = append(empty, "time")
	}
	if len(empty) > 0 {
		return &ValidationError{Fields: empty}
	}
	return nil
}
