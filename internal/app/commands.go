package app

import (
	"context"
	"strconv"
	"strings"
	"time"

	"classbook/internal/agenda"
	"classbook/internal/schedule"
	logx "classbook/pkg/logx"
)

// Line is one numbered line of output. Pos is the 1-based number the user
// sees; Row.Index is the backing index behind it.
type Line struct {
	Pos int
	Row schedule.Row
}

// ParsePosition reads a 1-based position typed by the user and returns the
// 0-based one. "0" means nothing selected.
func ParsePosition(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return schedule.NoSelection, usagef("position must be a number, got %q", s)
	}
	return n - 1, nil
}

// Listing returns the sorted listing, numbered from 1.
func (a *App) Listing() []Line {
	rows := a.store.SortedRows()
	out := make([]Line, len(rows))
	for i, r := range rows {
		out[i] = Line{Pos: i + 1, Row: r}
	}
	return out
}

func (a *App) Add(ctx context.Context, className, day, at string) error {
	err := a.store.Add(ctx, className, day, at)
	a.logResult("add", err)
	return err
}

// Show returns the entry at a sorted-listing position, to pre-fill an edit.
func (a *App) Show(displayPos int) (schedule.Entry, error) {
	e, _, err := a.store.Edit(displayPos)
	return e, err
}

// Update replaces the entry shown at a sorted-listing position.
func (a *App) Update(ctx context.Context, displayPos int, className, day, at string) error {
	idx, err := a.store.BackingIndex(displayPos)
	if err == nil {
		err = a.store.Update(ctx, idx, className, day, at)
	}
	a.logResult("update", err, logx.Int("pos", displayPos+1))
	return err
}

// Delete removes the entry shown at a sorted-listing position.
func (a *App) Delete(ctx context.Context, displayPos int) error {
	idx, err := a.store.BackingIndex(displayPos)
	if err == nil {
		err = a.store.Delete(ctx, idx)
	}
	a.logResult("delete", err, logx.Int("pos", displayPos+1))
	return err
}

// Search returns matches in backing order, each numbered with its position in
// the sorted listing so the number can be passed to Update or Delete.
// An empty term returns the full listing.
func (a *App) Search(term string) []Line {
	if term == "" {
		return a.Listing()
	}
	pos := make(map[int]int, a.store.Len())
	for i, r := range a.store.SortedRows() {
		pos[r.Index] = i + 1
	}
	rows := a.store.SearchRows(term)
	out := make([]Line, len(rows))
	for i, r := range rows {
		out[i] = Line{Pos: pos[r.Index], Row: r}
	}
	return out
}

// Upcoming lists the next occurrences in the configured timezone.
func (a *App) Upcoming(now time.Time, limit int) ([]agenda.Occurrence, error) {
	loc, err := a.Config().Location()
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	return agenda.Upcoming(a.store.Entries(), now.In(loc), limit), nil
}

func (a *App) logResult(op string, err error, fields ...logx.Field) {
	fields = append(fields, logx.String("op", op))
	switch {
	case err == nil:
		a.log.Info("schedule changed", append(fields, logx.Int("entries", a.store.Len()))...)
	case IsWarning(err):
		a.log.Debug("schedule change rejected", append(fields, logx.Err(err))...)
	default:
		a.log.Error("schedule change failed", append(fields, logx.Err(err))...)
	}
}
