package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"classbook/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*App, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "schedule.json")
	var out bytes.Buffer
	a, err := New(context.Background(), Options{
		ConfigPath: filepath.Join(dir, "classbook.yaml"),
		DataPath:   data,
		Out:        &out,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, &out, data
}

func TestNewUsesDefaultsWhenConfigIsMissing(t *testing.T) {
	a, _, data := newTestApp(t)
	cfg := a.Config()
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, data, cfg.Storage.Path)
	assert.Equal(t, 0, a.Store().Len())
}

func TestNewRejectsBadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "classbook.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  driver: tape\n"), 0o644))

	_, err := New(context.Background(), Options{ConfigPath: path})
	require.Error(t, err)
	assert.Equal(t, ExitStorage, ExitCode(err))
}

func TestNewRejectsMalformedData(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "schedule.json")
	require.NoError(t, os.WriteFile(data, []byte("{not json"), 0o644))

	_, err := New(context.Background(), Options{
		ConfigPath: filepath.Join(dir, "missing.yaml"),
		DataPath:   data,
	})
	assert.ErrorIs(t, err, schedule.ErrStorage)
	assert.Equal(t, ExitStorage, ExitCode(err))
}

func TestCommandsPersistAcrossRestart(t *testing.T) {
	ctx := context.Background()
	a, _, data := newTestApp(t)
	require.NoError(t, a.Add(ctx, "Biology", "Tuesday", "10:00"))
	require.NoError(t, a.Add(ctx, "Algebra", "Monday", "9:00"))

	raw, err := os.ReadFile(data)
	require.NoError(t, err)
	assert.JSONEq(t, `["Biology - Tuesday at 10:00","Algebra - Monday at 9:00"]`, string(raw))

	// Position 1 of the sorted listing is Algebra, stored second.
	require.NoError(t, a.Update(ctx, 0, "Algebra", "Wednesday", "9:00"))
	require.NoError(t, a.Close())

	b, err := New(ctx, Options{ConfigPath: a.opts.ConfigPath, DataPath: data, Out: &bytes.Buffer{}})
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, []string{"Algebra - Wednesday at 9:00", "Biology - Tuesday at 10:00"}, b.Store().ListSorted())
}

func TestShowAndDeleteUseSortedPositions(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestApp(t)
	require.NoError(t, a.Add(ctx, "Zoology", "Friday", "7:00"))
	require.NoError(t, a.Add(ctx, "Algebra", "Monday", "9:00"))

	e, err := a.Show(0)
	require.NoError(t, err)
	assert.Equal(t, "Algebra", e.ClassName)

	require.NoError(t, a.Delete(ctx, 0))
	assert.Equal(t, []string{"Zoology - Friday at 7:00"}, a.Store().ListSorted())

	err = a.Delete(ctx, 5)
	assert.ErrorIs(t, err, schedule.ErrIndex)
	assert.Equal(t, ExitUserError, ExitCode(err))
}

func TestSearchNumbersHitsWithSortedPositions(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestApp(t)
	require.NoError(t, a.Add(ctx, "Marine biology", "Friday", "14:00"))
	require.NoError(t, a.Add(ctx, "Algebra", "Monday", "9:00"))
	require.NoError(t, a.Add(ctx, "Biology", "Tuesday", "10:00"))

	lines := a.Search("bio")
	require.Len(t, lines, 2)
	assert.Equal(t, "Marine biology - Friday at 14:00", lines[0].Row.Text)
	assert.Equal(t, 3, lines[0].Pos)
	assert.Equal(t, 2, lines[1].Pos)

	assert.Equal(t, a.Listing(), a.Search(""))
}

func TestPrintListingPages(t *testing.T) {
	ctx := context.Background()
	a, out, _ := newTestApp(t)
	a.Config().Display.PageSize = 2
	for _, n := range []string{"A", "B", "C"} {
		require.NoError(t, a.Add(ctx, n, "Monday", "9:00"))
	}

	a.PrintListing(1)
	assert.Equal(t, "1. A - Monday at 9:00\n2. B - Monday at 9:00\npage 1/2, 1-2 of 3 (next: --page 2)\n", out.String())

	out.Reset()
	a.PrintListing(2)
	assert.Equal(t, "3. C - Monday at 9:00\npage 2/2, 3-3 of 3\n", out.String())

	out.Reset()
	a.PrintListing(0)
	assert.Equal(t, 3, strings.Count(out.String(), "\n"))
}

func TestPrintListingEmpty(t *testing.T) {
	a, out, _ := newTestApp(t)
	a.PrintListing(0)
	assert.Equal(t, emptyListing+"\n", out.String())
}

func TestUpcomingUsesConfiguredTimezone(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestApp(t)
	a.Config().Display.Timezone = "UTC"
	require.NoError(t, a.Add(ctx, "Algebra", "Monday", "9:00"))
	require.NoError(t, a.Add(ctx, "Art", "someday", "whenever"))

	// Sunday 2024-06-02 12:00 UTC.
	now := time.Date(2024, time.June, 2, 12, 0, 0, 0, time.UTC)
	occ, err := a.Upcoming(now, 0)
	require.NoError(t, err)
	require.Len(t, occ, 1)
	assert.Equal(t, time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC), occ[0].At)
}

func TestParsePosition(t *testing.T) {
	pos, err := ParsePosition(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	pos, err = ParsePosition("0")
	require.NoError(t, err)
	assert.Equal(t, schedule.NoSelection, pos)

	for _, bad := range []string{"", "x", "-1", "1.5"} {
		_, err := ParsePosition(bad)
		assert.Equal(t, ExitUsage, ExitCode(err), bad)
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitUsage, ExitCode(usagef("nope")))
	assert.Equal(t, ExitUserError, ExitCode(&schedule.ValidationError{Fields: []string{"day"}}))
	assert.Equal(t, ExitUserError, ExitCode(&schedule.IndexError{Index: schedule.NoSelection}))
	assert.Equal(t, ExitStorage, ExitCode(&schedule.StorageError{Op: "save"}))
	assert.Equal(t, ExitStorage, ExitCode(&ConfigError{Err: os.ErrPermission}))

	assert.True(t, IsWarning(usagef("x")))
	assert.False(t, IsWarning(&schedule.StorageError{Op: "save"}))
}

func TestOverridesSurviveConfigReload(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "classbook.yaml")
	fileData := filepath.Join(dir, "from-file.json")
	flagData := filepath.Join(dir, "from-flag.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte("storage:\n  path: "+fileData+"\n"), 0o644))

	a, err := New(context.Background(), Options{ConfigPath: cfgPath, DataPath: flagData, Out: &bytes.Buffer{}})
	require.NoError(t, err)
	defer a.Close()

	// The manager holds the file as written; the app holds it with flags applied.
	assert.Equal(t, fileData, a.cfgm.Get().Storage.Path)
	assert.Equal(t, flagData, a.Config().Storage.Path)

	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: error\nstorage:\n  path: "+fileData+"\n"), 0o644))
	fileCfg, err := a.cfgm.Parse()
	require.NoError(t, err)
	a.reloaded(fileCfg)

	assert.Equal(t, "error", a.Config().Logging.Level)
	assert.Equal(t, flagData, a.Config().Storage.Path)
}

func TestWatchConfigStopsWithContext(t *testing.T) {
	a, _, _ := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	wait := a.WatchConfig(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("config watcher did not stop")
	}
}

func TestDryRunLeavesStorageUntouched(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "schedule.json")
	original := `["Algebra - Monday at 9:00"]`
	require.NoError(t, os.WriteFile(data, []byte(original), 0o644))

	a, err := New(context.Background(), Options{
		ConfigPath: filepath.Join(dir, "missing.yaml"),
		DataPath:   data,
		DryRun:     true,
		Out:        &bytes.Buffer{},
	})
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Add(context.Background(), "Biology", "Tuesday", "10:00"))
	assert.Equal(t, []string{"Algebra - Monday at 9:00", "Biology - Tuesday at 10:00"}, a.Store().ListSorted())

	raw, err := os.ReadFile(data)
	require.NoError(t, err)
	assert.Equal(t, original, string(raw))
}
