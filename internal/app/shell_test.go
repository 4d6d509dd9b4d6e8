package app

import (
	"context"
	"strings"
	"testing"

	"classbook/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShell(t *testing.T, seed ...schedule.Entry) (*Shell, *App) {
	t.Helper()
	a, out, _ := newTestApp(t)
	for _, e := range seed {
		require.NoError(t, a.Add(context.Background(), e.ClassName, e.Day, e.Time))
	}
	out.Reset()
	sh := NewShell(a, strings.NewReader(""))
	sh.showSorted()
	return sh, a
}

func runLine(t *testing.T, sh *Shell, line string) error {
	t.Helper()
	quit, err := sh.Exec(context.Background(), line)
	require.False(t, quit, line)
	return err
}

func TestShellDeleteAfterSearchRemovesSearchHit(t *testing.T) {
	sh, a := newTestShell(t,
		schedule.Entry{ClassName: "Algebra", Day: "Monday", Time: "9:00"},
		schedule.Entry{ClassName: "Biology", Day: "Tuesday", Time: "10:00"},
	)

	require.NoError(t, runLine(t, sh, "search bio"))
	require.NoError(t, runLine(t, sh, "delete 1"))

	assert.Equal(t, []string{"Algebra - Monday at 9:00"}, a.Store().ListSorted())
}

func TestShellViewResetsAfterMutation(t *testing.T) {
	sh, a := newTestShell(t,
		schedule.Entry{ClassName: "Algebra", Day: "Monday", Time: "9:00"},
		schedule.Entry{ClassName: "Biology", Day: "Tuesday", Time: "10:00"},
		schedule.Entry{ClassName: "Chemistry", Day: "Friday", Time: "8:00"},
	)
	require.NoError(t, runLine(t, sh, "search chem"))
	require.Len(t, sh.view, 1)

	require.NoError(t, runLine(t, sh, `add "Art history" Sunday noon`))
	assert.Len(t, sh.view, 4)

	// Back on the sorted listing: 1 is Algebra.
	require.NoError(t, runLine(t, sh, "delete 1"))
	assert.Equal(t, []string{
		"Art history - Sunday at noon",
		"Biology - Tuesday at 10:00",
		"Chemistry - Friday at 8:00",
	}, a.Store().ListSorted())
}

func TestShellEmptySearchKeepsView(t *testing.T) {
	sh, _ := newTestShell(t,
		schedule.Entry{ClassName: "Algebra", Day: "Monday", Time: "9:00"},
		schedule.Entry{ClassName: "Biology", Day: "Tuesday", Time: "10:00"},
	)
	require.NoError(t, runLine(t, sh, "search bio"))
	before := append([]schedule.Row(nil), sh.view...)

	require.NoError(t, runLine(t, sh, "search"))
	assert.Equal(t, before, sh.view)
}

func TestShellEditSave(t *testing.T) {
	sh, a := newTestShell(t,
		schedule.Entry{ClassName: "Biology", Day: "Tuesday", Time: "10:00"},
		schedule.Entry{ClassName: "Algebra", Day: "Monday", Time: "9:00"},
	)

	err := runLine(t, sh, "save Algebra Wednesday 9:00")
	assert.ErrorIs(t, err, schedule.ErrIndex)
	assert.Equal(t, "please select a class first", err.Error())

	require.NoError(t, runLine(t, sh, "edit 1"))
	assert.Equal(t, 1, sh.editing)
	assert.Equal(t, "classbook (editing)> ", sh.prompt())

	// A validation failure keeps edit mode armed.
	err = runLine(t, sh, `save Algebra "" 9:00`)
	assert.ErrorIs(t, err, schedule.ErrValidation)
	assert.Equal(t, 1, sh.editing)

	require.NoError(t, runLine(t, sh, "save Algebra Wednesday 9:00"))
	assert.Equal(t, schedule.NoSelection, sh.editing)
	assert.Equal(t, []schedule.Entry{
		{ClassName: "Biology", Day: "Tuesday", Time: "10:00"},
		{ClassName: "Algebra", Day: "Wednesday", Time: "9:00"},
	}, a.Store().Entries())
}

func TestShellCancelDisarmsEdit(t *testing.T) {
	sh, a := newTestShell(t, schedule.Entry{ClassName: "Algebra", Day: "Monday", Time: "9:00"})
	require.NoError(t, runLine(t, sh, "edit 1"))
	require.NoError(t, runLine(t, sh, "cancel"))

	assert.ErrorIs(t, runLine(t, sh, "save X Y Z"), schedule.ErrIndex)
	assert.Equal(t, []string{"Algebra - Monday at 9:00"}, a.Store().ListSorted())
}

func TestShellUserMistakes(t *testing.T) {
	sh, a := newTestShell(t, schedule.Entry{ClassName: "Algebra", Day: "Monday", Time: "9:00"})

	for _, line := range []string{
		"delete",
		"delete one",
		"delete 0",
		"delete 7",
		"edit 2",
		"add Algebra Monday",
		`add "" Monday 9:00`,
		"upcoming many",
		"frobnicate",
	} {
		err := runLine(t, sh, line)
		require.Error(t, err, line)
		assert.True(t, IsWarning(err), line)
	}
	assert.Equal(t, 1, a.Store().Len())
}

func TestShellRunPrintsWarningsAndQuits(t *testing.T) {
	a, out, _ := newTestApp(t)
	in := strings.NewReader("add Algebra Monday\nadd Algebra Monday 9:00\nlist\nquit\nadd Never Monday 9:00\n")

	require.NoError(t, NewShell(a, in).Run(context.Background()))

	assert.Contains(t, out.String(), "warning: usage: add NAME DAY TIME")
	assert.Contains(t, out.String(), "1. Algebra - Monday at 9:00")
	assert.Equal(t, []string{"Algebra - Monday at 9:00"}, a.Store().ListSorted())
}

func TestShellRunStopsAtEOF(t *testing.T) {
	a, out, _ := newTestApp(t)
	require.NoError(t, NewShell(a, strings.NewReader("days\n")).Run(context.Background()))
	assert.Contains(t, out.String(), "Monday, Tuesday")
}

func TestShellOutOfRangeShowsTypedNumber(t *testing.T) {
	sh, _ := newTestShell(t, schedule.Entry{ClassName: "Algebra", Day: "Monday", Time: "9:00"})

	err := runLine(t, sh, "delete 7")
	assert.EqualError(t, err, "position 7 is out of range (1-1)")
}
