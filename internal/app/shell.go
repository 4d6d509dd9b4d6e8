package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"classbook/internal/schedule"
	logx "classbook/pkg/logx"
)

const shellHelp = `commands:
  list                      show all classes, sorted
  add NAME DAY TIME         add a class (quote values with spaces)
  edit N                    load class N of the current view for editing
  save NAME DAY TIME        replace the class loaded by edit
  cancel                    stop editing
  delete N                  delete class N of the current view
  search TERM               show classes containing TERM (any case)
  upcoming [N]              next occurrences of classes
  days                      list day names
  help                      this text
  quit                      leave
`

// Shell is the interactive presentation layer. It keeps the listing last
// shown (the view) so that numbers typed by the user always refer to what is
// on screen, sorted listing or search result alike.
type Shell struct {
	app *App
	in  io.Reader
	out io.Writer
	now func() time.Time

	view    []schedule.Row
	editing int // backing index loaded by edit, or NoSelection
}

func NewShell(a *App, in io.Reader) *Shell {
	return &Shell{
		app:     a,
		in:      in,
		out:     a.out,
		now:     time.Now,
		editing: schedule.NoSelection,
	}
}

// Run reads commands until quit or end of input.
func (s *Shell) Run(ctx context.Context) error {
	s.showSorted()

	sc := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, s.prompt())
		if !sc.Scan() {
			fmt.Fprintln(s.out)
			if ctx.Err() != nil {
				return nil
			}
			return sc.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		quit, err := s.Exec(ctx, sc.Text())
		switch {
		case err == nil:
		case IsWarning(err):
			fmt.Fprintf(s.out, "warning: %v\n", err)
		default:
			// The store kept its last saved state, so the session can go on.
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

func (s *Shell) prompt() string {
	if s.editing != schedule.NoSelection {
		return "classbook (editing)> "
	}
	return "classbook> "
}

// Exec runs one command line and reports the first error it hit.
func (s *Shell) Exec(ctx context.Context, line string) (quit bool, err error) {
	args := tokenizeLine(line)
	if len(args) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprint(s.out, shellHelp)
	case "list", "ls":
		s.showSorted()
	case "days":
		fmt.Fprintln(s.out, strings.Join(schedule.Weekdays, ", "))
	case "add":
		if len(args) != 3 {
			return false, usagef("usage: add NAME DAY TIME")
		}
		return false, s.mutated(s.app.Add(ctx, args[0], args[1], args[2]))
	case "edit":
		return false, s.edit(args)
	case "save", "update":
		return false, s.save(ctx, args)
	case "cancel":
		s.editing = schedule.NoSelection
	case "delete", "del", "rm":
		if len(args) != 1 {
			return false, usagef("usage: delete N")
		}
		idx, err := s.selected(args[0])
		if err != nil {
			return false, err
		}
		err = s.app.store.Delete(ctx, idx)
		s.app.logResult("delete", err, logx.Int("index", idx))
		return false, s.mutated(err)
	case "search", "find":
		term := strings.Join(args, " ")
		if term == "" {
			// Cancelled search: keep whatever is on screen.
			return false, nil
		}
		s.view = s.app.store.SearchRows(term)
		s.printView()
	case "upcoming", "next":
		limit := 0
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return false, usagef("usage: upcoming [N]")
			}
			limit = n
		}
		occ, err := s.app.Upcoming(s.now(), limit)
		if err != nil {
			return false, err
		}
		s.app.PrintUpcoming(occ)
	default:
		return false, usagef("unknown command %q (try help)", cmd)
	}
	return false, nil
}

func (s *Shell) edit(args []string) error {
	if len(args) != 1 {
		return usagef("usage: edit N")
	}
	idx, err := s.selected(args[0])
	if err != nil {
		return err
	}
	e := s.app.store.Entries()[idx]
	s.editing = idx
	s.app.PrintEntry(e)
	fmt.Fprintln(s.out, "type: save NAME DAY TIME (or cancel)")
	return nil
}

func (s *Shell) save(ctx context.Context, args []string) error {
	if s.editing == schedule.NoSelection {
		return &schedule.IndexError{Index: schedule.NoSelection, Len: s.app.store.Len()}
	}
	if len(args) != 3 {
		return usagef("usage: save NAME DAY TIME")
	}
	err := s.app.store.Update(ctx, s.editing, args[0], args[1], args[2])
	s.app.logResult("update", err, logx.Int("index", s.editing))
	if errors.Is(err, schedule.ErrValidation) {
		// Stay in edit mode so the user can correct the fields.
		return err
	}
	return s.mutated(err)
}

// selected maps a number typed by the user onto the backing index of the
// corresponding row in the current view.
func (s *Shell) selected(raw string) (int, error) {
	pos, err := ParsePosition(raw)
	if err != nil {
		return schedule.NoSelection, err
	}
	if pos < 0 {
		return schedule.NoSelection, &schedule.IndexError{Index: schedule.NoSelection, Len: len(s.view)}
	}
	if pos >= len(s.view) {
		return schedule.NoSelection, &schedule.IndexError{Index: pos, Len: len(s.view)}
	}
	return s.view[pos].Index, nil
}

// mutated refreshes the view after a successful mutation. Any pending edit
// refers to backing indices that may have moved, so it is dropped.
func (s *Shell) mutated(err error) error {
	if err != nil {
		return err
	}
	s.editing = schedule.NoSelection
	s.showSorted()
	return nil
}

func (s *Shell) showSorted() {
	s.view = s.app.store.SortedRows()
	s.printView()
}

func (s *Shell) printView() {
	lines := make([]Line, len(s.view))
	for i, r := range s.view {
		lines[i] = Line{Pos: i + 1, Row: r}
	}
	writeLines(s.out, lines)
	s.app.log.Trace("view rendered", logx.Int("rows", len(lines)))
}
