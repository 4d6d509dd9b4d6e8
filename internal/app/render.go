package app

import (
	"fmt"
	"io"
	"time"

	"classbook/internal/agenda"
	"classbook/internal/schedule"
)

const emptyListing = "(no classes scheduled)"

func writeLines(w io.Writer, lines []Line) {
	if len(lines) == 0 {
		fmt.Fprintln(w, emptyListing)
		return
	}
	width := 1
	for _, l := range lines {
		if n := len(fmt.Sprint(l.Pos)); n > width {
			width = n
		}
	}
	for _, l := range lines {
		fmt.Fprintf(w, "%*d. %s\n", width, l.Pos, l.Row.Text)
	}
}

// PrintListing writes one page (1-based) of the sorted listing.
// page <= 0 prints everything.
func (a *App) PrintListing(page int) {
	lines := a.Listing()
	if page <= 0 {
		writeLines(a.out, lines)
		return
	}
	size := a.Config().Display.PageSize
	sub, _, _, hasNext := PaginateSlice(lines, page-1, size)
	writeLines(a.out, sub)
	if len(lines) > size {
		label := PageLabel(page-1, size, len(lines))
		if hasNext {
			label += fmt.Sprintf(" (next: --page %d)", page+1)
		}
		fmt.Fprintln(a.out, label)
	}
}

func (a *App) PrintLines(lines []Line) { writeLines(a.out, lines) }

func (a *App) PrintEntry(e schedule.Entry) {
	fmt.Fprintf(a.out, "class: %s\nday:   %s\ntime:  %s\n", e.ClassName, e.Day, e.Time)
}

func (a *App) PrintUpcoming(occ []agenda.Occurrence) {
	if len(occ) == 0 {
		fmt.Fprintln(a.out, "(no classes with a weekday and clock time)")
		return
	}
	for _, o := range occ {
		fmt.Fprintf(a.out, "%s  %s\n", formatWhen(o.At), o.Entry.String())
	}
}

func formatWhen(t time.Time) string { return t.Format("Mon Jan _2 15:04") }
