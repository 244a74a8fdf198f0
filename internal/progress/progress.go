// Package progress renders per-page status on the progress stream. On a
// terminal the status line is rewritten in place; elsewhere only the final
// summary is printed so piped logs stay clean.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Reporter receives one status tuple after each page and a final one when
// the session ends.
type Reporter interface {
	Page(page, entries int)
	Done(pages, entries int)
}

// New returns a Reporter for w: an in-place ANSI renderer when w is a
// terminal, otherwise a summary-only renderer.
func New(w io.Writer) Reporter {
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return &ansiReporter{w: w}
	}
	return &plainReporter{w: w}
}

// ansiReporter rewrites a dim status line in place: erase to end of line,
// print, return the cursor to column one.
type ansiReporter struct {
	w io.Writer
}

func (r *ansiReporter) Page(page, entries int) {
	fmt.Fprintf(r.w, "\x1b[K\x1b[38;5;249m(Page %d: %d entries)\x1b[0m\x1b[G", page, entries)
}

func (r *ansiReporter) Done(pages, entries int) {
	fmt.Fprint(r.w, "\x1b[K")
	fmt.Fprintf(r.w, "(Pages: %d, Entries: %d)\n", pages, entries)
}

type plainReporter struct {
	w io.Writer
}

func (r *plainReporter) Page(page, entries int) {}

func (r *plainReporter) Done(pages, entries int) {
	fmt.Fprintf(r.w, "(Pages: %d, Entries: %d)\n", pages, entries)
}
