// Package diag centralizes the two error-reporting paths the editor uses
// (§7): a status-line message for recoverable conditions (I/O failure,
// unknown command, out-of-range operand, overwrite collision, unsaved
// changes, regex parse error) and a fatal path for the one unrecoverable
// category, OOM.
//
// Grounded in the teacher's split between StatusBar.SetMessage (status.go)
// and main.go's fmt.Fprintf(os.Stderr, ...); os.Exit(1) — both kept as
// plain functions here rather than a logging library, matching the
// teacher's own lack of one (see DESIGN.md and SPEC_FULL.md §2).
package diag

import (
	"fmt"
	"os"
)

// Message is a status-line diagnostic: not an exceptional condition, just
// text the mode/editor layer surfaces to the user without changing state.
type Message struct {
	text string
}

func (m *Message) Error() string { return m.text }

// Status wraps msg as a *Message so callers can both return it as an error
// and have the editor loop recognize it for status-line display instead of
// treating it as a crash.
func Status(format string, args ...any) error {
	return &Message{text: fmt.Sprintf(format, args...)}
}

// AsMessage reports whether err originated from Status, returning its text.
func AsMessage(err error) (string, bool) {
	m, ok := err.(*Message)
	if !ok {
		return "", false
	}
	return m.text, true
}

// Fatal reports an unrecoverable error (category 7, OOM and friends) to
// stderr and exits, mirroring main.go's single exit path.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "purec: fatal: %v\n", err)
	os.Exit(1)
}
