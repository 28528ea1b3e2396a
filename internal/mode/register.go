package mode

import (
	"bytes"
	"strings"
)

// Register holds the last yanked or deleted text, mirroring the unnamed
// register: linewise or charwise text, or a block of lines for
// visual-block yanks. internal/editor mirrors this onto the OS clipboard
// via internal/clipboard, in both directions: Set bumps Version so a yank
// or delete gets pushed out to the OS selection, and LoadText pulls
// external clipboard content in before a paste consumes it.
type Register struct {
	Lines    [][]byte
	Linewise bool
	Block    bool
	Version  int
}

// Set replaces the register contents with lines.
func (r *Register) Set(lines [][]byte, linewise, block bool) {
	r.Lines = lines
	r.Linewise = linewise
	r.Block = block
	r.Version++
}

// Text joins the register's lines with newlines, the form handed to the
// OS clipboard.
func (r *Register) Text() string {
	return string(bytes.Join(r.Lines, []byte("\n")))
}

// LoadText replaces the register with plain text split on newlines,
// charwise (clipboard text carries no block/linewise shape of its own).
func (r *Register) LoadText(s string) {
	parts := strings.Split(s, "\n")
	lines := make([][]byte, len(parts))
	for i, p := range parts {
		lines[i] = []byte(p)
	}
	r.Lines = lines
	r.Linewise = false
	r.Block = false
	r.Version++
}
