// Package buffer wraps the text store with file identity, a save
// watermark, dirty-range tracking for incremental highlighting, a search
// match cache and a per-buffer undo log.
package buffer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackwreid/purec/internal/encoding"
	"github.com/jackwreid/purec/internal/text"
	"github.com/jackwreid/purec/internal/undo"
)

// Match is a single search hit, a [From, To) range.
type Match = text.Range

// Buffer is a Text plus everything the editor needs to track about one
// open file or scratch document.
type Buffer struct {
	*text.Text

	ID   int
	Path string // CWD-relative when set; "" for unnamed/scratch buffers

	Undo       *undo.Log
	SaveEventI int // event_i at last save; modified iff EventI != SaveEventI

	MinDirty, MaxDirty int // dirty line range pending re-highlight; see ResetDirty

	Lang string

	searchPattern string
	matches       []Match

	SavedCursor text.Position
	SavedScroll int

	newline string // delimiter detected on read; default "\n"
	enc     string // encoding detected on read; default "utf-8"

	savedSize    int64
	savedModTime int64
}

// New creates an empty, unnamed buffer. The caller assigns ID via a
// Registry.
func New() *Buffer {
	return &Buffer{
		Text:    text.New(),
		Undo:    undo.NewLog(mustStore(), nil),
		newline: "\n",
		enc:     "utf-8",
	}
}

func mustStore() *undo.SegmentStore {
	s, _ := undo.NewSegmentStore("")
	return s
}

// ResetDirty clears the dirty range to its sentinel (no pending
// highlight work): MinDirty <= MaxDirty, or both reset together after a
// full highlight pass.
func (b *Buffer) ResetDirty() {
	b.MinDirty = -1
	b.MaxDirty = -1
}

// markDirty extends [MinDirty, MaxDirty] to cover [from, to].
func (b *Buffer) markDirty(from, to int) {
	if b.MinDirty < 0 || from < b.MinDirty {
		b.MinDirty = from
	}
	if to > b.MaxDirty {
		b.MaxDirty = to
	}
}

// Modified reports whether the buffer has unsaved changes.
func (b *Buffer) Modified() bool { return b.Undo.Len() != b.SaveEventI }

// MarkSaved records the current event index as the save watermark.
func (b *Buffer) MarkSaved() { b.SaveEventI = b.Undo.Len() }

// Insert performs a text insertion, records the undo event and extends
// the dirty range. cursorBefore/After are stamped onto the event for
// undo/redo cursor restore. Named distinctly from the
// embedded Text.InsertRange (rather than shadowing it) so Buffer still
// satisfies undo.Mutator with the embedded method's plain signature,
// which Undo/Redo call directly via PerformUndo/PerformRedo below.
func (b *Buffer) Insert(pos text.Position, src *text.Text, repeat int, cursorBefore, cursorAfter text.Position, transient bool) text.Range {
	rng := b.Text.InsertRange(pos, src, repeat)
	if rng.From != rng.To {
		b.Undo.PushInsert(pos, rng, cursorBefore, cursorAfter, src, false, transient)
		b.markDirty(rng.From.Line, rng.To.Line)
	}
	return rng
}

// InsertBlockAt is Insert's rectangular counterpart.
func (b *Buffer) InsertBlockAt(pos text.Position, src *text.Text, repeat int, cursorBefore, cursorAfter text.Position, transient bool) text.Range {
	rng := b.Text.InsertBlock(pos, src, repeat)
	if rng.From != rng.To {
		b.Undo.PushInsert(pos, rng, cursorBefore, cursorAfter, src, true, transient)
		b.markDirty(rng.From.Line, rng.To.Line)
	}
	return rng
}

// Delete deletes [from, to), records the undo event and extends the
// dirty range.
func (b *Buffer) Delete(from, to text.Position, cursorBefore, cursorAfter text.Position, transient bool) (*text.Text, text.Range) {
	removed, rng := b.Text.DeleteRange(from, to)
	if rng.From != rng.To {
		b.Undo.PushDelete(rng, cursorBefore, cursorAfter, removed, false, transient)
		b.markDirty(rng.From.Line, rng.From.Line)
	}
	return removed, rng
}

// DeleteBlockAt is Delete's rectangular counterpart.
func (b *Buffer) DeleteBlockAt(from, to text.Position, cursorBefore, cursorAfter text.Position, transient bool) (*text.Text, text.Range) {
	removed, rng := b.Text.DeleteBlock(from, to)
	if rng.From != rng.To {
		b.Undo.PushDelete(rng, cursorBefore, cursorAfter, removed, true, transient)
		b.markDirty(rng.From.Line, rng.To.Line)
	}
	return removed, rng
}

// Change applies conv over [from, to), records a REPLACE event and
// extends the dirty range. A single-row change is never marked
// transient, applied uniformly to both Change and ChangeBlockAt.
func (b *Buffer) Change(from, to text.Position, conv text.ByteTransform, cursorBefore, cursorAfter text.Position) text.Range {
	delta, rng := b.Text.ChangeRange(from, to, conv)
	if len(delta) > 0 {
		b.Undo.PushReplace(rng, cursorBefore, cursorAfter, delta, false)
		b.markDirty(rng.From.Line, rng.To.Line)
	}
	return rng
}

// ChangeBlockAt is Change's rectangular counterpart.
func (b *Buffer) ChangeBlockAt(from, to text.Position, conv text.ByteTransform, cursorBefore, cursorAfter text.Position) text.Range {
	delta, rng := b.Text.ChangeBlock(from, to, conv)
	if len(delta) > 0 {
		b.Undo.PushReplace(rng, cursorBefore, cursorAfter, delta, true)
		b.markDirty(rng.From.Line, rng.To.Line)
	}
	return rng
}

// ApplyXOR satisfies undo.Mutator: it applies the delta through the
// embedded Text and extends the dirty range over the changed lines.
func (b *Buffer) ApplyXOR(from, to text.Position, delta []byte) {
	b.Text.ApplyXOR(from, to, delta)
	b.markDirty(from.Line, to.Line)
}

// PerformUndo wraps b.Undo.Undo, marking the buffer dirty over the
// affected span so the highlight driver catches up.
func (b *Buffer) PerformUndo() (text.Position, bool) {
	before := b.NumLines()
	cur, ok := b.Undo.Undo(b)
	if ok {
		b.markDirty(0, max(before, b.NumLines())-1)
	}
	return cur, ok
}

// PerformRedo wraps b.Undo.Redo the same way.
func (b *Buffer) PerformRedo() (text.Position, bool) {
	before := b.NumLines()
	cur, ok := b.Undo.Redo(b)
	if ok {
		b.markDirty(0, max(before, b.NumLines())-1)
	}
	return cur, ok
}

// detectDelimiter finds the first of "\n", "\r\n", "\r" in data and
// returns it, defaulting to "\n" when none is present.
func detectDelimiter(data []byte) string {
	for i, b := range data {
		if b == '\n' {
			if i > 0 && data[i-1] == '\r' {
				return "\r\n"
			}
			return "\n"
		}
		if b == '\r' {
			if i+1 < len(data) && data[i+1] == '\n' {
				return "\r\n"
			}
			return "\r"
		}
	}
	return "\n"
}

func splitLines(data []byte, delim string) [][]byte {
	if len(data) == 0 {
		return nil
	}
	trimmed := data
	if bytes.HasSuffix(trimmed, []byte(delim)) {
		trimmed = trimmed[:len(trimmed)-len(delim)]
	}
	if len(trimmed) == 0 {
		return [][]byte{nil}
	}
	return bytes.Split(trimmed, []byte(delim))
}

// ReadFile reads fp's full contents, detects the line delimiter and
// encoding, transcodes to UTF-8 if needed, and inserts the result at pos
// as a single insertion event.
func (b *Buffer) ReadFile(pos text.Position, fp *os.File) error {
	raw, err := io.ReadAll(fp)
	if err != nil {
		return fmt.Errorf("buffer: read: %w", err)
	}
	decoded, enc, err := encoding.DetectAndDecode(raw)
	if err != nil {
		return fmt.Errorf("buffer: decode: %w", err)
	}
	b.enc = enc
	delim := detectDelimiter(decoded)
	b.newline = delim
	lines := splitLines(decoded, delim)
	if lines == nil {
		return nil
	}
	src := text.FromLines(lines)
	b.Insert(pos, src, 1, pos, pos, false)
	return nil
}

// WriteFile writes lines [from, to] (inclusive) to fp, joined by the
// buffer's delimiter, with no trailing delimiter iff the last line
// written is empty.
func (b *Buffer) WriteFile(from, to int, fp *os.File) error {
	if from < 0 {
		from = 0
	}
	if to >= b.NumLines() {
		to = b.NumLines() - 1
	}
	var buf bytes.Buffer
	for i := from; i <= to; i++ {
		if i > from {
			buf.WriteString(b.newline)
		}
		buf.Write(b.Line(i).Bytes)
	}
	if to >= from && b.LineLen(to) > 0 {
		buf.WriteString(b.newline)
	}
	_, err := fp.Write(buf.Bytes())
	return err
}

// SearchString performs a literal, case-sensitive scan for needle over
// every line, returning non-overlapping matches in sorted order. An
// empty needle clears the match cache.
func (b *Buffer) SearchString(needle string) []Match {
	b.searchPattern = needle
	b.matches = nil
	if needle == "" {
		return nil
	}
	nb := []byte(needle)
	for i := 0; i < b.NumLines(); i++ {
		line := b.Line(i).Bytes
		col := 0
		for {
			idx := bytes.Index(line[col:], nb)
			if idx < 0 {
				break
			}
			start := col + idx
			end := start + len(nb)
			b.matches = append(b.matches, Match{
				From: text.Position{Line: i, Col: start},
				To:   text.Position{Line: i, Col: end},
			})
			col = end
		}
	}
	return b.matches
}

// Matches returns the cached search results.
func (b *Buffer) Matches() []Match { return b.matches }

// SetLanguage changes the highlight language tag and marks every line
// dirty so the next highlight pass starts from scratch.
func (b *Buffer) SetLanguage(lang string) {
	b.Lang = lang
	for i := 0; i < b.NumLines(); i++ {
		b.Line(i).Dirty = true
	}
	if b.NumLines() > 0 {
		b.markDirty(0, b.NumLines()-1)
	}
}

// Create opens path (if given), canonicalizing it to a CWD-relative path
// and detecting the language from a shebang or file extension. If path
// is "", an anonymous scratch buffer is returned.
func Create(path string) (*Buffer, error) {
	b := New()
	if path == "" {
		return b, nil
	}
	rel := path
	if abs, err := filepath.Abs(path); err == nil {
		if cwd, err := os.Getwd(); err == nil {
			if r, err := filepath.Rel(cwd, abs); err == nil {
				rel = r
			}
		}
	}
	b.Path = rel

	f, err := os.Open(rel)
	if err != nil {
		if os.IsNotExist(err) {
			b.Lang = detectLanguageByExt(rel)
			return b, nil
		}
		return nil, err
	}
	defer f.Close()
	if err := b.ReadFile(text.Position{}, f); err != nil {
		return nil, err
	}
	b.Lang = detectLanguage(b, rel)
	b.MarkSaved()
	b.ResetDirty()
	if st, err := f.Stat(); err == nil {
		b.savedSize = st.Size()
		b.savedModTime = st.ModTime().UnixNano()
	}
	return b, nil
}

// Save writes the buffer to its Path (or newPath, if given), checking for
// an overwrite collision unless force is true.
func (b *Buffer) Save(newPath string, force bool) error {
	if newPath != "" {
		b.Path = newPath
	}
	if b.Path == "" {
		return fmt.Errorf("buffer: no path to save to")
	}
	if !force {
		if st, err := os.Stat(b.Path); err == nil {
			if st.ModTime().UnixNano() != b.savedModTime && b.savedModTime != 0 {
				return fmt.Errorf("buffer: file changed on disk since load (use force to overwrite)")
			}
		}
	}
	f, err := os.Create(b.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := b.WriteFile(0, b.NumLines()-1, f); err != nil {
		return err
	}
	b.MarkSaved()
	if st, err := f.Stat(); err == nil {
		b.savedSize = st.Size()
		b.savedModTime = st.ModTime().UnixNano()
	}
	return nil
}

func detectLanguageByExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".c", ".h":
		return "c"
	case ".go":
		return "go"
	case ".md", ".markdown":
		return "markdown"
	default:
		return ""
	}
}

// detectLanguage checks the first non-blank line for a shebang before
// falling back to the file extension.
func detectLanguage(b *Buffer, path string) string {
	for i := 0; i < b.NumLines(); i++ {
		line := bytes.TrimSpace(b.Line(i).Bytes)
		if len(line) == 0 {
			continue
		}
		if bytes.HasPrefix(line, []byte("#")) {
			s := string(line)
			switch {
			case strings.Contains(s, "python"):
				return "python"
			case strings.Contains(s, "bash"), strings.Contains(s, "/sh"):
				return "shell"
			}
		}
		break
	}
	return detectLanguageByExt(path)
}
