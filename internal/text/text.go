// Package text implements the line-structured text store: a mutable
// array of lines supporting range and rectangular (block) insert, delete,
// change and extraction, with clipping to buffer bounds.
package text

import "bytes"

// Position is a (line, col) location in bytes. Col may equal the line
// length (one-past-end) in insert-mode callers; normal-mode callers are
// expected to clip through ModeLineEnd themselves.
type Position struct {
	Line int
	Col  int
}

// Less reports whether p sorts strictly before q.
func (p Position) Less(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

// Range is a half-open-by-convention [From, To) span used to report the
// extent a mutation touched.
type Range struct {
	From, To Position
}

// Line is one line of text: a byte slice that never contains '\n', plus
// per-line flags and the cached highlight state used by the highlight
// driver to resume incrementally.
type Line struct {
	Bytes      []byte
	Breakpoint bool
	Hidden     bool
	HState     uint64
	Dirty      bool
}

func newLine(s []byte) *Line {
	b := make([]byte, len(s))
	copy(b, s)
	return &Line{Bytes: b}
}

// Len returns the byte length of the line.
func (l *Line) Len() int { return len(l.Bytes) }

// Text is an ordered sequence of lines. It always holds at least one
// line; an empty buffer is represented as a single zero-length line.
type Text struct {
	lines []*Line
}

// New returns an empty Text (one empty line), matching the invariant that
// num_lines is always >= 1.
func New() *Text {
	return &Text{lines: []*Line{newLine(nil)}}
}

// FromLines builds a Text from raw line contents (used by file load and
// by tests). An empty slice still yields a single empty line.
func FromLines(raw [][]byte) *Text {
	if len(raw) == 0 {
		return New()
	}
	t := &Text{lines: make([]*Line, len(raw))}
	for i, s := range raw {
		t.lines[i] = newLine(s)
	}
	return t
}

// NumLines returns the number of lines; always >= 1.
func (t *Text) NumLines() int { return len(t.lines) }

// Line returns the line at i, or nil if out of range.
func (t *Text) Line(i int) *Line {
	if i < 0 || i >= len(t.lines) {
		return nil
	}
	return t.lines[i]
}

// LineLen returns the byte length of line i, clamped to 0 if out of range.
func (t *Text) LineLen(i int) int {
	if l := t.Line(i); l != nil {
		return l.Len()
	}
	return 0
}

// ModeLineEnd returns the effective end-of-line column for the given
// mode: the full length in insert mode, or max(0, len-1) in normal mode.
func ModeLineEnd(lineLen int, insertLike bool) int {
	if insertLike {
		return lineLen
	}
	if lineLen == 0 {
		return 0
	}
	return lineLen - 1
}

// clip clamps pos to a legal position within the text: lines in
// [0, NumLines()-1] (or NumLines() "no-clip" callers normalize
// separately), columns in [0, lineLen].
func (t *Text) clip(pos Position) Position {
	if pos.Line < 0 {
		pos.Line = 0
	}
	if pos.Line >= t.NumLines() {
		pos.Line = t.NumLines() - 1
	}
	n := t.LineLen(pos.Line)
	if pos.Col < 0 {
		pos.Col = 0
	}
	if pos.Col > n {
		pos.Col = n
	}
	return pos
}

// normalizeTo turns a "to" position equal to NumLines into the
// through-end-of-buffer position (NumLines-1, lastLine.Len), then clips.
func (t *Text) normalizeTo(pos Position) Position {
	if pos.Line >= t.NumLines() {
		last := t.NumLines() - 1
		return Position{Line: last, Col: t.LineLen(last)}
	}
	return t.clip(pos)
}

func sortPositions(a, b Position) (Position, Position) {
	if b.Less(a) {
		return b, a
	}
	return a, b
}

// GetRange extracts a copy of the text in [from, to) without mutation.
func (t *Text) GetRange(from, to Position) *Text {
	from, to = sortPositions(t.clip(from), t.normalizeTo(to))
	if from == to {
		return New()
	}
	if from.Line == to.Line {
		return FromLines([][]byte{t.lines[from.Line].Bytes[from.Col:to.Col]})
	}
	out := make([][]byte, 0, to.Line-from.Line+1)
	out = append(out, t.lines[from.Line].Bytes[from.Col:])
	for i := from.Line + 1; i < to.Line; i++ {
		out = append(out, t.lines[i].Bytes)
	}
	out = append(out, t.lines[to.Line].Bytes[:to.Col])
	return FromLines(out)
}

// GetBlock extracts the rectangular region bounded by from/to's columns
// across every row in [from.Line, to.Line], clamped per-row to that row's
// length.
func (t *Text) GetBlock(from, to Position) *Text {
	fromLine, toLine := from.Line, to.Line
	if toLine < fromLine {
		fromLine, toLine = toLine, fromLine
	}
	fromCol, toCol := from.Col, to.Col
	if toCol < fromCol {
		fromCol, toCol = toCol, fromCol
	}
	if fromLine < 0 {
		fromLine = 0
	}
	if toLine >= t.NumLines() {
		toLine = t.NumLines() - 1
	}
	out := make([][]byte, 0, toLine-fromLine+1)
	for i := fromLine; i <= toLine; i++ {
		n := t.LineLen(i)
		a, b := fromCol, toCol
		if a > n {
			a = n
		}
		if b > n {
			b = n
		}
		out = append(out, t.lines[i].Bytes[a:b])
	}
	return FromLines(out)
}

// InsertRange inserts src (repeated `repeat` times) at pos. When src has a
// single line, bytes are spliced into the target line; otherwise the
// first source line is appended to pos's line prefix, the remaining
// source lines are inserted as new lines, and the final source line is
// prefixed onto the suffix of the original line at pos.
func (t *Text) InsertRange(pos Position, src *Text, repeat int) Range {
	pos = t.clip(pos)
	if repeat <= 0 || src.NumLines() == 0 {
		return Range{pos, pos}
	}
	tiled := RepeatText(src, repeat)
	end := t.spliceIn(pos, tiled)
	return Range{pos, end}
}

func (t *Text) spliceIn(pos Position, src *Text) Position {
	line := t.lines[pos.Line]
	prefix := line.Bytes[:pos.Col]
	suffix := line.Bytes[pos.Col:]

	if src.NumLines() == 1 {
		merged := concat(prefix, src.lines[0].Bytes, suffix)
		t.lines[pos.Line] = newLine(merged)
		return Position{Line: pos.Line, Col: pos.Col + src.LineLen(0)}
	}

	newLines := make([]*Line, 0, t.NumLines()+src.NumLines()-1)
	newLines = append(newLines, t.lines[:pos.Line]...)
	newLines = append(newLines, newLine(concat(prefix, src.lines[0].Bytes)))
	for i := 1; i < src.NumLines()-1; i++ {
		newLines = append(newLines, newLine(src.lines[i].Bytes))
	}
	lastSrc := src.lines[src.NumLines()-1]
	newLines = append(newLines, newLine(concat(lastSrc.Bytes, suffix)))
	newLines = append(newLines, t.lines[pos.Line+1:]...)
	t.lines = newLines

	return Position{Line: pos.Line + src.NumLines() - 1, Col: src.LineLen(src.NumLines() - 1)}
}

func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// InsertBlock inserts src rectangularly at pos, repeated `repeat` times:
// each target line is padded with spaces if pos.Col exceeds its length,
// then the corresponding line of the tiled source is spliced in at
// pos.Col. Rows beyond
// NumLines() are appended as new empty lines first.
func (t *Text) InsertBlock(pos Position, src *Text, repeat int) Range {
	if repeat <= 0 || src.NumLines() == 0 {
		return Range{pos, pos}
	}
	tiled := RepeatTextBlock(src, repeat)
	rows := tiled.NumLines()

	maxLine := pos.Line + rows - 1
	for len(t.lines) <= maxLine {
		t.lines = append(t.lines, newLine(nil))
	}

	lastCol := pos.Col
	for i := 0; i < rows; i++ {
		row := pos.Line + i
		line := t.lines[row]
		if pos.Col > line.Len() {
			line.Bytes = append(line.Bytes, bytes.Repeat([]byte{' '}, pos.Col-line.Len())...)
		}
		srcLine := tiled.lines[i].Bytes
		merged := concat(line.Bytes[:pos.Col], srcLine, line.Bytes[pos.Col:])
		t.lines[row] = newLine(merged)
		lastCol = pos.Col + len(srcLine)
	}
	return Range{From: pos, To: Position{Line: maxLine, Col: lastCol}}
}

// DeleteRange removes [from, to), joining from.Line with to.Line and
// dropping any rows strictly between them. Returns the removed text.
func (t *Text) DeleteRange(from, to Position) (*Text, Range) {
	from, to = sortPositions(t.clip(from), t.normalizeTo(to))
	if from == to {
		return New(), Range{from, from}
	}
	removed := t.GetRange(from, to)

	head := t.lines[from.Line].Bytes[:from.Col]
	tail := t.lines[to.Line].Bytes[to.Col:]
	merged := newLine(concat(head, tail))

	newLines := make([]*Line, 0, t.NumLines()-(to.Line-from.Line))
	newLines = append(newLines, t.lines[:from.Line]...)
	newLines = append(newLines, merged)
	newLines = append(newLines, t.lines[to.Line+1:]...)
	t.lines = newLines

	return removed, Range{from, to}
}

// DeleteBlock deletes the rectangular region bounded by from/to's
// columns across every row in [from.Line, to.Line], clamped per row.
// Returns the removed block.
func (t *Text) DeleteBlock(from, to Position) (*Text, Range) {
	fromLine, toLine := from.Line, to.Line
	if toLine < fromLine {
		fromLine, toLine = toLine, fromLine
	}
	fromCol, toCol := from.Col, to.Col
	if toCol < fromCol {
		fromCol, toCol = toCol, fromCol
	}
	if fromLine < 0 {
		fromLine = 0
	}
	if toLine >= t.NumLines() {
		toLine = t.NumLines() - 1
	}
	removed := t.GetBlock(Position{fromLine, fromCol}, Position{toLine, toCol})
	for i := fromLine; i <= toLine; i++ {
		line := t.lines[i]
		n := line.Len()
		a, b := fromCol, toCol
		if a > n {
			a = n
		}
		if b > n {
			b = n
		}
		t.lines[i] = newLine(concat(line.Bytes[:a], line.Bytes[b:]))
	}
	return removed, Range{Position{fromLine, fromCol}, Position{toLine, toCol}}
}

// ByteTransform maps one input byte to one output byte; used by
// ChangeRange/ChangeBlock to build a REPLACE event's XOR delta.
type ByteTransform func(byte) byte

// ChangeRange applies conv to every byte in [from, to) in place and
// returns the XOR delta (old ⊕ new) alongside the affected range, so the
// same delta can undo (re-XOR) and redo (re-XOR) the change.
func (t *Text) ChangeRange(from, to Position, conv ByteTransform) ([]byte, Range) {
	from, to = sortPositions(t.clip(from), t.normalizeTo(to))
	if from == to {
		return nil, Range{from, from}
	}
	var delta []byte
	apply := func(lineIdx, a, b int) {
		line := t.lines[lineIdx]
		for i := a; i < b; i++ {
			old := line.Bytes[i]
			nw := conv(old)
			delta = append(delta, old^nw)
			line.Bytes[i] = nw
		}
	}
	if from.Line == to.Line {
		apply(from.Line, from.Col, to.Col)
	} else {
		apply(from.Line, from.Col, t.LineLen(from.Line))
		for i := from.Line + 1; i < to.Line; i++ {
			apply(i, 0, t.LineLen(i))
		}
		apply(to.Line, 0, to.Col)
	}
	return delta, Range{from, to}
}

// ChangeBlock is ChangeRange's rectangular counterpart.
func (t *Text) ChangeBlock(from, to Position, conv ByteTransform) ([]byte, Range) {
	fromLine, toLine := from.Line, to.Line
	if toLine < fromLine {
		fromLine, toLine = toLine, fromLine
	}
	fromCol, toCol := from.Col, to.Col
	if toCol < fromCol {
		fromCol, toCol = toCol, fromCol
	}
	var delta []byte
	for i := fromLine; i <= toLine && i < t.NumLines(); i++ {
		line := t.lines[i]
		n := line.Len()
		a, b := fromCol, toCol
		if a > n {
			a = n
		}
		if b > n {
			b = n
		}
		for j := a; j < b; j++ {
			old := line.Bytes[j]
			nw := conv(old)
			delta = append(delta, old^nw)
			line.Bytes[j] = nw
		}
	}
	return delta, Range{Position{fromLine, fromCol}, Position{toLine, toCol}}
}

// ApplyXOR re-applies a XOR delta produced by ChangeRange/ChangeBlock,
// which is its own inverse: calling it twice restores the original bytes.
func (t *Text) ApplyXOR(from, to Position, delta []byte) {
	idx := 0
	apply := func(lineIdx, a, b int) {
		line := t.lines[lineIdx]
		for i := a; i < b && idx < len(delta); i++ {
			line.Bytes[i] ^= delta[idx]
			idx++
		}
	}
	if from.Line == to.Line {
		apply(from.Line, from.Col, to.Col)
		return
	}
	apply(from.Line, from.Col, t.LineLen(from.Line))
	for i := from.Line + 1; i < to.Line; i++ {
		apply(i, 0, t.LineLen(i))
	}
	apply(to.Line, 0, to.Col)
}

// BreakLine splits the line at pos into two, as if "\n" were inserted:
// the right half becomes a new line. Returns the position of the start of
// the new line.
func (t *Text) BreakLine(pos Position) Position {
	pos = t.clip(pos)
	line := t.lines[pos.Line]
	before := newLine(line.Bytes[:pos.Col])
	after := newLine(line.Bytes[pos.Col:])

	newLines := make([]*Line, 0, t.NumLines()+1)
	newLines = append(newLines, t.lines[:pos.Line]...)
	newLines = append(newLines, before, after)
	newLines = append(newLines, t.lines[pos.Line+1:]...)
	t.lines = newLines

	return Position{Line: pos.Line + 1, Col: 0}
}

// RepeatText builds a Text by tiling src `count` times; tiling joins the
// last line of one copy with the first line of the next, matching
// InsertRange's own splice semantics for a single insertion.
func RepeatText(src *Text, count int) *Text {
	if count <= 1 || src.NumLines() == 0 {
		return src
	}
	out := &Text{lines: []*Line{}}
	for c := 0; c < count; c++ {
		if c == 0 {
			out.lines = append(out.lines, cloneLines(src.lines)...)
			continue
		}
		last := out.lines[len(out.lines)-1]
		merged := newLine(concat(last.Bytes, src.lines[0].Bytes))
		out.lines[len(out.lines)-1] = merged
		out.lines = append(out.lines, cloneLines(src.lines[1:])...)
	}
	return out
}

// RepeatTextBlock tiles src `count` times vertically (stacking rows),
// padding short tiles with spaces so every repeated row keeps the same
// column alignment, matching InsertBlock's rectangular semantics.
func RepeatTextBlock(src *Text, count int) *Text {
	if count <= 1 {
		return src
	}
	maxLen := 0
	for _, l := range src.lines {
		if l.Len() > maxLen {
			maxLen = l.Len()
		}
	}
	out := &Text{}
	for c := 0; c < count; c++ {
		for _, l := range src.lines {
			b := make([]byte, maxLen)
			copy(b, l.Bytes)
			for i := l.Len(); i < maxLen; i++ {
				b[i] = ' '
			}
			out.lines = append(out.lines, &Line{Bytes: b})
		}
	}
	return out
}

func cloneLines(in []*Line) []*Line {
	out := make([]*Line, len(in))
	for i, l := range in {
		out[i] = newLine(l.Bytes)
	}
	return out
}

// Lines returns every line's bytes as a copy, useful for callers (buffer
// write, tests) that want a plain [][]byte snapshot.
func (t *Text) Lines() [][]byte {
	out := make([][]byte, len(t.lines))
	for i, l := range t.lines {
		b := make([]byte, l.Len())
		copy(b, l.Bytes)
		out[i] = b
	}
	return out
}

// Equal reports whether two Texts hold byte-identical lines.
func (t *Text) Equal(o *Text) bool {
	if t.NumLines() != o.NumLines() {
		return false
	}
	for i := range t.lines {
		if !bytes.Equal(t.lines[i].Bytes, o.lines[i].Bytes) {
			return false
		}
	}
	return true
}
