// Package frame implements the viewport/cursor layer: a rectangular
// screen region bound to one buffer, with its own cursor, scroll offset
// and vertical column tracker (VCT), plus the split/destroy geometry that
// tiles several frames across the screen.
//
// Grounded in the teacher's Viewport (viewport.go) and the cursor fields
// scattered across its EditorBuffer/App, generalized to the spec's
// multi-frame split model (original_source/src/frame.c), which the
// teacher — a single-pane editor — does not have at all.
package frame

import (
	"math"

	"github.com/jackwreid/purec/internal/buffer"
	"github.com/jackwreid/purec/internal/text"
)

// SplitDir is the direction a frame was split off from its parent.
type SplitDir int

const (
	SplitNone SplitDir = iota
	SplitLeft
	SplitRight
	SplitUp
	SplitDown
)

// Rect is a screen-relative rectangle.
type Rect struct {
	X, Y, W, H int
}

// Infinity is the VCT sentinel set by END so downward motion sticks to
// each line's end.
const Infinity = math.MaxInt32

// Frame is a viewport over a buffer: a rectangle, a cursor, a scroll
// offset and a vertical column tracker.
type Frame struct {
	ID       int
	Rect     Rect
	Buf      *buffer.Buffer
	Cur      text.Position
	Scroll   int // first visible buffer line
	VCT      int
	PrevCur  text.Position
	SplitDir SplitDir

	// VisualAnchor is Core.pos from §4.6: the position visual mode
	// anchored at entry, used to compute the selection against Cur.
	VisualAnchor text.Position
}

// modeLineEnd is §4.6's "get_mode_line_end": line.n in insert/visual,
// max(0, line.n-1) in normal.
func modeLineEnd(buf *buffer.Buffer, line int, insertLike bool) int {
	return text.ModeLineEnd(buf.LineLen(line), insertLike)
}

// ClipCol clamps Cur.Col to the current line's mode-aware end, used after
// an edit or an undo/redo restores a cursor position that may no longer
// fit the line (e.g. an insert-mode position restored in normal mode).
func (f *Frame) ClipCol(insertLike bool) {
	end := modeLineEnd(f.Buf, f.Cur.Line, insertLike)
	if f.Cur.Col > end {
		f.Cur.Col = end
	}
	if f.Cur.Col < 0 {
		f.Cur.Col = 0
	}
}

func clampLine(buf *buffer.Buffer, line int) int {
	if line < 0 {
		return 0
	}
	if line >= buf.NumLines() {
		return buf.NumLines() - 1
	}
	return line
}

func oneOrMore(count int) int {
	if count < 1 {
		return 1
	}
	return count
}

// MoveLeft moves count columns left within the current line.
func (f *Frame) MoveLeft(count int, insertLike bool) {
	f.Cur.Col -= oneOrMore(count)
	if f.Cur.Col < 0 {
		f.Cur.Col = 0
	}
	f.VCT = f.Cur.Col
}

// MoveRight moves count columns right within the current line.
func (f *Frame) MoveRight(count int, insertLike bool) {
	f.Cur.Col += oneOrMore(count)
	end := modeLineEnd(f.Buf, f.Cur.Line, insertLike)
	if f.Cur.Col > end {
		f.Cur.Col = end
	}
	f.VCT = f.Cur.Col
}

// MoveUp changes line upward by count, clipping horizontally to
// min(VCT, mode-line-end of the new line); VCT itself is preserved.
func (f *Frame) MoveUp(count int, insertLike bool) {
	f.Cur.Line = clampLine(f.Buf, f.Cur.Line-oneOrMore(count))
	f.applyVCT(insertLike)
}

// MoveDown is MoveUp's downward counterpart.
func (f *Frame) MoveDown(count int, insertLike bool) {
	f.Cur.Line = clampLine(f.Buf, f.Cur.Line+oneOrMore(count))
	f.applyVCT(insertLike)
}

func (f *Frame) applyVCT(insertLike bool) {
	end := modeLineEnd(f.Buf, f.Cur.Line, insertLike)
	col := f.VCT
	if col > end {
		col = end
	}
	f.Cur.Col = col
}

// MovePrev is MoveLeft, wrapping onto the previous line's end when already
// at column 0.
func (f *Frame) MovePrev(count int, insertLike bool) {
	for i := 0; i < oneOrMore(count); i++ {
		if f.Cur.Col > 0 {
			f.Cur.Col--
		} else if f.Cur.Line > 0 {
			f.Cur.Line--
			f.Cur.Col = modeLineEnd(f.Buf, f.Cur.Line, insertLike)
		}
	}
	f.VCT = f.Cur.Col
}

// MoveNext is MoveRight, wrapping onto the next line's start when already
// at the mode-aware line end.
func (f *Frame) MoveNext(count int, insertLike bool) {
	for i := 0; i < oneOrMore(count); i++ {
		end := modeLineEnd(f.Buf, f.Cur.Line, insertLike)
		if f.Cur.Col < end {
			f.Cur.Col++
		} else if f.Cur.Line < f.Buf.NumLines()-1 {
			f.Cur.Line++
			f.Cur.Col = 0
		}
	}
	f.VCT = f.Cur.Col
}

// Home moves to column 0.
func (f *Frame) Home() {
	f.Cur.Col = 0
	f.VCT = 0
}

// End moves to the mode-aware line end and sets VCT to Infinity so
// subsequent downward motion sticks to each line's end.
func (f *Frame) End(insertLike bool) {
	f.Cur.Col = modeLineEnd(f.Buf, f.Cur.Line, insertLike)
	f.VCT = Infinity
}

// HomeSP moves to the first non-blank column of the line (or column 0 if
// the line is all blank), updating VCT.
func (f *Frame) HomeSP() {
	line := f.Buf.Line(f.Cur.Line)
	col := 0
	if line != nil {
		for i, b := range line.Bytes {
			if b != ' ' && b != '\t' {
				col = i
				break
			}
		}
	}
	f.Cur.Col = col
	f.VCT = col
}

// FileBeg jumps to line (0-based, clamped), column 0.
func (f *Frame) FileBeg(line int) {
	f.Cur.Line = clampLine(f.Buf, line)
	f.Cur.Col = 0
	f.VCT = 0
}

// FileEnd jumps to the last line.
func (f *Frame) FileEnd() {
	f.Cur.Line = f.Buf.NumLines() - 1
	f.Cur.Col = 0
	f.VCT = 0
}

// PageUp/PageDown move +/- floor(2*height/3) lines, per §4.6.
func (f *Frame) PageUp(height int, insertLike bool) {
	f.MoveUp(2*height/3, insertLike)
}

func (f *Frame) PageDown(height int, insertLike bool) {
	f.MoveDown(2*height/3, insertLike)
}

func isBlankLine(buf *buffer.Buffer, line int) bool {
	return buf.LineLen(line) == 0
}

// ParaUp moves to the count-th preceding empty line.
func (f *Frame) ParaUp(count int) {
	n := oneOrMore(count)
	line := f.Cur.Line
	for n > 0 && line > 0 {
		line--
		if isBlankLine(f.Buf, line) {
			n--
		}
	}
	f.Cur.Line = line
	f.Cur.Col = 0
	f.VCT = 0
}

// ParaDown moves to the count-th following empty line.
func (f *Frame) ParaDown(count int) {
	n := oneOrMore(count)
	line := f.Cur.Line
	last := f.Buf.NumLines() - 1
	for n > 0 && line < last {
		line++
		if isBlankLine(f.Buf, line) {
			n--
		}
	}
	f.Cur.Line = line
	f.Cur.Col = 0
	f.VCT = 0
}

// VisibleLines is the number of buffer lines this frame's rect can show.
func (f *Frame) VisibleLines() int {
	if f.Rect.H <= 0 {
		return 0
	}
	return f.Rect.H
}

// EnsureCursorVisible adjusts Scroll so Cur.Line is within the visible
// window.
func (f *Frame) EnsureCursorVisible() {
	vis := f.VisibleLines()
	if vis <= 0 {
		return
	}
	if f.Cur.Line < f.Scroll {
		f.Scroll = f.Cur.Line
	}
	if f.Cur.Line >= f.Scroll+vis {
		f.Scroll = f.Cur.Line - vis + 1
	}
	if f.Scroll < 0 {
		f.Scroll = 0
	}
}

// Jump records PrevCur and moves to pos, used by "big jump" motions
// (search, gg/G, paragraph motions) that want to restore the origin with
// a follow-up command.
func (f *Frame) Jump(pos text.Position) {
	f.PrevCur = f.Cur
	f.Cur = pos
	f.VCT = pos.Col
}
