// Package highlight implements the per-line, stackable syntax-highlight
// state machine specified for PureC: a table of state functions indexed by
// the low 8 bits of a 64-bit packed state, nested contexts addressed via
// push/pop on that same integer, and a top "multi-line continuation" bit
// that tells the driver whether a line's ending state survives into the
// next line.
//
// This is necessarily hand-written: no pack library (chroma included)
// exposes a tokenizer with an equivalent continuation-bit/byte-stack
// contract, which is what PureC's paren-matching and incremental
// re-highlight depend on.
package highlight

import "github.com/jackwreid/purec/internal/text"

// Attribute is the display class attached to a highlighted run.
type Attribute int

const (
	HiNormal Attribute = iota
	HiComment
	HiString
	HiChar
	HiNumber
	HiType
	HiTypeMod
	HiIdentifier
	HiJavadoc
	HiPreproc
)

// FStateMulti is the top bit of the packed state integer: when set, the
// state (and its stack) survives onto the next line instead of resetting
// to StateStart.
const FStateMulti uint64 = 1 << 63

// StateMask isolates the current (innermost) state from the packed stack.
const StateMask uint64 = 0xff

// Push nests `next` on top of state, matching §4.4's byte-stack
// representation (state = state<<8 | next). The multi bit, if set, stays
// attached to the new top.
func Push(state uint64, next uint8) uint64 {
	multi := state & FStateMulti
	return (state&^FStateMulti)<<8 | uint64(next) | multi
}

// Pop removes the innermost state, returning to whatever was nested
// beneath it.
func Pop(state uint64) uint64 {
	multi := state & FStateMulti
	return (state&^FStateMulti)>>8 | multi
}

// Context is passed into a StateFunc for one dispatch step.
type Context struct {
	S      []byte // the line being highlighted
	I      int    // current column
	N      int    // len(S)
	State  uint64 // state on entry; the func may rewrite it
	Hi     Attribute
	Pos    text.Position
	Parens *ParenTable
}

// StateFunc consumes zero or more bytes starting at ctx.I, sets ctx.Hi to
// the attribute for the run it produced, and may rewrite ctx.State to
// transition (push/pop/replace). It returns the number of bytes consumed;
// the driver advances by max(consumed, 1) regardless, guaranteeing forward
// progress.
type StateFunc func(ctx *Context) int

// Table maps the low-8-bit state code to its dispatch function.
type Table map[uint8]StateFunc

// Run is one attributed span within a line, [Col, End).
type Run struct {
	Col, End int
	Attr     Attribute
}

// HighlightLine drives tbl over line starting from startState, returning
// the attributed runs and the state to cache for the next incremental
// pass (per §4.4's algorithm, including the multi-bit persistence rule).
func HighlightLine(tbl Table, line []byte, startState uint64, parens *ParenTable, lineIdx int) ([]Run, uint64) {
	state := startState &^ FStateMulti
	var runs []Run
	col := 0
	for col < len(line) {
		fn := tbl[uint8(state&StateMask)]
		if fn == nil {
			fn = tbl[uint8(StateStart)]
		}
		ctx := &Context{S: line, I: col, N: len(line), State: state, Pos: text.Position{Line: lineIdx, Col: col}, Parens: parens}
		consumed := fn(ctx)
		if consumed < 0 {
			consumed = 0
		}
		step := consumed
		if step < 1 {
			step = 1
		}
		runs = append(runs, Run{Col: col, End: col + step, Attr: ctx.Hi})
		state = ctx.State
		col += step
	}
	if state&FStateMulti == 0 {
		state = uint64(StateStart)
	}
	return runs, state
}

// Driver re-highlights dirty ranges of a text.Text using a language Table,
// resuming from the line before min_dirty's cached state (or the initial
// state if min_dirty is 0), and caching each line's ending state for the
// next incremental pass.
type Driver struct {
	Tables map[string]Table
	Parens *ParenTable
}

// NewDriver returns a driver pre-loaded with the languages this repo
// ships (currently "c").
func NewDriver() *Driver {
	return &Driver{
		Tables: map[string]Table{"c": cTable()},
		Parens: NewParenTable(),
	}
}

// Rehighlight drives highlighting over [minDirty, maxDirty] (clipped to
// the text's bounds), resetting to the previous line's cached state before
// the first line and propagating each line's ending state forward, per
// §4.4. It returns the attributed runs per line touched.
func (d *Driver) Rehighlight(t *text.Text, lang string, minDirty, maxDirty int) map[int][]Run {
	tbl, ok := d.Tables[lang]
	if !ok {
		return nil
	}
	if minDirty < 0 {
		minDirty = 0
	}
	if maxDirty >= t.NumLines() {
		maxDirty = t.NumLines() - 1
	}
	if minDirty > maxDirty {
		return nil
	}
	if minDirty == 0 && maxDirty == t.NumLines()-1 {
		d.Parens.Reset()
	}
	state := uint64(StateStart)
	if minDirty > 0 {
		if prev := t.Line(minDirty - 1); prev != nil {
			state = prev.HState
		}
	}
	out := make(map[int][]Run, maxDirty-minDirty+1)
	for i := minDirty; i <= maxDirty; i++ {
		line := t.Line(i)
		runs, next := HighlightLine(tbl, line.Bytes, state, d.Parens, i)
		out[i] = runs
		line.HState = next
		line.Dirty = false
		state = next
	}
	return out
}
