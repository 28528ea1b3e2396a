package mode

import (
	"strings"
	"unicode"

	"github.com/jackwreid/purec/internal/buffer"
	"github.com/jackwreid/purec/internal/frame"
	"github.com/jackwreid/purec/internal/text"
)

// Kind is one of the five editor modes.
type Kind int

const (
	Normal Kind = iota
	Insert
	Visual
	VisualLine
	VisualBlock
)

// State is the mode machine's live state: the current mode, the pending
// numeric counter, and the small amount of pending-chord bookkeeping
// multi-key verbs ('g', 'c', 'd') need between keystrokes.
type State struct {
	Kind    Kind
	Counter int

	pendingG    bool
	pendingVerb rune // 'c' or 'd' awaiting a motion key, 0 if none

	// Reg is the unnamed yank/delete register, shared across modes.
	Reg Register
}

// NewState starts in NORMAL mode with an empty counter.
func NewState() *State {
	return &State{Kind: Normal}
}

func (s *State) count() int {
	if s.Counter < 1 {
		return 1
	}
	return s.Counter
}

func (s *State) resetCounter() { s.Counter = 0 }

// insertLike reports whether the mode-aware line end should allow the
// one-past-end column (true in INSERT and all VISUAL modes).
func (s *State) insertLike() bool {
	return s.Kind != Normal
}

// Handle processes one keypress against f (the selected frame) and buf
// (its buffer), returning whether the key was consumed.
func (s *State) Handle(f *frame.Frame, buf *buffer.Buffer, k Key) bool {
	if s.Kind == Normal || s.Kind == Visual || s.Kind == VisualLine || s.Kind == VisualBlock {
		if k.isDigit() && !(k.digit() == 0 && s.Counter == 0) && s.pendingVerb == 0 && !s.pendingG {
			s.Counter = s.Counter*10 + k.digit()
			return true
		}
	}

	switch s.Kind {
	case Insert:
		return s.handleInsert(f, buf, k)
	default:
		return s.handleCommand(f, buf, k)
	}
}

// handleCommand serves NORMAL and the three VISUAL modes; they share
// almost all motions and the c/d/g pending-chord machinery.
func (s *State) handleCommand(f *frame.Frame, buf *buffer.Buffer, k Key) bool {
	if s.pendingG {
		s.pendingG = false
		switch {
		case k.Rune == 'g':
			f.Jump(text.Position{Line: s.count() - 1, Col: f.Cur.Col})
			s.resetCounter()
			return true
		default:
			return true
		}
	}
	if s.pendingVerb != 0 {
		return s.finishPendingVerb(f, buf, k)
	}

	if s.Kind != Normal {
		if handled := s.handleVisualVerb(f, buf, k); handled {
			return true
		}
	}

	switch k.Rune {
	case 'g':
		if k.Special == SpecialNone {
			s.pendingG = true
			return true
		}
	case 'c', 'd':
		if s.Kind == Normal {
			s.pendingVerb = k.Rune
			return true
		}
	case 'u':
		if s.Kind == Normal {
			for i := 0; i < s.count(); i++ {
				pos, ok := buf.PerformUndo()
				if !ok {
					break
				}
				f.Cur = pos
				f.ClipCol(false)
			}
			s.resetCounter()
			return true
		}
	case 'x':
		if s.Kind == Normal {
			cur := f.Cur
			end := text.Position{Line: cur.Line, Col: cur.Col + s.count()}
			buf.Delete(cur, end, cur, cur, false)
			s.resetCounter()
			return true
		}
	case 'X':
		if s.Kind == Normal {
			cur := f.Cur
			f.MoveLeft(s.count(), false)
			buf.Delete(f.Cur, cur, cur, f.Cur, false)
			s.resetCounter()
			return true
		}
	case 'o':
		if s.Kind == Normal {
			s.openLine(f, buf, false)
			return true
		}
	case 'O':
		if s.Kind == Normal {
			s.openLine(f, buf, true)
			return true
		}
	case 'i':
		if s.Kind == Normal {
			s.Kind = Insert
			return true
		}
	case 'a':
		if s.Kind == Normal {
			f.MoveRight(1, true)
			s.Kind = Insert
			return true
		}
	case 'I':
		if s.Kind == Normal {
			f.HomeSP()
			s.Kind = Insert
			return true
		}
	case 'A':
		if s.Kind == Normal {
			f.End(true)
			s.Kind = Insert
			return true
		}
	case 'v':
		s.toggleVisual(f, Visual)
		return true
	case 'V':
		s.toggleVisual(f, VisualLine)
		return true
	case 'p':
		if s.Kind == Normal {
			s.putRegister(f, buf, false)
			s.resetCounter()
			return true
		}
	case 'P':
		if s.Kind == Normal {
			s.putRegister(f, buf, true)
			s.resetCounter()
			return true
		}
	}
	if k.Ctrl && k.Rune == 'r' && s.Kind == Normal {
		for i := 0; i < s.count(); i++ {
			pos, ok := buf.PerformRedo()
			if !ok {
				break
			}
			f.Cur = pos
			f.ClipCol(false)
		}
		s.resetCounter()
		return true
	}
	if k.Ctrl && k.Rune == 'v' {
		s.toggleVisual(f, VisualBlock)
		return true
	}
	if k.Special == SpecialEsc && s.Kind != Normal {
		s.Kind = Normal
		s.resetCounter()
		return true
	}

	handled := s.applyMotion(f, k, s.insertLike())
	s.resetCounter()
	return handled
}

func (s *State) toggleVisual(f *frame.Frame, kind Kind) {
	if s.Kind == kind {
		s.Kind = Normal
		return
	}
	if s.Kind == Normal {
		f.EnterVisual()
	}
	s.Kind = kind
}

// openLine implements 'o'/'O': break the line, indent it, and enter
// INSERT, mirroring mode_normal.c's open-line-below/above.
func (s *State) openLine(f *frame.Frame, buf *buffer.Buffer, above bool) {
	cur := f.Cur
	if above {
		f.Home()
	} else {
		f.End(true)
	}
	nl := text.FromLines([][]byte{{}, {}})
	buf.Insert(f.Cur, nl, 1, cur, f.Cur, true)
	if above {
		f.Cur = text.Position{Line: f.Cur.Line, Col: 0}
	} else {
		f.Cur = text.Position{Line: f.Cur.Line + 1, Col: 0}
	}
	src := cur.Line
	if above {
		src = cur.Line + 1
	}
	indentLineLike(buf, f.Cur.Line, src)
	f.End(true)
	s.Kind = Insert
}

// indentLineLike copies the leading whitespace of srcLine onto dstLine, a
// simplified stand-in for the teacher's language-aware auto-indent.
func indentLineLike(buf *buffer.Buffer, dstLine, srcLine int) {
	src := buf.Line(srcLine)
	if src == nil {
		return
	}
	n := 0
	for n < len(src.Bytes) && (src.Bytes[n] == ' ' || src.Bytes[n] == '\t') {
		n++
	}
	if n == 0 {
		return
	}
	indent := text.FromLines([][]byte{append([]byte(nil), src.Bytes[:n]...)})
	buf.Insert(text.Position{Line: dstLine, Col: 0}, indent, 1, text.Position{}, text.Position{}, true)
}

// finishPendingVerb completes 'c'/'d' followed by a motion or a doubled
// verb ("dd"/"cc": the whole line).
func (s *State) finishPendingVerb(f *frame.Frame, buf *buffer.Buffer, k Key) bool {
	verb := s.pendingVerb
	s.pendingVerb = 0
	cur := f.Cur

	if k.Rune == rune(verb) {
		from := text.Position{Line: cur.Line, Col: 0}
		to := text.Position{Line: cur.Line + s.count(), Col: 0}
		deleted, _ := buf.Delete(from, to, cur, from, false)
		s.captureRegister(deleted, true)
		f.Cur = from
		f.ClipCol(s.insertLike())
		s.resetCounter()
		if verb == 'c' {
			s.openLine(f, buf, true)
		}
		return true
	}

	if !s.applyMotion(f, k, false) {
		s.resetCounter()
		return true
	}
	from, to := cur, f.Cur
	if to.Less(from) {
		from, to = to, from
	}
	deleted, _ := buf.Delete(from, to, cur, from, false)
	s.captureRegister(deleted, false)
	f.Cur = from
	f.ClipCol(s.insertLike())
	s.resetCounter()
	if verb == 'c' {
		s.Kind = Insert
	}
	return true
}

// handleVisualVerb dispatches the visual-mode-only verbs (d/x/c/s/y/u/U)
// that operate on the current selection and always return to NORMAL (or
// INSERT, for c/s).
func (s *State) handleVisualVerb(f *frame.Frame, buf *buffer.Buffer, k Key) bool {
	if k.Special != SpecialNone || k.Ctrl {
		return false
	}
	switch k.Rune {
	case 'd', 'x', 'D', 'X', 'c', 'C', 's', 'S':
		s.deleteSelection(f, buf, k.Rune)
		return true
	case 'y':
		s.yankSelection(f, buf)
		s.Kind = Normal
		return true
	case 'u', 'U':
		s.changeCaseSelection(f, buf, k.Rune == 'U')
		return true
	}
	return false
}

func (s *State) selectionRange(f *frame.Frame) (from, to text.Position, linewise bool) {
	switch s.Kind {
	case VisualLine:
		sel := f.Range(frame.VisualLine)
		return sel.From, sel.To, true
	default:
		sel := f.Range(frame.VisualChar)
		to = sel.To
		to.Col++ // visual selection end is inclusive of the byte under the cursor
		return sel.From, to, false
	}
}

func (s *State) deleteSelection(f *frame.Frame, buf *buffer.Buffer, verb rune) {
	enterInsert := verb == 'c' || verb == 'C' || verb == 's' || verb == 'S'
	cur := f.Cur

	if s.Kind == VisualBlock {
		left, right := f.BlockCols()
		top, bottom := f.BlockRows()
		from := text.Position{Line: top, Col: left}
		to := text.Position{Line: bottom, Col: right + 1}
		deleted, _ := buf.DeleteBlockAt(from, to, cur, from, false)
		s.captureRegister(deleted, false)
		f.Cur = from
		s.Kind = Normal
		if enterInsert {
			s.Kind = Insert
		}
		return
	}

	from, to, linewise := s.selectionRange(f)
	if linewise && (verb == 'c' || verb == 'C') {
		to.Line--
		to.Col = buf.LineLen(to.Line)
	}
	deleted, _ := buf.Delete(from, to, cur, from, false)
	s.captureRegister(deleted, linewise)
	f.Cur = from
	s.Kind = Normal
	if enterInsert {
		s.Kind = Insert
	}
	f.ClipCol(s.insertLike())
}

func (s *State) yankSelection(f *frame.Frame, buf *buffer.Buffer) {
	if s.Kind == VisualBlock {
		left, right := f.BlockCols()
		top, bottom := f.BlockRows()
		block := buf.GetBlock(text.Position{Line: top, Col: left}, text.Position{Line: bottom, Col: right + 1})
		s.Reg.Set(block.Lines(), false, true)
		return
	}
	from, to, linewise := s.selectionRange(f)
	got := buf.GetRange(from, to)
	s.Reg.Set(got.Lines(), linewise, false)
}

func (s *State) changeCaseSelection(f *frame.Frame, buf *buffer.Buffer, upper bool) {
	conv := text.ByteTransform(func(b byte) byte {
		if upper {
			return byte(unicode.ToUpper(rune(b)))
		}
		return byte(unicode.ToLower(rune(b)))
	})
	cur := f.Cur
	if s.Kind == VisualBlock {
		left, right := f.BlockCols()
		top, bottom := f.BlockRows()
		from := text.Position{Line: top, Col: left}
		to := text.Position{Line: bottom, Col: right + 1}
		buf.ChangeBlockAt(from, to, conv, cur, from)
		f.Cur = from
	} else {
		from, to, _ := s.selectionRange(f)
		buf.Change(from, to, conv, cur, from)
		f.Cur = from
	}
	s.Kind = Normal
}

// putRegister implements 'p'/'P': insert the unnamed register's contents
// after ('p') or before ('P') the cursor, choosing block/linewise/charwise
// placement the way captureRegister/yankSelection chose capture shape.
func (s *State) putRegister(f *frame.Frame, buf *buffer.Buffer, before bool) {
	if len(s.Reg.Lines) == 0 {
		return
	}
	cur := f.Cur
	src := text.FromLines(s.Reg.Lines)

	switch {
	case s.Reg.Block:
		col := cur.Col
		if !before {
			col++
		}
		at := text.Position{Line: cur.Line, Col: col}
		buf.InsertBlockAt(at, src, 1, cur, at, false)
		f.Cur = at
	case s.Reg.Linewise:
		line := cur.Line
		if !before {
			line++
		}
		at := text.Position{Line: line, Col: 0}
		buf.Insert(at, src, 1, cur, at, false)
		f.Cur = at
	default:
		col := cur.Col
		if !before {
			col++
		}
		at := text.Position{Line: cur.Line, Col: col}
		rng := buf.Insert(at, src, 1, cur, at, false)
		f.Cur = rng.To
	}
	f.ClipCol(false)
}

func (s *State) captureRegister(deleted *text.Text, linewise bool) {
	if deleted == nil {
		return
	}
	s.Reg.Set(deleted.Lines(), linewise, false)
}

// applyMotion dispatches a single motion key to f, returning whether it
// recognized the key.
func (s *State) applyMotion(f *frame.Frame, k Key, insertLike bool) bool {
	n := s.count()
	if k.Special != SpecialNone {
		switch k.Special {
		case SpecialLeft:
			f.MoveLeft(n, insertLike)
		case SpecialRight:
			f.MoveRight(n, insertLike)
		case SpecialUp:
			f.MoveUp(n, insertLike)
		case SpecialDown:
			f.MoveDown(n, insertLike)
		case SpecialHome:
			f.Home()
		case SpecialEnd:
			f.End(insertLike)
		case SpecialBackspace, SpecialDelete:
			f.MovePrev(n, insertLike)
		case SpecialPageUp:
			f.PageUp(f.Rect.H, insertLike)
		case SpecialPageDown:
			f.PageDown(f.Rect.H, insertLike)
		default:
			return false
		}
		return true
	}
	switch k.Rune {
	case 'h':
		f.MoveLeft(n, insertLike)
	case 'l':
		f.MoveRight(n, insertLike)
	case 'k':
		f.MoveUp(n, insertLike)
	case 'j':
		f.MoveDown(n, insertLike)
	case '0':
		f.Home()
	case '$':
		f.End(insertLike)
	case 'G':
		if s.Counter > 0 {
			f.FileBeg(s.count() - 1)
		} else {
			f.FileEnd()
		}
	case ' ':
		f.MoveNext(n, insertLike)
	case '{':
		f.ParaUp(n)
	case '}':
		f.ParaDown(n)
	default:
		return false
	}
	return true
}

func (s *State) handleInsert(f *frame.Frame, buf *buffer.Buffer, k Key) bool {
	if k.Special == SpecialEsc {
		f.MoveLeft(1, true)
		s.Kind = Normal
		return true
	}
	if k.Special != SpecialNone {
		switch k.Special {
		case SpecialEnter:
			cur := f.Cur
			after := text.Position{Line: cur.Line + 1, Col: 0}
			buf.Insert(cur, text.FromLines([][]byte{{}, {}}), 1, cur, after, true)
			f.Cur = after
			return true
		case SpecialTab:
			cur := f.Cur
			pad := strings.Repeat(" ", 4-f.Cur.Col%4)
			buf.Insert(cur, text.FromLines([][]byte{[]byte(pad)}), 1, cur, text.Position{Line: cur.Line, Col: cur.Col + len(pad)}, true)
			f.MoveRight(len(pad), true)
			return true
		case SpecialBackspace:
			old := f.Cur
			f.MovePrev(1, true)
			buf.Delete(f.Cur, old, old, f.Cur, true)
			return true
		case SpecialDelete:
			old := f.Cur
			next := old
			next.Col++
			buf.Delete(old, next, old, old, true)
			return true
		default:
			return s.applyMotion(f, k, true)
		}
	}
	if k.Ctrl {
		return false
	}
	if k.Rune >= ' ' || k.Rune < 0 {
		cur := f.Cur
		buf.Insert(cur, text.FromLines([][]byte{[]byte(string(k.Rune))}), 1, cur, cur, true)
		f.MoveRight(1, true)
		return true
	}
	return false
}
