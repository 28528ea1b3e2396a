// Package editor implements the §9 Editor aggregate: the top-level object
// that owns the buffer registry, the frame manager, mode state, the
// clipboard/picker/spell collaborators and the main input/render loop,
// replacing the original's FirstBuffer/Core/Mode/Parser globals with one
// explicit struct a test can construct fresh.
//
// Grounded in the teacher's App (app.go) almost wholesale: NewApp's
// buffer-list construction, Run's "load buffers, open terminal, render,
// loop on ReadKey" shape, and handleInput's overlay-priority dispatch
// (picker/prompt before mode keys) are kept in structure and generalized
// from one-buffer-one-viewport to the registry/frame-manager model.
package editor

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/jackwreid/purec/internal/buffer"
	"github.com/jackwreid/purec/internal/clipboard"
	"github.com/jackwreid/purec/internal/diag"
	"github.com/jackwreid/purec/internal/frame"
	"github.com/jackwreid/purec/internal/highlight"
	"github.com/jackwreid/purec/internal/mode"
	"github.com/jackwreid/purec/internal/picker"
	"github.com/jackwreid/purec/internal/regex"
	"github.com/jackwreid/purec/internal/session"
	"github.com/jackwreid/purec/internal/spell"
	"github.com/jackwreid/purec/internal/termio"
	"github.com/jackwreid/purec/internal/text"
)

// Editor is the top-level aggregate the command-line entry point
// constructs and runs.
type Editor struct {
	Buffers   *buffer.Registry
	Frames    *frame.Manager
	Mode      *mode.State
	Clipboard *clipboard.Board
	Picker    *picker.Picker
	Spell     *spell.Checker
	Highlight *highlight.Driver

	Term *termio.Terminal

	StatusMsg     string
	CommandActive bool // ':' was pressed, awaiting a command line
	CommandLine   string

	regVersion int // last mode.Register.Version mirrored onto Clipboard

	Quit     bool
	QuitCode int
}

// New constructs an Editor over the given files (or one anonymous scratch
// buffer if filenames is empty), mirroring the teacher's NewApp.
func New(filenames []string) (*Editor, error) {
	e := &Editor{
		Buffers:   buffer.NewRegistry(),
		Mode:      mode.NewState(),
		Clipboard: clipboard.Open(),
		Picker:    &picker.Picker{},
		Spell:     spell.New(),
		Highlight: highlight.NewDriver(),
	}

	if len(filenames) == 0 {
		b, err := buffer.Create("")
		if err != nil {
			return nil, err
		}
		e.Buffers.Add(b)
	} else {
		for _, fn := range filenames {
			if _, err := e.Buffers.CreateOrGet(fn); err != nil {
				return nil, err
			}
		}
	}

	first := e.Buffers.All()[0]
	f := &frame.Frame{Buf: first, Cur: first.SavedCursor, Scroll: first.SavedScroll}
	e.Frames = frame.NewManager(f, frame.Rect{W: 80, H: 24})
	return e, nil
}

// Focused returns the currently selected frame.
func (e *Editor) Focused() *frame.Frame {
	return e.Frames.Get(e.Frames.Focused)
}

// Run opens the terminal, renders once, then loops reading and dispatching
// keys until Quit is set, mirroring the teacher's App.Run.
func (e *Editor) Run() error {
	t, err := termio.Open()
	if err != nil {
		return err
	}
	e.Term = t
	defer t.Restore()

	e.Focused().Rect = frame.Rect{X: 0, Y: 0, W: t.Width, H: t.Height - 1}
	e.render()

	for !e.Quit {
		select {
		case <-t.SigwinchChan():
			t.Resize()
			e.resizeAll(t.Width, t.Height)
			e.render()
			continue
		default:
		}

		k, err := t.ReadKey()
		if err != nil {
			return err
		}
		e.handleInput(k)
		if !e.Quit {
			e.render()
		}
	}
	return nil
}

func (e *Editor) resizeAll(w, h int) {
	for _, f := range e.Frames.All() {
		f.Rect.W, f.Rect.H = w, h-1
	}
}

// handleInput dispatches one decoded key: the command line (':') takes
// priority over mode keys, then the picker overlay, then the active
// frame's mode state, matching the teacher's overlay-before-mode
// precedence in handleInput.
func (e *Editor) handleInput(k mode.Key) {
	e.StatusMsg = ""

	if e.CommandActive {
		e.handleCommandKey(k)
		return
	}
	if e.Picker.Active {
		e.handlePickerKey(k)
		return
	}
	if e.Mode.Kind == mode.Normal && k.Rune == ':' && k.Special == mode.SpecialNone {
		e.CommandActive = true
		e.CommandLine = ""
		return
	}

	f := e.Focused()

	// §5's producer/responder handoff: a pending put pulls in whatever the
	// OS clipboard goroutine last observed, before the put verb consumes
	// the register.
	if e.Mode.Kind == mode.Normal && k.Special == mode.SpecialNone && !k.Ctrl && (k.Rune == 'p' || k.Rune == 'P') {
		if text := e.Clipboard.Get(); text != "" {
			e.Mode.Reg.LoadText(text)
		}
	}

	e.Mode.Handle(f, f.Buf, k)
	f.EnsureCursorVisible()

	if e.Mode.Reg.Version != e.regVersion {
		e.regVersion = e.Mode.Reg.Version
		e.Clipboard.Set(e.Mode.Reg.Text())
	}
}

func (e *Editor) handlePickerKey(k mode.Key) {
	switch k.Special {
	case mode.SpecialEsc:
		e.Picker.Hide()
	case mode.SpecialEnter:
		sel := e.Picker.Selection()
		e.Picker.Hide()
		if sel != "" {
			if err := e.openFile(sel); err != nil {
				e.StatusMsg = err.Error()
			}
		}
	case mode.SpecialUp:
		e.Picker.MoveUp()
	case mode.SpecialDown:
		e.Picker.MoveDown()
	case mode.SpecialBackspace:
		e.Picker.Backspace(e.bufferNames())
	default:
		if k.Special == mode.SpecialNone && !k.Ctrl {
			e.Picker.Type(e.bufferNames(), k.Rune)
		}
	}
}

func (e *Editor) bufferNames() []string {
	var names []string
	for _, b := range e.Buffers.All() {
		if b.Path != "" {
			names = append(names, b.Path)
		}
	}
	return names
}

// handleCommandKey accumulates a colon-command line and executes it on
// Enter, or cancels on Escape.
func (e *Editor) handleCommandKey(k mode.Key) {
	switch k.Special {
	case mode.SpecialEsc:
		e.CommandActive = false
		e.CommandLine = ""
	case mode.SpecialEnter:
		line := e.CommandLine
		e.CommandActive = false
		e.CommandLine = ""
		if err := e.ExecuteCommand(line); err != nil {
			if msg, ok := diag.AsMessage(err); ok {
				e.StatusMsg = msg
			} else {
				e.StatusMsg = err.Error()
			}
		}
	case mode.SpecialBackspace:
		if n := len(e.CommandLine); n > 0 {
			e.CommandLine = e.CommandLine[:n-1]
		}
	default:
		if k.Special == mode.SpecialNone && !k.Ctrl {
			e.CommandLine += string(k.Rune)
		}
	}
}

func (e *Editor) openFile(path string) error {
	b, err := e.Buffers.CreateOrGet(path)
	if err != nil {
		return diag.Status("open %s: %v", path, err)
	}
	f := e.Focused()
	f.Buf = b
	f.Cur = b.SavedCursor
	f.Scroll = b.SavedScroll
	return nil
}

// ExecuteCommand parses and runs one colon-command line per §6's command
// surface (:w :wa :q :qa :cq :e :b :bn :bp :syntax :colo :spell :s/…/…/).
// Errors returned are diag.Status messages: the caller surfaces them on
// the status line without changing editor state, per §7.
func (e *Editor) ExecuteCommand(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	whole := strings.HasPrefix(line, "%")
	if whole {
		line = line[1:]
	}

	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch {
	case name == "w" || name == "w!":
		return e.cmdWrite(rest, strings.HasSuffix(name, "!"))
	case name == "wa":
		return e.cmdWriteAll()
	case name == "q" || name == "q!":
		return e.cmdQuit(strings.HasSuffix(name, "!"))
	case name == "qa" || name == "qa!":
		return e.cmdQuitAll(strings.HasSuffix(name, "!"))
	case name == "cq":
		code := 1
		if rest != "" {
			if n, err := strconv.Atoi(rest); err == nil {
				code = n
			}
		}
		e.QuitCode = code
		e.Quit = true
		return nil
	case name == "e":
		return e.openFile(rest)
	case name == "b":
		return e.cmdBuffer(rest)
	case name == "bn":
		return e.cmdBufferStep(1)
	case name == "bp":
		return e.cmdBufferStep(-1)
	case name == "syntax":
		e.Focused().Buf.SetLanguage(rest)
		return nil
	case name == "colo":
		return nil // color scheme selection has no observable effect in this core
	case name == "spell":
		return e.cmdSpell()
	case strings.HasPrefix(name, "s/") || strings.HasPrefix(line, "s/"):
		return e.cmdSubstitute(line, whole)
	default:
		return diag.Status("unknown command: %s", name)
	}
}

func (e *Editor) cmdWrite(path string, force bool) error {
	buf := e.Focused().Buf
	if err := buf.Save(path, force); err != nil {
		return diag.Status("write: %v", err)
	}
	return nil
}

func (e *Editor) cmdWriteAll() error {
	for _, b := range e.Buffers.All() {
		if b.Modified() {
			if err := b.Save("", false); err != nil {
				return diag.Status("write %s: %v", b.Path, err)
			}
		}
	}
	return nil
}

func (e *Editor) cmdQuit(force bool) error {
	buf := e.Focused().Buf
	if buf.Modified() && !force {
		return diag.Status("unsaved changes (use :q! to discard)")
	}
	if e.Frames.Count() > 1 {
		e.Frames.Destroy(e.Frames.Focused)
		return nil
	}
	e.Quit = true
	return nil
}

func (e *Editor) cmdQuitAll(force bool) error {
	if !force {
		for _, b := range e.Buffers.All() {
			if b.Modified() {
				return diag.Status("unsaved changes in buffer %d (use :qa! to discard)", b.ID)
			}
		}
	}
	e.Quit = true
	return nil
}

func (e *Editor) cmdBuffer(arg string) error {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return diag.Status("invalid buffer id: %s", arg)
	}
	b := e.Buffers.Get(id)
	if b == nil {
		return diag.Status("no such buffer: %d", id)
	}
	f := e.Focused()
	f.Buf = b
	f.Cur = b.SavedCursor
	f.Scroll = b.SavedScroll
	return nil
}

func (e *Editor) cmdBufferStep(dir int) error {
	all := e.Buffers.All()
	if len(all) == 0 {
		return diag.Status("no buffers open")
	}
	cur := e.Focused().Buf
	idx := sort.Search(len(all), func(i int) bool { return all[i].ID >= cur.ID })
	idx = (idx + dir + len(all)) % len(all)
	e.Focused().Buf = all[idx]
	return nil
}

// cmdSpell runs internal/spell over the focused buffer and jumps to the
// next misspelling after the cursor, wrapping around to the first
// one in the buffer if none remain. The only way to reach internal/spell's
// checker from the editor's command surface.
func (e *Editor) cmdSpell() error {
	f := e.Focused()
	errs := e.Spell.CheckText(f.Buf.Text)
	if len(errs) == 0 {
		return diag.Status("no misspellings found")
	}

	cur := f.Cur
	next := errs[0]
	found := false
	for _, err := range errs {
		pos := text.Position{Line: err.Line, Col: err.StartCol}
		if !pos.Less(cur) && pos != cur {
			next = err
			found = true
			break
		}
	}
	if !found {
		next = errs[0]
	}

	f.Jump(text.Position{Line: next.Line, Col: next.StartCol})
	return diag.Status("misspelled: %s (%d found)", next.Word, len(errs))
}

// cmdSubstitute implements ":s/pattern/repl/flags" (current line, or the
// whole buffer when the "%" range prefix was given), using the PureC
// regex dialect (internal/regex) rather than Go's stdlib regexp per the
// core spec §4.5.
func (e *Editor) cmdSubstitute(line string, whole bool) error {
	if !strings.HasPrefix(line, "s/") {
		return diag.Status("bad substitute command: %s", line)
	}
	parts := strings.Split(line[2:], "/")
	if len(parts) < 2 {
		return diag.Status("bad substitute command: %s", line)
	}
	pattern, repl := parts[0], parts[1]
	global := len(parts) > 2 && strings.Contains(parts[2], "g")

	prog, err := regex.Compile(pattern)
	if err != nil {
		return diag.Status("regex: %v", err)
	}

	buf := e.Focused().Buf
	from, to := 0, buf.NumLines()-1
	if !whole {
		from, to = e.Focused().Cur.Line, e.Focused().Cur.Line
	}

	target := buf.GetRange(text.Position{Line: from, Col: 0}, text.Position{Line: to, Col: buf.LineLen(to)})
	matches := prog.Scan(target)
	if len(matches) == 0 {
		return diag.Status("pattern not found: %s", pattern)
	}
	if !global {
		seenLine := -1
		var first []regex.Match
		for _, m := range matches {
			if m.From.Line != seenLine {
				first = append(first, m)
				seenLine = m.From.Line
			}
		}
		matches = first
	}

	// Apply back-to-front so earlier offsets stay valid.
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		at := text.Position{Line: from + m.From.Line, Col: m.From.Col}
		end := text.Position{Line: from + m.To.Line, Col: m.To.Col}
		cur := e.Focused().Cur
		buf.Delete(at, end, cur, cur, true)
		buf.Insert(at, text.FromLines([][]byte{[]byte(repl)}), 1, cur, at, false)
	}
	return nil
}

// StatusLine formats the status bar text for buf in kind, mirroring the
// teacher's StatusBar.FormatLeft/FormatRight split (unnamed/[+]/mode tag).
func StatusLine(buf *buffer.Buffer, kind mode.Kind, width int) string {
	name := buf.Path
	if name == "" {
		name = "[unnamed]"
	}
	mod := ""
	if buf.Modified() {
		mod = " [+]"
	}
	left := fmt.Sprintf(" %s%s", name, mod)
	right := modeTag(kind) + " "
	pad := width - len(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

func modeTag(kind mode.Kind) string {
	switch kind {
	case mode.Insert:
		return "INSERT"
	case mode.Visual:
		return "VISUAL"
	case mode.VisualLine:
		return "V-LINE"
	case mode.VisualBlock:
		return "V-BLOCK"
	default:
		return "NORMAL"
	}
}

// render draws the focused frame's visible window plus the status and
// (when active) command lines, writing ANSI escapes directly to stdout,
// mirroring the teacher's Renderer.RenderFrame.
func (e *Editor) render() {
	f := e.Focused()
	var b strings.Builder
	b.WriteString("\x1b[?25l\x1b[H")

	if f.Buf.MinDirty >= 0 {
		last := max(f.Buf.MaxDirty, f.Scroll+f.VisibleLines()-1)
		e.Highlight.Rehighlight(f.Buf.Text, f.Buf.Lang, f.Buf.MinDirty, last)
		f.Buf.ResetDirty()
	}

	vis := f.VisibleLines()
	for i := 0; i < vis; i++ {
		row := f.Scroll + i
		b.WriteString(fmt.Sprintf("\x1b[%d;1H\x1b[K", i+1))
		if row < f.Buf.NumLines() {
			b.Write(f.Buf.Line(row).Bytes)
		} else {
			b.WriteString("~")
		}
	}

	b.WriteString(fmt.Sprintf("\x1b[%d;1H\x1b[K", f.Rect.H+1))
	if e.CommandActive {
		b.WriteString(":" + e.CommandLine)
	} else if e.StatusMsg != "" {
		b.WriteString(e.StatusMsg)
	} else {
		b.WriteString(StatusLine(f.Buf, e.Mode.Kind, f.Rect.W))
	}

	cursorRow := f.Cur.Line - f.Scroll + 1
	cursorCol := f.Cur.Col + 1
	b.WriteString(fmt.Sprintf("\x1b[%d;%dH\x1b[?25h", cursorRow, cursorCol))

	os.Stdout.WriteString(b.String())
}

// SaveSession serializes the open buffers and frames to w.
func (e *Editor) SaveSession(w *os.File, timestamp int64) error {
	s := &session.Session{Timestamp: timestamp}
	for _, buf := range e.Buffers.All() {
		s.Buffers = append(s.Buffers, session.BufferRecord{
			ID: buf.ID, Path: buf.Path,
			SavedCur:    buf.SavedCursor,
			SavedScroll: text.Position{Line: buf.SavedScroll},
		})
	}
	for i, fr := range e.Frames.All() {
		if fr.ID == e.Frames.Focused {
			s.Selected = i
		}
		s.Frames = append(s.Frames, session.FrameRecord{
			BufID: fr.Buf.ID, Rect: fr.Rect, Cur: fr.Cur,
			Scroll: text.Position{Line: fr.Scroll},
		})
	}
	return session.Save(w, s)
}

// LoadSession restores the buffers and the first frame record from an
// earlier SaveSession, falling back to the caller's existing state when the
// file has no valid header. Later frame records, the saved frame
// rectangles and the saved selection are not restored: the editor starts
// with that one frame filling an 80x24 rectangle.
func LoadSession(r *os.File) (*Editor, bool, error) {
	s, ok := session.Load(r)
	if !ok {
		return nil, false, nil
	}
	e := &Editor{
		Buffers:   buffer.NewRegistry(),
		Mode:      mode.NewState(),
		Clipboard: clipboard.Open(),
		Picker:    &picker.Picker{},
		Spell:     spell.New(),
		Highlight: highlight.NewDriver(),
	}
	idByOldID := map[int]*buffer.Buffer{}
	for _, rec := range s.Buffers {
		b, err := buffer.Create(rec.Path)
		if err != nil {
			continue
		}
		b.SavedCursor = rec.SavedCur
		b.SavedScroll = rec.SavedScroll.Line
		e.Buffers.Add(b)
		idByOldID[rec.ID] = b
	}
	if e.Buffers.Len() == 0 {
		b, err := buffer.Create("")
		if err != nil {
			return nil, false, err
		}
		e.Buffers.Add(b)
	}
	var first *frame.Frame
	for i, rec := range s.Frames {
		buf := idByOldID[rec.BufID]
		if buf == nil {
			buf = e.Buffers.All()[0]
		}
		f := &frame.Frame{Buf: buf, Cur: rec.Cur, Scroll: rec.Scroll.Line}
		if i == 0 {
			first = f
		}
	}
	if first == nil {
		first = &frame.Frame{Buf: e.Buffers.All()[0]}
	}
	e.Frames = frame.NewManager(first, frame.Rect{W: 80, H: 24})
	return e, true, nil
}
