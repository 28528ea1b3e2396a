// Package mode implements the key → verb state machine: NORMAL, INSERT,
// VISUAL, VISUAL_LINE and VISUAL_BLOCK, dispatching digit-prefixed counters
// to motions and editing verbs against a frame.Frame/buffer.Buffer pair.
//
// Grounded in original_source/src/mode_normal.c, mode_insert.c and
// mode_visual.c, generalized from their switch-on-char dispatch into Go's
// idiomatic (Key, *State) handler tables, following the teacher's
// app.go pending-chord-flag pattern (dPending/gPending/yPending) for
// multi-key sequences like "dd", "gg" and "cw".
package mode

// Special identifies non-printable keys the terminal layer decodes.
type Special int

const (
	SpecialNone Special = iota
	SpecialEsc
	SpecialEnter
	SpecialTab
	SpecialBackspace
	SpecialDelete
	SpecialLeft
	SpecialRight
	SpecialUp
	SpecialDown
	SpecialHome
	SpecialEnd
	SpecialPageUp
	SpecialPageDown
)

// Key is one decoded keypress: either a printable rune or a Special code,
// with an independent Ctrl modifier for control-chord letters (Ctrl-R,
// Ctrl-V).
type Key struct {
	Rune    rune
	Special Special
	Ctrl    bool
}

func (k Key) isDigit() bool {
	return k.Special == SpecialNone && !k.Ctrl && k.Rune >= '0' && k.Rune <= '9'
}

func (k Key) digit() int {
	return int(k.Rune - '0')
}
