// Package termio manages raw terminal mode, the alternate screen buffer,
// SIGWINCH-driven resize and key decoding, producing mode.Key values for
// the rest of the editor to dispatch.
//
// Grounded in the teacher's terminal.go almost verbatim in shape
// (MakeRaw/alternate-screen/SIGWINCH plumbing via golang.org/x/term);
// parseKey/decodeUTF8 are generalized to emit mode.Key instead of the
// teacher's own single-package Key type, and gain the Ctrl-chord and
// page-up/down decoding §4.6/§6 need that the teacher's editor had no use
// for.
package termio

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/jackwreid/purec/internal/mode"
)

// Terminal owns raw mode, the alternate screen buffer and terminal size.
type Terminal struct {
	oldState *term.State
	Width    int
	Height   int
	sigwinch chan os.Signal
}

// Open switches stdin to raw mode, enters the alternate screen buffer,
// hides the cursor and starts listening for SIGWINCH.
func Open() (*Terminal, error) {
	t := &Terminal{}

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return nil, err
	}
	t.oldState = oldState

	os.Stdout.WriteString("\x1b[?1049h")
	os.Stdout.WriteString("\x1b[?25l")

	t.Width, t.Height, err = term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		t.Restore()
		return nil, err
	}

	t.sigwinch = make(chan os.Signal, 1)
	signal.Notify(t.sigwinch, syscall.SIGWINCH)

	return t, nil
}

// Resize re-queries terminal dimensions, reporting whether they changed.
func (t *Terminal) Resize() bool {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return false
	}
	changed := w != t.Width || h != t.Height
	t.Width, t.Height = w, h
	return changed
}

// SigwinchChan is the channel that receives SIGWINCH notifications.
func (t *Terminal) SigwinchChan() <-chan os.Signal {
	return t.sigwinch
}

// Restore undoes Open: shows the cursor, leaves the alternate screen
// buffer, restores the original terminal mode and stops signal delivery.
func (t *Terminal) Restore() {
	os.Stdout.WriteString("\x1b[?25h")
	os.Stdout.WriteString("\x1b[?1049l")
	if t.oldState != nil {
		term.Restore(int(os.Stdin.Fd()), t.oldState)
	}
	if t.sigwinch != nil {
		signal.Stop(t.sigwinch)
	}
}

// ReadKey reads one keypress from stdin in raw mode and decodes it into a
// mode.Key.
func (t *Terminal) ReadKey() (mode.Key, error) {
	buf := make([]byte, 6)
	n, err := os.Stdin.Read(buf)
	if err != nil {
		return mode.Key{}, err
	}
	return parseKey(buf[:n]), nil
}

func parseKey(buf []byte) mode.Key {
	if len(buf) == 0 {
		return mode.Key{Special: mode.SpecialNone}
	}

	if len(buf) == 1 {
		b := buf[0]
		switch {
		case b == 27:
			return mode.Key{Special: mode.SpecialEsc}
		case b == 13:
			return mode.Key{Special: mode.SpecialEnter}
		case b == 9:
			return mode.Key{Special: mode.SpecialTab}
		case b == 127 || b == 8:
			return mode.Key{Special: mode.SpecialBackspace}
		case b < 27 && b != 9 && b != 13:
			// Ctrl-a .. Ctrl-z (excluding already-handled Tab/Enter/Esc).
			return mode.Key{Rune: rune('a' + b - 1), Ctrl: true}
		case b >= 32 && b < 127:
			return mode.Key{Rune: rune(b)}
		default:
			return mode.Key{Special: mode.SpecialNone}
		}
	}

	if buf[0] == 27 && len(buf) >= 3 && buf[1] == '[' {
		switch buf[2] {
		case 'A':
			return mode.Key{Special: mode.SpecialUp}
		case 'B':
			return mode.Key{Special: mode.SpecialDown}
		case 'C':
			return mode.Key{Special: mode.SpecialRight}
		case 'D':
			return mode.Key{Special: mode.SpecialLeft}
		case 'H':
			return mode.Key{Special: mode.SpecialHome}
		case 'F':
			return mode.Key{Special: mode.SpecialEnd}
		}
		if len(buf) >= 4 && buf[3] == '~' {
			switch buf[2] {
			case '1':
				return mode.Key{Special: mode.SpecialHome}
			case '3':
				return mode.Key{Special: mode.SpecialDelete}
			case '4':
				return mode.Key{Special: mode.SpecialEnd}
			case '5':
				return mode.Key{Special: mode.SpecialPageUp}
			case '6':
				return mode.Key{Special: mode.SpecialPageDown}
			}
		}
	}

	r := decodeUTF8(buf)
	if r >= 32 {
		return mode.Key{Rune: r}
	}
	return mode.Key{Special: mode.SpecialNone}
}

func decodeUTF8(buf []byte) rune {
	if len(buf) == 0 {
		return 0
	}
	b := buf[0]
	switch {
	case b < 0x80:
		return rune(b)
	case b < 0xC0:
		return 0xFFFD
	case b < 0xE0 && len(buf) >= 2:
		return rune(b&0x1F)<<6 | rune(buf[1]&0x3F)
	case b < 0xF0 && len(buf) >= 3:
		return rune(b&0x0F)<<12 | rune(buf[1]&0x3F)<<6 | rune(buf[2]&0x3F)
	case b < 0xF8 && len(buf) >= 4:
		return rune(b&0x07)<<18 | rune(buf[1]&0x3F)<<12 | rune(buf[2]&0x3F)<<6 | rune(buf[3]&0x3F)
	}
	return 0xFFFD
}
