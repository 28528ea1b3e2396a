package termio

import (
	"testing"

	"github.com/jackwreid/purec/internal/mode"
)

func TestParseKeyRune(t *testing.T) {
	k := parseKey([]byte{'a'})
	if k.Special != mode.SpecialNone || k.Rune != 'a' {
		t.Errorf("expected rune 'a', got %+v", k)
	}
}

func TestParseKeyEscape(t *testing.T) {
	k := parseKey([]byte{27})
	if k.Special != mode.SpecialEsc {
		t.Errorf("expected escape, got %+v", k)
	}
}

func TestParseKeyEnter(t *testing.T) {
	k := parseKey([]byte{13})
	if k.Special != mode.SpecialEnter {
		t.Errorf("expected enter, got %+v", k)
	}
}

func TestParseKeyBackspace(t *testing.T) {
	for _, b := range []byte{127, 8} {
		k := parseKey([]byte{b})
		if k.Special != mode.SpecialBackspace {
			t.Errorf("expected backspace for %d, got %+v", b, k)
		}
	}
}

func TestParseKeyCtrlChord(t *testing.T) {
	k := parseKey([]byte{18}) // Ctrl-R
	if !k.Ctrl || k.Rune != 'r' {
		t.Errorf("expected ctrl-r, got %+v", k)
	}
	k = parseKey([]byte{22}) // Ctrl-V
	if !k.Ctrl || k.Rune != 'v' {
		t.Errorf("expected ctrl-v, got %+v", k)
	}
}

func TestParseKeyArrows(t *testing.T) {
	tests := []struct {
		seq  []byte
		want mode.Special
	}{
		{[]byte{27, '[', 'A'}, mode.SpecialUp},
		{[]byte{27, '[', 'B'}, mode.SpecialDown},
		{[]byte{27, '[', 'C'}, mode.SpecialRight},
		{[]byte{27, '[', 'D'}, mode.SpecialLeft},
		{[]byte{27, '[', 'H'}, mode.SpecialHome},
		{[]byte{27, '[', 'F'}, mode.SpecialEnd},
	}
	for _, tt := range tests {
		k := parseKey(tt.seq)
		if k.Special != tt.want {
			t.Errorf("parseKey(%v) = %+v, want special %d", tt.seq, k, tt.want)
		}
	}
}

func TestParseKeyPageUpDown(t *testing.T) {
	if k := parseKey([]byte{27, '[', '5', '~'}); k.Special != mode.SpecialPageUp {
		t.Errorf("expected page up, got %+v", k)
	}
	if k := parseKey([]byte{27, '[', '6', '~'}); k.Special != mode.SpecialPageDown {
		t.Errorf("expected page down, got %+v", k)
	}
}

func TestDecodeUTF8Multibyte(t *testing.T) {
	// "é" = 0xC3 0xA9
	r := decodeUTF8([]byte{0xC3, 0xA9})
	if r != 'é' {
		t.Errorf("expected 'é', got %q", r)
	}
}
