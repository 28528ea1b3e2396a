package mode

import (
	"testing"

	"github.com/jackwreid/purec/internal/buffer"
	"github.com/jackwreid/purec/internal/frame"
	"github.com/jackwreid/purec/internal/text"
)

func newTestFrame(t *testing.T, lines ...string) *frame.Frame {
	t.Helper()
	b := buffer.New()
	raw := make([][]byte, len(lines))
	for i, l := range lines {
		raw[i] = []byte(l)
	}
	b.Text = text.FromLines(raw)
	return &frame.Frame{Buf: b, Rect: frame.Rect{W: 80, H: 24}}
}

func contents(f *frame.Frame) []string {
	raw := f.Buf.Lines()
	out := make([]string, len(raw))
	for i, l := range raw {
		out[i] = string(l)
	}
	return out
}

func TestDeleteThenPutRoundTripsCharwise(t *testing.T) {
	f := newTestFrame(t, "hello world")
	s := NewState()

	f.Cur = text.Position{Line: 0, Col: 0}
	s.Handle(f, f.Buf, Key{Rune: 'd'})
	s.Handle(f, f.Buf, Key{Rune: 'l'})
	if got := contents(f)[0]; got != "ello world" {
		t.Fatalf("after dl, got %q", got)
	}
	if len(s.Reg.Lines) == 0 {
		t.Fatal("expected dl to populate the unnamed register")
	}

	s.Handle(f, f.Buf, Key{Rune: 'P'})
	if got := contents(f)[0]; got != "hello world" {
		t.Fatalf("after P, got %q", got)
	}
}

func TestDeleteLineThenPutBelow(t *testing.T) {
	f := newTestFrame(t, "one", "two", "three")
	s := NewState()
	f.Cur = text.Position{Line: 0, Col: 0}

	s.Handle(f, f.Buf, Key{Rune: 'd'})
	s.Handle(f, f.Buf, Key{Rune: 'd'})

	if !s.Reg.Linewise {
		t.Fatalf("dd should set a linewise register")
	}
	if got := contents(f); len(got) != 2 || got[0] != "two" || got[1] != "three" {
		t.Fatalf("after dd, got %v", got)
	}

	s.Handle(f, f.Buf, Key{Rune: 'p'})
	got := contents(f)
	want := []string{"two", "one", "three"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestPutWithEmptyRegisterIsNoop(t *testing.T) {
	f := newTestFrame(t, "abc")
	s := NewState()
	f.Cur = text.Position{Line: 0, Col: 0}

	s.Handle(f, f.Buf, Key{Rune: 'p'})
	if got := contents(f)[0]; got != "abc" {
		t.Fatalf("put with nothing yanked should not change the buffer, got %q", got)
	}
}

func TestVisualBlockYankSetsBlockRegister(t *testing.T) {
	f := newTestFrame(t, "ab", "cd")
	s := NewState()
	f.Cur = text.Position{Line: 0, Col: 0}

	s.Handle(f, f.Buf, Key{Ctrl: true, Rune: 'v'})
	f.Cur = text.Position{Line: 1, Col: 0}
	s.Handle(f, f.Buf, Key{Rune: 'y'})

	if !s.Reg.Block {
		t.Fatalf("ctrl-v yank should set a block register")
	}
	if s.Kind != Normal {
		t.Fatalf("yank should return to NORMAL, got %v", s.Kind)
	}
}
