package session

import (
	"bytes"
	"testing"

	"github.com/jackwreid/purec/internal/frame"
	"github.com/jackwreid/purec/internal/text"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s := &Session{
		Timestamp: 1700000000,
		Selected:  1,
		Buffers: []BufferRecord{
			{ID: 1, Path: "main.go", SavedCur: text.Position{Line: 3, Col: 4}, SavedScroll: text.Position{Line: 0, Col: 0}},
			{ID: 2, Path: "", SavedCur: text.Position{}, SavedScroll: text.Position{}},
		},
		Frames: []FrameRecord{
			{BufID: 1, Rect: frame.Rect{X: 0, Y: 0, W: 80, H: 24}, Cur: text.Position{Line: 3, Col: 4}, Scroll: text.Position{}},
		},
	}

	var buf bytes.Buffer
	if err := Save(&buf, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok := Load(&buf)
	if !ok {
		t.Fatalf("Load: expected ok=true")
	}
	if got.Timestamp != s.Timestamp || got.Selected != s.Selected {
		t.Errorf("header mismatch: got %+v", got)
	}
	if len(got.Buffers) != 2 || got.Buffers[0].Path != "main.go" {
		t.Errorf("buffers mismatch: %+v", got.Buffers)
	}
	if got.Buffers[0].SavedCur.Line != 3 || got.Buffers[0].SavedCur.Col != 4 {
		t.Errorf("saved cursor mismatch: %+v", got.Buffers[0].SavedCur)
	}
	if len(got.Frames) != 1 || got.Frames[0].Rect.W != 80 || got.Frames[0].Rect.H != 24 {
		t.Errorf("frames mismatch: %+v", got.Frames)
	}
}

func TestLoadMissingHeaderReturnsNotOK(t *testing.T) {
	_, ok := Load(bytes.NewReader([]byte("not a session file")))
	if ok {
		t.Error("expected ok=false for missing header")
	}
}

func TestLoadToleratesUnknownLinePrefix(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Header[:])
	buf.WriteString("100 0 selected\n")
	buf.WriteString("Z garbage line\n")
	buf.WriteString("B1 \x00a.go\x00 0,0 0,0\n")

	got, ok := Load(&buf)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if len(got.Buffers) != 1 || got.Buffers[0].Path != "a.go" {
		t.Errorf("expected one buffer record despite unknown prefix, got %+v", got.Buffers)
	}
}
