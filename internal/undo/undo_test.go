package undo

import (
	"strings"
	"testing"

	"github.com/jackwreid/purec/internal/text"
)

// fixture wraps a *text.Text so it satisfies Mutator the same way
// buffer.Buffer does, for log tests that don't need a full buffer.
type fixture struct {
	*text.Text
}

func newFixture(lines ...string) *fixture {
	raw := make([][]byte, len(lines))
	for i, l := range lines {
		raw[i] = []byte(l)
	}
	return &fixture{text.FromLines(raw)}
}

func (f *fixture) contents() string {
	raw := f.Lines()
	out := make([]string, len(raw))
	for i, b := range raw {
		out[i] = string(b)
	}
	return strings.Join(out, "|")
}

func newStore(t *testing.T) *SegmentStore {
	t.Helper()
	s, err := NewSegmentStore("")
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestInsertAndUndo(t *testing.T) {
	f := newFixture("")
	store := newStore(t)
	log := NewLog(store, nil)

	src := text.FromLines([][]byte{[]byte("abc"), []byte("de")})
	rng := f.InsertRange(text.Position{}, src, 1)
	log.PushInsert(text.Position{}, rng, text.Position{}, rng.To, src, false, false)

	if f.contents() != "abc|de" {
		t.Fatalf("got %q", f.contents())
	}

	cur, ok := log.Undo(f)
	if !ok {
		t.Fatal("expected undo to apply")
	}
	if f.contents() != "" {
		t.Fatalf("after undo got %q", f.contents())
	}
	if cur != (text.Position{}) {
		t.Fatalf("cursor after undo = %v", cur)
	}

	cur, ok = log.Redo(f)
	if !ok {
		t.Fatal("expected redo to apply")
	}
	if f.contents() != "abc|de" {
		t.Fatalf("after redo got %q", f.contents())
	}
	if cur != rng.To {
		t.Fatalf("cursor after redo = %v, want %v", cur, rng.To)
	}
}

func TestMultiLineJoinViaDeleteRangeUndoes(t *testing.T) {
	f := newFixture("hello", "world")
	store := newStore(t)
	log := NewLog(store, nil)

	from, to := text.Position{0, 3}, text.Position{1, 2}
	removed, rng := f.DeleteRange(from, to)
	log.PushDelete(rng, from, from, removed, false, false)

	if f.contents() != "helrld" {
		t.Fatalf("got %q", f.contents())
	}

	log.Undo(f)
	if f.contents() != "hello|world" {
		t.Fatalf("after undo got %q", f.contents())
	}
}

func TestBlockInsertWithPadding(t *testing.T) {
	f := newFixture("a", "bb", "ccc")
	src := text.FromLines([][]byte{[]byte("X"), []byte("X"), []byte("X")})
	f.InsertBlock(text.Position{0, 2}, src, 1)
	if f.contents() != "a X|bbX|ccX" {
		t.Fatalf("got %q", f.contents())
	}
}

func TestUndoCoalescesTransientChain(t *testing.T) {
	f := newFixture("")
	store := newStore(t)
	log := NewLog(store, nil)

	chars := []string{"f", "o", "o"}
	col := 0
	for i, c := range chars {
		src := text.FromLines([][]byte{[]byte(c)})
		rng := f.InsertRange(text.Position{0, col}, src, 1)
		transient := i < len(chars)-1
		before := text.Position{0, col}
		log.PushInsert(text.Position{0, col}, rng, before, rng.To, src, false, transient)
		col++
	}

	if f.contents() != "foo" {
		t.Fatalf("got %q", f.contents())
	}
	if log.Len() != 3 {
		t.Fatalf("expected 3 events recorded, got %d", log.Len())
	}

	_, ok := log.Undo(f)
	if !ok {
		t.Fatal("expected undo")
	}
	if f.contents() != "" {
		t.Fatalf("one undo call should remove the whole coalesced chain, got %q", f.contents())
	}
	if log.EventI != 0 {
		t.Fatalf("expected EventI back to 0, got %d", log.EventI)
	}
}

func TestAppendAutoCoalescesAdjacentInserts(t *testing.T) {
	f := newFixture("")
	store := newStore(t)
	log := NewLog(store, nil)

	chars := []string{"f", "o", "o"}
	col := 0
	for _, c := range chars {
		src := text.FromLines([][]byte{[]byte(c)})
		rng := f.InsertRange(text.Position{0, col}, src, 1)
		before := text.Position{0, col}
		// markTransient=false every time: shouldJoin alone must still
		// chain these into one undo step.
		log.PushInsert(text.Position{0, col}, rng, before, rng.To, src, false, false)
		col++
	}

	if f.contents() != "foo" {
		t.Fatalf("got %q", f.contents())
	}
	if log.Len() != 3 {
		t.Fatalf("expected all 3 events recorded, got %d", log.Len())
	}

	_, ok := log.Undo(f)
	if !ok {
		t.Fatal("expected undo")
	}
	if f.contents() != "" {
		t.Fatalf("shouldJoin should have auto-coalesced the run into one undo step, got %q", f.contents())
	}
}

func TestAppendDoesNotCoalesceNonAdjacentInserts(t *testing.T) {
	f := newFixture("xxxxx")
	store := newStore(t)
	log := NewLog(store, nil)

	src1 := text.FromLines([][]byte{[]byte("a")})
	rng1 := f.InsertRange(text.Position{0, 0}, src1, 1)
	log.PushInsert(text.Position{0, 0}, rng1, text.Position{}, rng1.To, src1, false, false)

	src2 := text.FromLines([][]byte{[]byte("b")})
	rng2 := f.InsertRange(text.Position{0, 5}, src2, 1)
	log.PushInsert(text.Position{0, 5}, rng2, text.Position{0, 5}, rng2.To, src2, false, false)

	if f.contents() != "axxxxbx" {
		t.Fatalf("got %q", f.contents())
	}

	_, ok := log.Undo(f)
	if !ok {
		t.Fatal("expected undo")
	}
	if f.contents() != "axxxxx" {
		t.Fatalf("insert at a disjoint position should not coalesce with the prior insert, got %q", f.contents())
	}
}

func TestReplaceXORRoundTrips(t *testing.T) {
	f := newFixture("hello world")
	store := newStore(t)
	log := NewLog(store, nil)

	upper := func(b byte) byte {
		if b >= 'a' && b <= 'z' {
			return b - 32
		}
		return b
	}
	delta, rng := f.ChangeRange(text.Position{0, 0}, text.Position{0, 5}, upper)
	log.PushReplace(rng, text.Position{}, rng.To, delta, false)

	if f.contents() != "HELLO world" {
		t.Fatalf("got %q", f.contents())
	}
	log.Undo(f)
	if f.contents() != "hello world" {
		t.Fatalf("after undo got %q", f.contents())
	}
	log.Redo(f)
	if f.contents() != "HELLO world" {
		t.Fatalf("after redo got %q", f.contents())
	}
}

func TestNewEditTruncatesRedoTail(t *testing.T) {
	f := newFixture("")
	store := newStore(t)
	log := NewLog(store, nil)

	src := text.FromLines([][]byte{[]byte("a")})
	rng := f.InsertRange(text.Position{}, src, 1)
	log.PushInsert(text.Position{}, rng, text.Position{}, rng.To, src, false, false)
	log.Undo(f)

	src2 := text.FromLines([][]byte{[]byte("b")})
	rng2 := f.InsertRange(text.Position{}, src2, 1)
	log.PushInsert(text.Position{}, rng2, text.Position{}, rng2.To, src2, false, false)

	_, ok := log.Redo(f)
	if ok {
		t.Fatal("redo should be unavailable after a new edit truncated the tail")
	}
	if f.contents() != "b" {
		t.Fatalf("got %q", f.contents())
	}
}

func TestSpillAndLoadLargeSegment(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSegmentStore(dir + "/spill")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	raw := make([][]byte, HugeUndoThreshold+2)
	for i := range raw {
		raw[i] = []byte("line")
	}
	big := text.FromLines(raw)
	idx := store.Put(big)

	loaded := store.Load(idx)
	if loaded.NumLines() != len(raw) {
		t.Fatalf("expected %d lines back from spill, got %d", len(raw), loaded.NumLines())
	}
	store.Unload(idx)
}
