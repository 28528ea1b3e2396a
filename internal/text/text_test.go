package text

import "testing"

func linesOf(s ...string) [][]byte {
	out := make([][]byte, len(s))
	for i, v := range s {
		out[i] = []byte(v)
	}
	return out
}

func asStrings(t *Text) []string {
	raw := t.Lines()
	out := make([]string, len(raw))
	for i, b := range raw {
		out[i] = string(b)
	}
	return out
}

func assertLines(t *testing.T, got *Text, want ...string) {
	t.Helper()
	gs := asStrings(got)
	if len(gs) != len(want) {
		t.Fatalf("got %v, want %v", gs, want)
	}
	for i := range want {
		if gs[i] != want[i] {
			t.Fatalf("got %v, want %v", gs, want)
		}
	}
}

func TestNewTextIsSingleEmptyLine(t *testing.T) {
	tx := New()
	if tx.NumLines() != 1 || tx.LineLen(0) != 0 {
		t.Fatalf("expected one empty line, got %v", asStrings(tx))
	}
}

func TestInsertRangeSingleLine(t *testing.T) {
	tx := New()
	src := FromLines(linesOf("abc"))
	tx.InsertRange(Position{0, 0}, src, 1)
	assertLines(t, tx, "abc")
}

func TestInsertRangeMultiLine(t *testing.T) {
	tx := New()
	src := FromLines(linesOf("abc", "de"))
	tx.InsertRange(Position{0, 0}, src, 1)
	assertLines(t, tx, "abc", "de")
}

func TestInsertRangeSplicesMiddle(t *testing.T) {
	tx := FromLines(linesOf("hello world"))
	src := FromLines(linesOf("X", "Y"))
	tx.InsertRange(Position{0, 5}, src, 1)
	assertLines(t, tx, "helloX", "Y world")
}

func TestDeleteRangeJoinsLines(t *testing.T) {
	tx := FromLines(linesOf("hello", "world"))
	removed, _ := tx.DeleteRange(Position{0, 3}, Position{1, 2})
	assertLines(t, tx, "helrld")
	assertLines(t, removed, "lo", "wo")
}

func TestInsertBlockPadsShortLines(t *testing.T) {
	tx := FromLines(linesOf("a", "bb", "ccc"))
	src := FromLines(linesOf("X", "X", "X"))
	tx.InsertBlock(Position{0, 2}, src, 1)
	assertLines(t, tx, "a X", "bbX", "ccX")
}

func TestDeleteBlockClampsPerRow(t *testing.T) {
	tx := FromLines(linesOf("abcdef", "ab", "abcdef"))
	tx.DeleteBlock(Position{0, 1}, Position{2, 3})
	assertLines(t, tx, "adef", "a", "adef")
}

func TestGetRangeThenDeleteThenInsertRoundTrips(t *testing.T) {
	tx := FromLines(linesOf("one two", "three four", "five"))
	from, to := Position{0, 4}, Position{1, 5}
	got := tx.GetRange(from, to)
	tx.DeleteRange(from, to)
	tx.InsertRange(from, got, 1)
	assertLines(t, tx, "one two", "three four", "five")
}

func TestToEqualsNumLinesNormalizesToBufferEnd(t *testing.T) {
	tx := FromLines(linesOf("abc", "def"))
	removed, _ := tx.DeleteRange(Position{0, 1}, Position{2, 0})
	assertLines(t, tx, "a")
	assertLines(t, removed, "bc", "def")
}

func TestEmptyRangeIsNoOp(t *testing.T) {
	tx := FromLines(linesOf("abc"))
	removed, rng := tx.DeleteRange(Position{0, 1}, Position{0, 1})
	assertLines(t, tx, "abc")
	if removed.NumLines() != 1 || removed.LineLen(0) != 0 {
		t.Fatalf("expected empty removal, got %v", asStrings(removed))
	}
	if rng.From != rng.To {
		t.Fatalf("expected no-op range, got %v", rng)
	}
}

func TestBreakLineAtEndCreatesTrailingEmptyLine(t *testing.T) {
	tx := FromLines(linesOf("abc"))
	tx.BreakLine(Position{0, 3})
	assertLines(t, tx, "abc", "")
}

func TestChangeRangeXORRoundTrips(t *testing.T) {
	tx := FromLines(linesOf("hello world"))
	upper := func(b byte) byte {
		if b >= 'a' && b <= 'z' {
			return b - 32
		}
		return b
	}
	delta, rng := tx.ChangeRange(Position{0, 0}, Position{0, 5}, upper)
	assertLines(t, tx, "HELLO world")
	tx.ApplyXOR(rng.From, rng.To, delta)
	assertLines(t, tx, "hello world")
}

func TestRepeatTextBlockPadsShortTiles(t *testing.T) {
	src := FromLines(linesOf("a", "bb"))
	out := RepeatTextBlock(src, 2)
	assertLines(t, out, "a ", "bb", "a ", "bb")
}

func TestModeLineEnd(t *testing.T) {
	if ModeLineEnd(5, true) != 5 {
		t.Error("insert-like mode should allow one-past-end")
	}
	if ModeLineEnd(5, false) != 4 {
		t.Error("normal mode should clip to len-1")
	}
	if ModeLineEnd(0, false) != 0 {
		t.Error("empty line normal mode end should be 0")
	}
}
