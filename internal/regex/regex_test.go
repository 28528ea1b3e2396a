package regex

import (
	"testing"

	"github.com/jackwreid/purec/internal/text"
)

func mustPos(line, col int) text.Position { return text.Position{Line: line, Col: col} }

func TestScanWordAnchors(t *testing.T) {
	tx := text.FromLines([][]byte{
		[]byte("int foo(int x);"),
		[]byte("int bar(int y);"),
	})
	prog := MustCompile(`\<int\>`)
	got := prog.Scan(tx)
	want := []Match{
		{From: mustPos(0, 0), To: mustPos(0, 3)},
		{From: mustPos(0, 8), To: mustPos(0, 11)},
		{From: mustPos(1, 0), To: mustPos(1, 3)},
		{From: mustPos(1, 8), To: mustPos(1, 11)},
	}
	assertMatches(t, got, want)
}

func TestScanAlternationAndRepeat(t *testing.T) {
	tx := text.FromLines([][]byte{[]byte("cat cot coot ct")})
	prog := MustCompile(`c(a|o+)t`)
	got := prog.Scan(tx)
	want := []Match{
		{From: mustPos(0, 0), To: mustPos(0, 3)},
		{From: mustPos(0, 4), To: mustPos(0, 7)},
		{From: mustPos(0, 8), To: mustPos(0, 12)},
	}
	assertMatches(t, got, want)
}

func TestCharClassRanges(t *testing.T) {
	tx := text.FromLines([][]byte{[]byte("a1 b2 c3")})
	prog := MustCompile(`[a-c][0-9]`)
	got := prog.Scan(tx)
	want := []Match{
		{From: mustPos(0, 0), To: mustPos(0, 2)},
		{From: mustPos(0, 3), To: mustPos(0, 5)},
		{From: mustPos(0, 6), To: mustPos(0, 8)},
	}
	assertMatches(t, got, want)
}

func TestLineAnchors(t *testing.T) {
	tx := text.FromLines([][]byte{[]byte("abc"), []byte("abc")})
	prog := MustCompile(`^abc$`)
	got := prog.Scan(tx)
	want := []Match{
		{From: mustPos(0, 0), To: mustPos(0, 3)},
		{From: mustPos(1, 0), To: mustPos(1, 3)},
	}
	assertMatches(t, got, want)
}

func TestDotExcludesNewlineAcrossLines(t *testing.T) {
	tx := text.FromLines([][]byte{[]byte("ab"), []byte("cd")})
	// A literal '.' must not cross into the next line.
	prog := MustCompile(`b.c`)
	got := prog.Scan(tx)
	if len(got) != 0 {
		t.Fatalf("expected no match spanning lines, got %v", got)
	}
}

func TestShorthandClasses(t *testing.T) {
	tx := text.FromLines([][]byte{[]byte("foo_1 bar")})
	prog := MustCompile(`\k+`)
	got := prog.Scan(tx)
	want := []Match{
		{From: mustPos(0, 0), To: mustPos(0, 5)},
		{From: mustPos(0, 6), To: mustPos(0, 9)},
	}
	assertMatches(t, got, want)
}

func assertMatches(t *testing.T, got, want []Match) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d matches %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("match %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].To.Less(got[i].From) && got[i-1].To != got[i].From {
			t.Errorf("matches %d,%d overlap or unsorted: %+v %+v", i-1, i, got[i-1], got[i])
		}
	}
}
