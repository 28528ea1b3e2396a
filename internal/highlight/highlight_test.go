package highlight

import (
	"testing"

	"github.com/jackwreid/purec/internal/text"
)

func TestRehighlightResumesAcrossLines(t *testing.T) {
	tx := text.FromLines([][]byte{
		[]byte("/* start"),
		[]byte("still comment"),
		[]byte("end */ code"),
	})
	d := NewDriver()
	runs := d.Rehighlight(tx, "c", 0, tx.NumLines()-1)

	assertAllAttr(t, runs[0], HiComment)
	assertAllAttr(t, runs[1], HiComment)

	line2 := runs[2]
	if len(line2) == 0 {
		t.Fatalf("line 2 produced no runs")
	}
	// "end */" (6 bytes) is comment, the rest (" code") is not.
	var sawNonComment bool
	for _, r := range line2 {
		if r.End <= 6 {
			if r.Attr != HiComment {
				t.Errorf("run %+v before col 6 should be HiComment", r)
			}
		} else {
			sawNonComment = true
			if r.Attr == HiComment {
				t.Errorf("run %+v after col 6 should not be HiComment, got %v", r, r.Attr)
			}
		}
	}
	if !sawNonComment {
		t.Errorf("expected a non-comment run after col 6 on line 2")
	}
}

func TestIdentifierClassification(t *testing.T) {
	tx := text.FromLines([][]byte{[]byte("int main(void) { return 0; }")})
	d := NewDriver()
	runs := d.Rehighlight(tx, "c", 0, 0)[0]
	attrAt := func(col int) Attribute {
		for _, r := range runs {
			if col >= r.Col && col < r.End {
				return r.Attr
			}
		}
		t.Fatalf("no run covers col %d", col)
		return HiNormal
	}
	if attrAt(0) != HiType { // "int"
		t.Errorf("expected int to be HiType, got %v", attrAt(0))
	}
	if attrAt(17) != HiIdentifier { // "return"
		t.Errorf("expected return to be HiIdentifier, got %v", attrAt(17))
	}
	if attrAt(24) != HiNumber { // "0"
		t.Errorf("expected 0 to be HiNumber, got %v", attrAt(24))
	}
}

func TestNestedStringInsidePreprocessor(t *testing.T) {
	tx := text.FromLines([][]byte{[]byte(`#include "foo.h"`)})
	d := NewDriver()
	runs := d.Rehighlight(tx, "c", 0, 0)[0]
	var sawPreproc, sawString bool
	for _, r := range runs {
		if r.Attr == HiPreproc {
			sawPreproc = true
		}
		if r.Attr == HiString {
			sawString = true
		}
	}
	if !sawPreproc || !sawString {
		t.Errorf("expected both HiPreproc and HiString runs, got %+v", runs)
	}
}

func TestParenMatching(t *testing.T) {
	tx := text.FromLines([][]byte{[]byte("foo(bar(1))")})
	d := NewDriver()
	d.Rehighlight(tx, "c", 0, 0)
	open := text.Position{Line: 0, Col: 3}
	close_, ok := d.Parens.Match(open)
	if !ok || close_ != (text.Position{Line: 0, Col: 10}) {
		t.Errorf("outer paren: got %+v, %v", close_, ok)
	}
	inner := text.Position{Line: 0, Col: 7}
	innerClose, ok := d.Parens.Match(inner)
	if !ok || innerClose != (text.Position{Line: 0, Col: 9}) {
		t.Errorf("inner paren: got %+v, %v", innerClose, ok)
	}
}

func TestLineDirtyFlagPersists(t *testing.T) {
	tx := text.FromLines([][]byte{[]byte("a"), []byte("b"), []byte("c")})
	for i := 0; i < tx.NumLines(); i++ {
		tx.Line(i).Dirty = true
	}
	for i := 0; i < tx.NumLines(); i++ {
		if !tx.Line(i).Dirty {
			t.Errorf("line %d expected dirty", i)
		}
	}
}

func assertAllAttr(t *testing.T, runs []Run, attr Attribute) {
	t.Helper()
	if len(runs) == 0 {
		t.Fatalf("expected runs, got none")
	}
	for _, r := range runs {
		if r.Attr != attr {
			t.Errorf("run %+v: got %v, want %v", r, r.Attr, attr)
		}
	}
}
