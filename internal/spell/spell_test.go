package spell

import (
	"testing"

	"github.com/jackwreid/purec/internal/text"
)

func TestCheckWordKnown(t *testing.T) {
	c := New()
	if !c.CheckWord("buffer") {
		t.Error("expected 'buffer' to be spelled correctly")
	}
}

func TestCheckWordUnknown(t *testing.T) {
	c := New()
	if c.CheckWord("zzxqqplorf") {
		t.Error("expected 'zzxqqplorf' to be flagged as misspelled")
	}
}

func TestCheckWordEmpty(t *testing.T) {
	c := New()
	if !c.CheckWord("") {
		t.Error("empty word should be treated as correctly spelled")
	}
}

func TestExtractWordsSkipsPunctuation(t *testing.T) {
	words := extractWords([]byte("the buffer, the line."))
	if len(words) != 4 {
		t.Fatalf("extractWords = %v, want 4 words", words)
	}
	if words[0].word != "the" || words[1].word != "buffer" {
		t.Errorf("unexpected words: %+v", words)
	}
}

func TestCheckLineSkipsShortWordsAndAcronyms(t *testing.T) {
	c := New()
	errs := c.CheckLine(0, []byte("an HTTP GET to an API"))
	for _, e := range errs {
		if e.Word == "HTTP" || e.Word == "API" || e.Word == "GET" || e.Word == "an" || e.Word == "to" {
			t.Errorf("should not flag short/acronym word %q", e.Word)
		}
	}
}

func TestCheckTextOverMultipleLines(t *testing.T) {
	c := New()
	tx := text.FromLines([][]byte{[]byte("the buffer"), []byte("zzxqqplorf word")})
	errs := c.CheckText(tx)
	found := false
	for _, e := range errs {
		if e.Word == "zzxqqplorf" && e.Line == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected misspelling on line 1, got %+v", errs)
	}
}
