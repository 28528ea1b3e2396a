package clipboard

import "testing"

func TestBoardSetGetWithoutOSBackend(t *testing.T) {
	b := &Board{}
	b.Set("hello")
	if got := b.Get(); got != "hello" {
		t.Errorf("Get() = %q, want %q", got, "hello")
	}
}

func TestBoardOverwrite(t *testing.T) {
	b := &Board{}
	b.Set("first")
	b.Set("second")
	if got := b.Get(); got != "second" {
		t.Errorf("Get() = %q, want %q", got, "second")
	}
}
