package picker

import "testing"

func TestPickerShowHide(t *testing.T) {
	p := &Picker{}
	p.Show([]string{"a", "b", "c"}, 2)
	if !p.Active {
		t.Error("picker should be active after Show")
	}
	if p.Selected != 2 {
		t.Errorf("Selected = %d, want 2", p.Selected)
	}
	p.Hide()
	if p.Active {
		t.Error("picker should be inactive after Hide")
	}
}

func TestPickerMoveUp(t *testing.T) {
	p := &Picker{Active: true, Selected: 2, Items: []string{"a", "b", "c"}}
	p.MoveUp()
	if p.Selected != 1 {
		t.Errorf("Selected = %d, want 1", p.Selected)
	}
	p.MoveUp()
	p.MoveUp()
	if p.Selected != 0 {
		t.Errorf("Selected = %d, want 0 (clamped)", p.Selected)
	}
}

func TestPickerMoveDown(t *testing.T) {
	p := &Picker{Active: true, Selected: 0, Items: []string{"a", "b", "c"}}
	p.MoveDown()
	if p.Selected != 1 {
		t.Errorf("Selected = %d, want 1", p.Selected)
	}
	p.MoveDown()
	p.MoveDown()
	if p.Selected != 2 {
		t.Errorf("Selected = %d, want 2 (clamped)", p.Selected)
	}
}

func TestFilterEmptyQueryReturnsAll(t *testing.T) {
	got := Filter([]string{"main.go", "buffer.go"}, "")
	if len(got) != 2 {
		t.Fatalf("Filter(\"\") = %v, want all candidates", got)
	}
}

func TestFilterPrefixBeatsSubstring(t *testing.T) {
	got := Filter([]string{"xbuffer.go", "buffer.go"}, "buffer")
	if len(got) != 2 || got[0] != "buffer.go" {
		t.Errorf("Filter = %v, want buffer.go first (prefix match)", got)
	}
}

func TestFilterExcludesNonMatches(t *testing.T) {
	got := Filter([]string{"main.go", "buffer.go", "undo.go"}, "zzz")
	if len(got) != 0 {
		t.Errorf("Filter(zzz) = %v, want no matches", got)
	}
}
