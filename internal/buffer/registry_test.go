package buffer

import "testing"

func TestRegistryAssignsSmallestFreeID(t *testing.T) {
	r := NewRegistry()
	b1 := New()
	b2 := New()
	b3 := New()
	r.Add(b1)
	r.Add(b2)
	r.Add(b3)
	if b1.ID != 1 || b2.ID != 2 || b3.ID != 3 {
		t.Fatalf("got ids %d %d %d, want 1 2 3", b1.ID, b2.ID, b3.ID)
	}

	r.Remove(b2.ID)
	b4 := New()
	r.Add(b4)
	if b4.ID != 2 {
		t.Fatalf("got id %d, want gap-filled 2", b4.ID)
	}
	if r.Len() != 3 {
		t.Fatalf("got len %d, want 3", r.Len())
	}
}

func TestRegistryGetOrdering(t *testing.T) {
	r := NewRegistry()
	var ids []int
	for i := 0; i < 5; i++ {
		b := New()
		r.Add(b)
		ids = append(ids, b.ID)
	}
	r.Remove(ids[2])
	for _, b := range r.All() {
		if got := r.Get(b.ID); got != b {
			t.Fatalf("Get(%d) = %v, want %v", b.ID, got, b)
		}
	}
	if r.Get(999) != nil {
		t.Fatalf("Get(999) = non-nil, want nil")
	}
}
