package buffer

import "sort"

// Registry is the process-wide, id-sorted collection of open buffers. New
// buffers take the smallest free id >= 1 (dense gap-fill), matching §3's
// buffer registry contract.
type Registry struct {
	buffers []*Buffer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// nextID returns the smallest positive id not currently in use.
func (r *Registry) nextID() int {
	id := 1
	for _, b := range r.buffers {
		if b.ID == id {
			id++
		}
	}
	return id
}

// Add assigns b the smallest free id and inserts it in id order.
func (r *Registry) Add(b *Buffer) {
	b.ID = r.nextID()
	i := sort.Search(len(r.buffers), func(i int) bool { return r.buffers[i].ID > b.ID })
	r.buffers = append(r.buffers, nil)
	copy(r.buffers[i+1:], r.buffers[i:])
	r.buffers[i] = b
}

// Open looks up an already-registered buffer by path, returning it (and
// true) if one exists; CreateOrGet uses this to avoid opening the same file
// twice.
func (r *Registry) Open(path string) (*Buffer, bool) {
	if path == "" {
		return nil, false
	}
	for _, b := range r.buffers {
		if b.Path == path {
			return b, true
		}
	}
	return nil, false
}

// CreateOrGet returns an already-open buffer for path if present;
// otherwise it creates, registers and returns a new one.
func (r *Registry) CreateOrGet(path string) (*Buffer, error) {
	if b, ok := r.Open(path); ok {
		return b, nil
	}
	b, err := Create(path)
	if err != nil {
		return nil, err
	}
	r.Add(b)
	return b, nil
}

// Get returns the buffer with the given id, or nil.
func (r *Registry) Get(id int) *Buffer {
	i := sort.Search(len(r.buffers), func(i int) bool { return r.buffers[i].ID >= id })
	if i < len(r.buffers) && r.buffers[i].ID == id {
		return r.buffers[i]
	}
	return nil
}

// Remove destroys the buffer with the given id, freeing its slot (and id)
// for reuse, and releasing its segment store.
func (r *Registry) Remove(id int) bool {
	for i, b := range r.buffers {
		if b.ID == id {
			b.Undo.Store.Close()
			r.buffers = append(r.buffers[:i], r.buffers[i+1:]...)
			return true
		}
	}
	return false
}

// All returns every registered buffer, ascending by id.
func (r *Registry) All() []*Buffer {
	return r.buffers
}

// Len reports the number of open buffers.
func (r *Registry) Len() int { return len(r.buffers) }
