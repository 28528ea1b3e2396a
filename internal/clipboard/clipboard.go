// Package clipboard implements §5's second thread: an OS clipboard
// selection-owner responder running independently of the UI goroutine, so
// paste requests from other applications don't block key input. A mutex
// guards the serialized text shared between the UI goroutine (producer,
// via Set) and the clipboard goroutine (responder, via the Watch loop).
//
// Grounded in willibrandon-steep's vimtea clipboard-backed yank/put
// (internal/ui/components/vimtea/model.go's clipboard.Init/Watch and
// commands.go's clipboard.Write/Read), adapted from a single bubbletea
// model field into PureC's explicit producer/responder split.
package clipboard

import (
	"context"
	"sync"

	"golang.design/x/clipboard"
)

// Board owns the mutex-guarded text shared between the UI thread and the
// background responder goroutine.
type Board struct {
	mu        sync.Mutex
	text      string
	available bool
	cancel    context.CancelFunc
}

// Open initializes the OS clipboard backend and starts the responder
// goroutine that watches for external clipboard changes, mirroring the
// teacher's clipboard.Init + clipboard.Watch goroutine. If the backend is
// unavailable (headless environment, no X11/Wayland selection), Board
// still works as an in-process register — Set/Get just never reach the
// OS clipboard.
func Open() *Board {
	b := &Board{}
	if err := clipboard.Init(); err != nil {
		return b
	}
	b.available = true
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	go b.watch(ctx)
	return b
}

// watch is the responder goroutine: it observes external clipboard writes
// and mirrors them into Board's guarded text, so a subsequent paste ('p')
// sees content copied from another application.
func (b *Board) watch(ctx context.Context) {
	ch := clipboard.Watch(ctx, clipboard.FmtText)
	for data := range ch {
		b.mu.Lock()
		b.text = string(data)
		b.mu.Unlock()
	}
}

// Set is the UI-thread producer call: it stores text for the responder to
// serve and, if the OS backend is available, publishes it as the system
// selection.
func (b *Board) Set(text string) {
	b.mu.Lock()
	b.text = text
	b.mu.Unlock()
	if b.available {
		clipboard.Write(clipboard.FmtText, []byte(text))
	}
}

// Get returns the currently held text under the guarding mutex.
func (b *Board) Get() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// Close stops the responder goroutine.
func (b *Board) Close() {
	if b.cancel != nil {
		b.cancel()
	}
}
