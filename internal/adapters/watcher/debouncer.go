package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceWindow is how long the debouncer waits for the tree to
// settle before emitting a batch.
const DefaultDebounceWindow = 300 * time.Millisecond

// Debouncer coalesces bursts of path events into a single batch. Saving a
// file from an editor typically fires several events in quick succession;
// one re-run is enough.
type Debouncer struct {
	window time.Duration
	emit   func(paths []string)

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

// NewDebouncer returns a Debouncer that calls emit with the accumulated
// paths once no event has arrived for the given window. A zero window
// selects the default.
func NewDebouncer(window time.Duration, emit func(paths []string)) *Debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer{
		window:  window,
		emit:    emit,
		pending: make(map[string]struct{}),
	}
}

// Add records a changed path and (re)starts the settle timer.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

// Stop cancels any pending flush without emitting.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = make(map[string]struct{})
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	if len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}

	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	d.pending = make(map[string]struct{})
	d.mu.Unlock()

	d.emit(paths)
}
