package status

import "sync"

// View is the read-only side handed to the presentation layer.
type View interface {
	Current() Snapshot
	// Watch registers fn for every future change and returns a func that
	// removes it. fn runs on the publisher's goroutine and must not block.
	Watch(fn func(Snapshot)) (cancel func())
}

// Reporter holds the latest Snapshot and pushes changes to watchers
// synchronously, so no transition is skipped.
type Reporter struct {
	mu       sync.RWMutex
	current  Snapshot
	watchers map[int]func(Snapshot)
	nextID   int
}

// NewReporter returns a Reporter holding the zero Snapshot (Disconnected).
func NewReporter() *Reporter {
	return &Reporter{watchers: make(map[int]func(Snapshot))}
}

// Current returns the latest Snapshot.
func (r *Reporter) Current() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Watch implements View.
func (r *Reporter) Watch(fn func(Snapshot)) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.watchers[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.watchers, id)
			r.mu.Unlock()
		})
	}
}

// Publish stores snap and notifies watchers. It reports false, and notifies
// nobody, when snap equals the current value. Publish must be called from a
// single goroutine.
func (r *Reporter) Publish(snap Snapshot) bool {
	r.mu.Lock()
	if snap == r.current {
		r.mu.Unlock()
		return false
	}
	r.current = snap
	fns := make([]func(Snapshot), 0, len(r.watchers))
	for _, fn := range r.watchers {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
	return true
}

var _ View = (*Reporter)(nil)
