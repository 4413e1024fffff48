// Package registry keeps the deduplicated, insertion-ordered list of
// peripherals discovered during a scan session.
package registry

import (
	"iter"
	"strings"
	"sync"
)

// Record is one discovered peripheral. Records are immutable once offered.
type Record struct {
	ID   string // device address, unique within a scan session
	Name string
	RSSI int
	Seq  int // discovery order, starting at 0 after each Reset
}

// Registry is safe for concurrent use. Offer may be called from provider
// goroutines while the presentation layer ranges over List.
type Registry struct {
	mu      sync.RWMutex
	records []Record
	index   map[string]int
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Reset clears all records.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
	r.index = make(map[string]int)
}

// Offer inserts rec if its ID is new and its trimmed name is non-empty.
// It reports whether the record was inserted. Seq is assigned here.
func (r *Registry) Offer(rec Record) bool {
	rec.Name = strings.TrimSpace(rec.Name)
	if rec.ID == "" || rec.Name == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.index[rec.ID]; ok {
		return false
	}
	rec.Seq = len(r.records)
	r.index[rec.ID] = rec.Seq
	r.records = append(r.records, rec)
	return true
}

// Lookup returns the record with the given ID.
func (r *Registry) Lookup(id string) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return Record{}, false
	}
	return r.records[i], true
}

// Len returns the number of records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// List returns the records in insertion order. Each range over the returned
// sequence sees a consistent snapshot taken when iteration starts, so the
// sequence can be restarted and never observes a half-applied Offer.
func (r *Registry) List() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, rec := range r.snapshot() {
			if !yield(rec) {
				return
			}
		}
	}
}

func (r *Registry) snapshot() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	// Records are append-only between resets, so the prefix is stable.
	return r.records[:len(r.records):len(r.records)]
}
