package sticky

import (
	"fmt"
	"time"
)

// Entry is the sticky bookkeeping for one registered modifier. Entries are
// created once at registry construction and mutated only by the Machine.
type Entry struct {
	Key        KeyCode
	State      State
	LastStrike time.Time // zero until the first press
}

// Registry is the fixed set of modifier entries. Iteration order is the
// configuration order, which makes synthesized event order deterministic.
type Registry struct {
	entries map[KeyCode]*Entry
	order   []KeyCode
}

// NewRegistry builds a registry with one Unlatched entry per key.
func NewRegistry(keys []KeyCode) (*Registry, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("no modifier keys configured")
	}
	r := &Registry{entries: make(map[KeyCode]*Entry, len(keys))}
	for _, k := range keys {
		if _, dup := r.entries[k]; dup {
			return nil, fmt.Errorf("modifier key %d configured twice", k)
		}
		r.entries[k] = &Entry{Key: k, State: Unlatched}
		r.order = append(r.order, k)
	}
	return r, nil
}

// IsModifier reports whether key is registered as a sticky modifier.
func (r *Registry) IsModifier(key KeyCode) bool {
	_, ok := r.entries[key]
	return ok
}

// Entry returns the entry for a registered key, or nil for unknown keys.
func (r *Registry) Entry(key KeyCode) *Entry {
	return r.entries[key]
}

// Entries returns all entries in configuration order.
func (r *Registry) Entries() []*Entry {
	out := make([]*Entry, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.entries[k])
	}
	return out
}

// AnyActive reports whether at least one modifier is latched or locked.
func (r *Registry) AnyActive() bool {
	for _, e := range r.entries {
		if e.State.Active() {
			return true
		}
	}
	return false
}
