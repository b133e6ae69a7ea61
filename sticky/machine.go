package sticky

import (
	"fmt"
	"time"
)

// Config is the validated configuration the machine is built from. It is
// immutable for the process lifetime; name resolution and file parsing
// happen before a Config is constructed.
type Config struct {
	Modifiers []KeyCode
	Timeout   time.Duration
	// ClearAllWithEscape makes a press of EscapeKey force every modifier
	// back to Unlatched before the escape event is forwarded.
	ClearAllWithEscape bool
	EscapeKey          KeyCode
}

// Machine computes, for each incoming key event, the sequence of events the
// virtual device should see, updating per-modifier sticky state as it goes.
// It is purely synchronous and must be driven from a single goroutine.
type Machine struct {
	reg     *Registry
	timeout time.Duration

	escapeClears bool
	escapeKey    KeyCode

	ledOn bool
}

// NewMachine validates cfg and builds a machine with all modifiers Unlatched.
func NewMachine(cfg Config) (*Machine, error) {
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %v", cfg.Timeout)
	}
	reg, err := NewRegistry(cfg.Modifiers)
	if err != nil {
		return nil, err
	}
	return &Machine{
		reg:          reg,
		timeout:      cfg.Timeout,
		escapeClears: cfg.ClearAllWithEscape,
		escapeKey:    cfg.EscapeKey,
	}, nil
}

// Registry exposes the modifier entries, mainly for inspection in tests and
// logs. Callers must not mutate entry state.
func (m *Machine) Registry() *Registry {
	return m.reg
}

// LEDOn reports whether the sticky indicator LED should currently be lit:
// true while any modifier is latched or locked. The value is recomputed
// from the full entry set after every transition.
func (m *Machine) LEDOn() bool {
	return m.ledOn
}

// OnEvent consumes one key event and returns the events to emit, in order.
// Registered modifier presses transition sticky state and are never
// forwarded themselves; their releases and repeats are suppressed outright.
// Everything else passes through, wrapped in the synthesized modifier
// events the current state calls for.
func (m *Machine) OnEvent(ev Event) []Event {
	if e := m.reg.Entry(ev.Key); e != nil {
		if ev.Action != Pressed {
			return nil
		}
		out := m.strike(e, ev.Time)
		m.ledOn = m.reg.AnyActive()
		return out
	}

	if m.escapeClears && ev.Key == m.escapeKey && ev.Action == Pressed {
		out := m.clearAll(ev.Time)
		m.ledOn = m.reg.AnyActive()
		return append(out, ev)
	}

	if ev.Action != Pressed {
		return []Event{ev}
	}

	var out []Event
	for _, e := range m.reg.Entries() {
		if e.State.Active() {
			out = append(out, Event{Key: e.Key, Action: Pressed, Time: ev.Time})
		}
	}
	out = append(out, ev)
	for _, e := range m.reg.Entries() {
		if e.State == Latched {
			// The latch is single-shot: consumed by this keystroke.
			e.State = Unlatched
			out = append(out, Event{Key: e.Key, Action: Released, Time: ev.Time})
		}
	}
	m.ledOn = m.reg.AnyActive()
	return out
}

// strike advances one modifier's state for a press at time now.
func (m *Machine) strike(e *Entry, now time.Time) []Event {
	var out []Event
	switch e.State {
	case Unlatched:
		e.State = Latched
	case Latched:
		// Strict bound: a second tap exactly at the timeout unlatches.
		if now.Sub(e.LastStrike) < m.timeout {
			e.State = Locked
		} else {
			e.State = Unlatched
		}
	case Locked:
		e.State = Unlatched
		// The virtual device may be holding this modifier down from the
		// last keystroke it was applied to; lift it.
		out = append(out, Event{Key: e.Key, Action: Released, Time: now})
	}
	e.LastStrike = now
	return out
}

// clearAll forces every modifier to Unlatched, emitting a release for each
// one that was latched or locked.
func (m *Machine) clearAll(now time.Time) []Event {
	var out []Event
	for _, e := range m.reg.Entries() {
		if e.State.Active() {
			out = append(out, Event{Key: e.Key, Action: Released, Time: now})
		}
		e.State = Unlatched
	}
	return out
}
