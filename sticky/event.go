// Package sticky implements the per-modifier latch/lock state machine that
// gives a keyboard its sticky-keys behavior. The package is device-agnostic:
// it consumes and produces plain key events and leaves reading/writing real
// devices to the adapters that drive it.
package sticky

import "time"

// KeyCode identifies a physical key. Values are evdev key codes, but the
// package treats them as opaque equality-comparable identifiers.
type KeyCode uint16

// Action is the value carried by a key event. The constants match the evdev
// EV_KEY event values so adapters can convert without translation tables.
type Action int32

const (
	Released Action = 0
	Pressed  Action = 1
	Repeated Action = 2
)

func (a Action) String() string {
	switch a {
	case Released:
		return "released"
	case Pressed:
		return "pressed"
	case Repeated:
		return "repeated"
	default:
		return "unknown"
	}
}

// Event is a single key event, raw or synthesized. Time carries the
// timestamp assigned by the originating device; synthesized events reuse the
// timestamp of the event that caused them.
type Event struct {
	Key    KeyCode
	Action Action
	Time   time.Time
}

// State is the sticky state of one registered modifier.
type State uint8

const (
	// Unlatched is the inert default: the modifier behaves as if stickyd
	// were not running, except that its physical press/release is consumed.
	Unlatched State = iota
	// Latched applies the modifier to exactly the next non-modifier
	// keystroke, then reverts to Unlatched.
	Latched
	// Locked applies the modifier to every keystroke until it is struck
	// again or cleared.
	Locked
)

func (s State) String() string {
	switch s {
	case Unlatched:
		return "unlatched"
	case Latched:
		return "latched"
	case Locked:
		return "locked"
	default:
		return "invalid"
	}
}

// Active reports whether the state contributes the modifier to keystrokes.
func (s State) Active() bool {
	return s == Latched || s == Locked
}
