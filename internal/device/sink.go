package device

import (
	"fmt"

	evdev "github.com/holoplot/go-evdev"

	"github.com/stickyd/stickyd/sticky"
)

// Sink owns the virtual uinput keyboard that downstream software observes,
// plus the hardware LED on the grabbed physical device, repurposed as the
// sticky-state indicator.
type Sink struct {
	out  *evdev.InputDevice
	phys *evdev.InputDevice

	ledKnown bool
	ledOn    bool
}

// NewSink creates a virtual device named name, replicating the physical
// device's key capabilities plus the Caps Lock LED. Failure to create the
// device is a fatal startup error.
func NewSink(name string, phys *evdev.InputDevice) (*Sink, error) {
	caps := map[evdev.EvType][]evdev.EvCode{}
	for _, t := range phys.CapableTypes() {
		switch t {
		case evdev.EV_KEY, evdev.EV_REP, evdev.EV_LED:
			caps[t] = phys.CapableEvents(t)
		}
	}
	if !containsCode(caps[evdev.EV_LED], evdev.LED_CAPSL) {
		caps[evdev.EV_LED] = append(caps[evdev.EV_LED], evdev.LED_CAPSL)
	}

	// BusType 0x06 is BUS_VIRTUAL.
	out, err := evdev.CreateDevice(name, evdev.InputID{BusType: 0x06, Vendor: 1, Product: 1, Version: 1}, caps)
	if err != nil {
		return nil, fmt.Errorf("create virtual device %q: %w", name, err)
	}
	return &Sink{out: out, phys: phys}, nil
}

// EmitKey writes one key event to the virtual device, followed by a
// SYN_REPORT flush so the event is delivered immediately and in call order.
func (s *Sink) EmitKey(ev sticky.Event) error {
	key := &evdev.InputEvent{
		Type:  evdev.EV_KEY,
		Code:  evdev.EvCode(ev.Key),
		Value: int32(ev.Action),
	}
	if err := s.out.WriteOne(key); err != nil {
		return fmt.Errorf("write key event to virtual device: %w", err)
	}
	syn := &evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT}
	if err := s.out.WriteOne(syn); err != nil {
		return fmt.Errorf("write syn report to virtual device: %w", err)
	}
	return nil
}

// Forward writes a non-key event to the virtual device verbatim.
func (s *Sink) Forward(ev *evdev.InputEvent) error {
	if err := s.out.WriteOne(ev); err != nil {
		return fmt.Errorf("forward event to virtual device: %w", err)
	}
	return nil
}

// SetLED drives the physical keyboard's Caps Lock LED. The call is an
// idempotent projection of total sticky state: repeat values are
// deduplicated, so a missed update can never leave the LED drifting.
func (s *Sink) SetLED(on bool) error {
	if s.ledKnown && s.ledOn == on {
		return nil
	}
	var value int32
	if on {
		value = 1
	}
	led := &evdev.InputEvent{Type: evdev.EV_LED, Code: evdev.LED_CAPSL, Value: value}
	if err := s.phys.WriteOne(led); err != nil {
		return fmt.Errorf("set indicator LED: %w", err)
	}
	s.ledKnown = true
	s.ledOn = on
	return nil
}

// Path returns the virtual device node path.
func (s *Sink) Path() string {
	return s.out.Path()
}

// Close destroys the virtual device. The physical handle stays with the
// Source, which owns its lifecycle.
func (s *Sink) Close() error {
	return s.out.Close()
}

func containsCode(codes []evdev.EvCode, want evdev.EvCode) bool {
	for _, c := range codes {
		if c == want {
			return true
		}
	}
	return false
}
