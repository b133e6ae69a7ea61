// Package testing provides shared mocks for exercising the pipeline without
// real input devices.
package testing

import (
	"io"

	evdev "github.com/holoplot/go-evdev"

	"github.com/stickyd/stickyd/sticky"
)

// MockSource replays a fixed slice of events, then fails with Err (io.EOF
// when unset), mimicking a device that goes away.
type MockSource struct {
	Events []*evdev.InputEvent
	Err    error

	next int
}

func (m *MockSource) Next() (*evdev.InputEvent, error) {
	if m.next >= len(m.Events) {
		if m.Err != nil {
			return nil, m.Err
		}
		return nil, io.EOF
	}
	ev := m.Events[m.next]
	m.next++
	return ev, nil
}

// MockSink records everything the pipeline asks it to do, in order.
type MockSink struct {
	Emitted   []sticky.Event
	Forwarded []*evdev.InputEvent
	LEDValues []bool

	EmitErr    error
	ForwardErr error
	LEDErr     error
}

func (m *MockSink) EmitKey(ev sticky.Event) error {
	if m.EmitErr != nil {
		return m.EmitErr
	}
	m.Emitted = append(m.Emitted, ev)
	return nil
}

func (m *MockSink) Forward(ev *evdev.InputEvent) error {
	if m.ForwardErr != nil {
		return m.ForwardErr
	}
	m.Forwarded = append(m.Forwarded, ev)
	return nil
}

func (m *MockSink) SetLED(on bool) error {
	if m.LEDErr != nil {
		return m.LEDErr
	}
	m.LEDValues = append(m.LEDValues, on)
	return nil
}

// LastLED returns the most recent LED value, or false if none was set.
func (m *MockSink) LastLED() bool {
	if len(m.LEDValues) == 0 {
		return false
	}
	return m.LEDValues[len(m.LEDValues)-1]
}
