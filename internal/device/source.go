package device

import (
	"fmt"
	"time"

	evdev "github.com/holoplot/go-evdev"
)

// Source is the grabbed physical keyboard. It yields events one at a time
// in exact arrival order; nothing is coalesced or dropped, since a missing
// press or release would desynchronize sticky state from the real keyboard.
type Source struct {
	dev *evdev.InputDevice
}

// OpenSource opens the device at path and grabs it exclusively, so the
// unmodified stream no longer reaches other consumers. grabDelay is waited
// out before grabbing, giving the keystroke that launched the process time
// to deliver its release to whoever is still listening.
func OpenSource(path string, grabDelay time.Duration) (*Source, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input device %s: %w", path, err)
	}
	if grabDelay > 0 {
		time.Sleep(grabDelay)
	}
	if err := dev.Grab(); err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("grab input device %s: %w", path, err)
	}
	return &Source{dev: dev}, nil
}

// Next blocks until the next event arrives and returns it.
func (s *Source) Next() (*evdev.InputEvent, error) {
	return s.dev.ReadOne()
}

// Device exposes the underlying handle so the sink can replicate its
// capabilities and drive its hardware LED.
func (s *Source) Device() *evdev.InputDevice {
	return s.dev
}

// Name returns the device's self-reported name, or its path if unreadable.
func (s *Source) Name() string {
	name, err := s.dev.Name()
	if err != nil {
		return s.dev.Path()
	}
	return name
}

// Path returns the device node path.
func (s *Source) Path() string {
	return s.dev.Path()
}

// Close ungrabs and closes the device. Closing unblocks a pending Next,
// which is how the run command stops the pipeline on shutdown.
func (s *Source) Close() error {
	_ = s.dev.Ungrab()
	return s.dev.Close()
}
