// Package pipeline contains the control loop that couples the physical
// device to the sticky state machine and the virtual device. It is the only
// place mutable sticky state is touched, from a single goroutine, so the
// whole system needs no locking.
package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	evdev "github.com/holoplot/go-evdev"

	"github.com/stickyd/stickyd/internal/log"
	"github.com/stickyd/stickyd/sticky"
)

// Source yields raw events from the physical device in arrival order,
// blocking until one is available.
type Source interface {
	Next() (*evdev.InputEvent, error)
}

// Sink delivers events to the virtual device in exact call order and drives
// the indicator LED.
type Sink interface {
	EmitKey(sticky.Event) error
	Forward(ev *evdev.InputEvent) error
	SetLED(on bool) error
}

// Pipeline is the driver loop. One blocking read per iteration; everything
// downstream of the read is synchronous.
type Pipeline struct {
	src     Source
	sink    Sink
	machine *sticky.Machine
	logger  *slog.Logger
	trace   log.EventLogger
}

// New assembles a pipeline. All collaborators are required.
func New(src Source, sink Sink, machine *sticky.Machine, logger *slog.Logger, trace log.EventLogger) *Pipeline {
	return &Pipeline{src: src, sink: sink, machine: machine, logger: logger, trace: trace}
}

// Run processes events until a device error occurs and returns that error.
// There is no recoverable runtime failure here: a severed device invalidates
// all accumulated sticky state, so the caller terminates and leaves the
// restart to process supervision. Closing the source unblocks the read and
// ends the loop.
func (p *Pipeline) Run() error {
	p.logger.Debug("event loop started")
	for {
		ev, err := p.src.Next()
		if err != nil {
			return fmt.Errorf("read from physical device: %w", err)
		}
		p.trace.Event(true, uint16(ev.Type), uint16(ev.Code), ev.Value)

		switch ev.Type {
		case evdev.EV_KEY:
			in := sticky.Event{
				Key:    sticky.KeyCode(ev.Code),
				Action: sticky.Action(ev.Value),
				Time:   eventTime(ev),
			}
			for _, out := range p.machine.OnEvent(in) {
				if err := p.sink.EmitKey(out); err != nil {
					return err
				}
				p.trace.Event(false, uint16(evdev.EV_KEY), uint16(out.Key), int32(out.Action))
			}
		case evdev.EV_SYN, evdev.EV_MSC:
			// The sink flushes a SYN_REPORT after every key it writes, and
			// scan codes do not survive re-synthesis; both are dropped.
		default:
			if err := p.sink.Forward(ev); err != nil {
				return err
			}
			p.trace.Event(false, uint16(ev.Type), uint16(ev.Code), ev.Value)
		}

		if err := p.sink.SetLED(p.machine.LEDOn()); err != nil {
			return err
		}
	}
}

// eventTime converts the kernel timestamp of an event. Sticky timeouts are
// computed purely from consecutive device timestamps, never from wall-clock
// timers, so idle periods cost nothing and scheduling jitter cannot drift
// the tap window.
func eventTime(ev *evdev.InputEvent) time.Time {
	return time.Unix(int64(ev.Time.Sec), int64(ev.Time.Usec)*1000)
}
