package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// EventLogger handles raw input-event tracing with optional file output.
// It is the debugging channel for "what did the kernel give us and what did
// we write back", one line per event.
type EventLogger interface {
	Event(in bool, evType, code uint16, value int32)
}

// eventLogger implements EventLogger with thread-safe output.
type eventLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewEventLogger creates a new EventLogger. If w is nil, returns a no-op
// logger so call sites never need to guard tracing.
func NewEventLogger(w io.Writer) EventLogger {
	return &eventLogger{w: w}
}

// Event emits a single-line trace of one event. in=true means the event was
// read from the physical device, in=false means it was written to the
// virtual device.
func (l *eventLogger) Event(in bool, evType, code uint16, value int32) {
	if l.w == nil {
		return
	}

	dir := "OUT"
	if in {
		dir = "IN "
	}

	line := fmt.Sprintf("%s %s type=0x%02x code=%d value=%d\n",
		time.Now().Format("2006/01/02 15:04:05.000"),
		dir, evType, code, value)

	l.mu.Lock()
	_, _ = l.w.Write([]byte(line))
	l.mu.Unlock()
}
