package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/stickyd/stickyd/internal/device"
	"github.com/stickyd/stickyd/internal/log"
	"github.com/stickyd/stickyd/internal/pipeline"
	"github.com/stickyd/stickyd/sticky"
)

// Run is the daemon command: grab a keyboard, create the virtual device and
// pump events through the sticky machine until a signal or device error.
type Run struct {
	Device             string        `help:"Input device path, or 'autodetect'" default:"autodetect" env:"STICKYD_DEVICE"`
	Modifiers          string        `help:"Comma-separated key names treated as sticky modifiers" default:"leftshift,rightshift,leftctrl,rightctrl,leftalt,rightalt" env:"STICKYD_MODIFIERS"`
	Timeout            time.Duration `help:"Double-tap window for locking a modifier" default:"500ms" env:"STICKYD_TIMEOUT"`
	ClearAllWithEscape bool          `help:"Escape clears all latched/locked modifiers" default:"true" negatable:"" env:"STICKYD_CLEAR_ALL_WITH_ESCAPE"`
	DeviceName         string        `help:"Name of the virtual device" default:"stickyd virtual keyboard" env:"STICKYD_DEVICE_NAME"`
	GrabDelay          time.Duration `help:"Wait before grabbing the device, letting the launching keystroke finish" default:"200ms" env:"STICKYD_GRAB_DELAY"`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, trace log.EventLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.StartDaemon(ctx, logger, trace)
}

func (r *Run) StartDaemon(ctx context.Context, logger *slog.Logger, trace log.EventLogger) error {
	mods, err := device.ParseModifiers(r.Modifiers)
	if err != nil {
		return err
	}
	machine, err := sticky.NewMachine(sticky.Config{
		Modifiers:          mods,
		Timeout:            r.Timeout,
		ClearAllWithEscape: r.ClearAllWithEscape,
		EscapeKey:          device.EscapeKey,
	})
	if err != nil {
		return err
	}

	path := r.Device
	if path == "" || path == device.AutodetectName {
		path, err = device.Autodetect(logger)
		if err != nil {
			return err
		}
	}

	src, err := device.OpenSource(path, r.GrabDelay)
	if err != nil {
		return err
	}

	sink, err := device.NewSink(r.DeviceName, src.Device())
	if err != nil {
		_ = src.Close()
		return err
	}

	names := make([]string, 0, len(mods))
	for _, m := range mods {
		names = append(names, device.KeyName(m))
	}
	logger.Info("grabbed physical keyboard", "path", src.Path(), "name", src.Name())
	logger.Info("created virtual keyboard", "path", sink.Path(), "name", r.DeviceName)
	logger.Info("sticky configuration",
		"modifiers", strings.Join(names, ","),
		"timeout", r.Timeout,
		"clear_all_with_escape", r.ClearAllWithEscape)

	p := pipeline.New(src, sink, machine, logger, trace)

	errCh := make(chan error, 1)
	go func() {
		errCh <- p.Run()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		// Closing the source unblocks the pipeline's pending read.
		_ = src.Close()
		<-errCh
		_ = sink.Close()
		return nil
	case err := <-errCh:
		_ = src.Close()
		_ = sink.Close()
		return err
	}
}
