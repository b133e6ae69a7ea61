package cmd

import (
	"fmt"
	"log/slog"
	"os"

	evdev "github.com/holoplot/go-evdev"
	"golang.org/x/term"

	"github.com/stickyd/stickyd/internal/device"
)

// Devices lists input devices so a user can fill in the device config key.
type Devices struct {
	All bool `help:"List all input devices, not only keyboard-class ones"`
}

// Run is called by Kong when the devices command is executed.
func (d *Devices) Run(logger *slog.Logger) error {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return fmt.Errorf("list input devices: %w", err)
	}

	// Aligned human-readable output on a terminal, plain paths when piped.
	tty := term.IsTerminal(int(os.Stdout.Fd()))

	found := false
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			logger.Debug("skipping input device", "path", p.Path, "error", err)
			continue
		}
		keyboard := device.IsKeyboard(dev)
		_ = dev.Close()

		if !keyboard && !d.All {
			continue
		}
		found = true
		if tty {
			marker := " "
			if keyboard {
				marker = "*"
			}
			fmt.Printf("%s %-22s %s\n", marker, p.Path, p.Name)
		} else {
			fmt.Println(p.Path)
		}
	}

	if !found {
		logger.Warn("no devices listed; stickyd needs read access to /dev/input (root or the input group)")
		return nil
	}
	if tty {
		fmt.Println()
		fmt.Println("* keyboard-class device (autodetect candidate)")
	}
	return nil
}
