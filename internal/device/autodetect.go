package device

import (
	"errors"
	"fmt"
	"log/slog"

	evdev "github.com/holoplot/go-evdev"
	"golang.org/x/sys/unix"
)

// AutodetectName is the device config value that triggers autodetection.
const AutodetectName = "autodetect"

// Autodetect scans /dev/input and returns the path of the first device
// exposing keyboard-class capabilities. Devices that cannot be opened are
// skipped; a permission failure is logged with a hint since it is the
// common reason detection comes up empty for non-root users.
func Autodetect(logger *slog.Logger) (string, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return "", fmt.Errorf("list input devices: %w", err)
	}

	sawPermissionError := false
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			if errors.Is(err, unix.EACCES) {
				sawPermissionError = true
			}
			logger.Debug("skipping input device", "path", p.Path, "error", err)
			continue
		}
		ok := IsKeyboard(dev)
		_ = dev.Close()
		if ok {
			logger.Debug("autodetected keyboard", "path", p.Path, "name", p.Name)
			return p.Path, nil
		}
	}

	if sawPermissionError {
		logger.Error("some devices were unreadable; stickyd needs read access to /dev/input (root or the input group)")
	}
	return "", errors.New("no keyboard-class input device found")
}

// IsKeyboard reports whether the device looks like a real keyboard: it must
// claim both KEY_A and KEY_ENTER, which filters out mice, power buttons and
// other EV_KEY-capable non-keyboards.
func IsKeyboard(dev *evdev.InputDevice) bool {
	hasA, hasEnter := false, false
	for _, c := range dev.CapableEvents(evdev.EV_KEY) {
		switch c {
		case evdev.KEY_A:
			hasA = true
		case evdev.KEY_ENTER:
			hasEnter = true
		}
	}
	return hasA && hasEnter
}
