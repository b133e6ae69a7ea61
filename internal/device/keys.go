// Package device adapts Linux evdev devices to the sticky core: it opens and
// grabs the physical keyboard, creates the virtual uinput keyboard the rest
// of the system observes, and resolves configured key names against the
// evdev key vocabulary.
package device

import (
	"fmt"
	"strings"

	evdev "github.com/holoplot/go-evdev"

	"github.com/stickyd/stickyd/sticky"
)

// EscapeKey is the key that clears all sticky state when enabled.
const EscapeKey = sticky.KeyCode(evdev.KEY_ESC)

// KeyFromName resolves a configured key name to its evdev code. Names are
// matched case-insensitively, with or without the KEY_ prefix, so
// "leftshift", "LeftShift" and "KEY_LEFTSHIFT" are all accepted. Unknown
// names are a fatal configuration error for the caller.
func KeyFromName(name string) (sticky.KeyCode, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "" {
		return 0, fmt.Errorf("empty key name")
	}
	if !strings.HasPrefix(n, "KEY_") {
		n = "KEY_" + n
	}
	code, ok := evdev.KEYFromString[n]
	if !ok {
		return 0, fmt.Errorf("unknown key name %q", name)
	}
	return sticky.KeyCode(code), nil
}

// KeyName returns the evdev name for a key code, or a numeric fallback for
// codes outside the vocabulary.
func KeyName(key sticky.KeyCode) string {
	if name, ok := evdev.KEYToString[evdev.EvCode(key)]; ok {
		return name
	}
	return fmt.Sprintf("KEY_%d", key)
}

// ParseModifiers resolves a comma-separated modifier list into key codes,
// preserving order. Empty elements are rejected rather than skipped so a
// typo like "leftshift,,leftctrl" surfaces instead of shrinking the set.
func ParseModifiers(list string) ([]sticky.KeyCode, error) {
	parts := strings.Split(list, ",")
	keys := make([]sticky.KeyCode, 0, len(parts))
	for _, p := range parts {
		code, err := KeyFromName(p)
		if err != nil {
			return nil, fmt.Errorf("invalid modifiers list %q: %w", list, err)
		}
		keys = append(keys, code)
	}
	return keys, nil
}
