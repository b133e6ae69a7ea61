package sticky_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stickyd/stickyd/sticky"
)

const (
	keyLeftShift sticky.KeyCode = 42
	keyLeftCtrl  sticky.KeyCode = 29
	keyEsc       sticky.KeyCode = 1
	keyA         sticky.KeyCode = 30
)

func newTestMachine(t *testing.T, mods ...sticky.KeyCode) *sticky.Machine {
	t.Helper()
	if len(mods) == 0 {
		mods = []sticky.KeyCode{keyLeftShift, keyLeftCtrl}
	}
	m, err := sticky.NewMachine(sticky.Config{
		Modifiers:          mods,
		Timeout:            500 * time.Millisecond,
		ClearAllWithEscape: true,
		EscapeKey:          keyEsc,
	})
	require.NoError(t, err)
	return m
}

func at(ms int) time.Time {
	return time.Unix(1000, 0).Add(time.Duration(ms) * time.Millisecond)
}

func press(k sticky.KeyCode, ms int) sticky.Event {
	return sticky.Event{Key: k, Action: sticky.Pressed, Time: at(ms)}
}

func release(k sticky.KeyCode, ms int) sticky.Event {
	return sticky.Event{Key: k, Action: sticky.Released, Time: at(ms)}
}

func stateOf(m *sticky.Machine, k sticky.KeyCode) sticky.State {
	return m.Registry().Entry(k).State
}

func TestModifierStrikeTransitions(t *testing.T) {
	tests := []struct {
		name      string
		strikesAt []int // modifier press times in ms
		want      sticky.State
	}{
		{"single tap latches", []int{0}, sticky.Latched},
		{"single tap latches after long idle", []int{100000}, sticky.Latched},
		{"fast double tap locks", []int{0, 300}, sticky.Locked},
		{"double tap just inside window locks", []int{0, 499}, sticky.Locked},
		{"double tap exactly at timeout unlatches", []int{0, 500}, sticky.Unlatched},
		{"slow double tap unlatches", []int{0, 600}, sticky.Unlatched},
		{"third tap unlocks", []int{0, 100, 200}, sticky.Unlatched},
		{"tap after unlock latches again", []int{0, 100, 200, 10000}, sticky.Latched},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			for _, ms := range tt.strikesAt {
				m.OnEvent(press(keyLeftShift, ms))
			}
			assert.Equal(t, tt.want, stateOf(m, keyLeftShift))
		})
	}
}

func TestModifierPressIsSuppressed(t *testing.T) {
	m := newTestMachine(t)
	assert.Empty(t, m.OnEvent(press(keyLeftShift, 0)))
}

func TestModifierReleaseAndRepeatAreSuppressed(t *testing.T) {
	m := newTestMachine(t)
	m.OnEvent(press(keyLeftShift, 0))

	assert.Empty(t, m.OnEvent(release(keyLeftShift, 50)))
	assert.Empty(t, m.OnEvent(sticky.Event{Key: keyLeftShift, Action: sticky.Repeated, Time: at(60)}))

	// Neither suppressed event may have touched state or the strike clock:
	// a second press 300ms after the first still locks.
	m.OnEvent(press(keyLeftShift, 300))
	assert.Equal(t, sticky.Locked, stateOf(m, keyLeftShift))
}

func TestLatchedModifierWrapsNextKeystroke(t *testing.T) {
	m := newTestMachine(t)
	m.OnEvent(press(keyLeftShift, 0))

	got := m.OnEvent(press(keyA, 100))
	assert.Equal(t, []sticky.Event{
		press(keyLeftShift, 100),
		press(keyA, 100),
		release(keyLeftShift, 100),
	}, got)
	assert.Equal(t, sticky.Unlatched, stateOf(m, keyLeftShift))

	// The latch was consumed: the next keystroke is unmodified.
	got = m.OnEvent(press(keyA, 200))
	assert.Equal(t, []sticky.Event{press(keyA, 200)}, got)
}

func TestLockedModifierPersistsAcrossKeystrokes(t *testing.T) {
	m := newTestMachine(t)
	m.OnEvent(press(keyLeftShift, 0))
	m.OnEvent(press(keyLeftShift, 300))
	require.Equal(t, sticky.Locked, stateOf(m, keyLeftShift))

	for _, ms := range []int{1000, 2000, 3000} {
		got := m.OnEvent(press(keyA, ms))
		assert.Equal(t, []sticky.Event{
			press(keyLeftShift, ms),
			press(keyA, ms),
		}, got)
		assert.Equal(t, sticky.Locked, stateOf(m, keyLeftShift))
	}
}

func TestUnlockByStrikeReleasesModifier(t *testing.T) {
	m := newTestMachine(t)
	m.OnEvent(press(keyLeftShift, 0))
	m.OnEvent(press(keyLeftShift, 300))
	m.OnEvent(press(keyA, 1000)) // virtual device now holds shift down

	got := m.OnEvent(press(keyLeftShift, 2000))
	assert.Equal(t, []sticky.Event{release(keyLeftShift, 2000)}, got)
	assert.Equal(t, sticky.Unlatched, stateOf(m, keyLeftShift))
}

func TestMultipleLatchedModifiersApplyToOneKeystroke(t *testing.T) {
	m := newTestMachine(t)
	m.OnEvent(press(keyLeftShift, 0))
	m.OnEvent(press(keyLeftCtrl, 50))

	got := m.OnEvent(press(keyA, 100))
	assert.Equal(t, []sticky.Event{
		press(keyLeftShift, 100),
		press(keyLeftCtrl, 100),
		press(keyA, 100),
		release(keyLeftShift, 100),
		release(keyLeftCtrl, 100),
	}, got)
	assert.Equal(t, sticky.Unlatched, stateOf(m, keyLeftShift))
	assert.Equal(t, sticky.Unlatched, stateOf(m, keyLeftCtrl))
}

func TestLatchedAndLockedMix(t *testing.T) {
	m := newTestMachine(t)
	m.OnEvent(press(keyLeftShift, 0))
	m.OnEvent(press(keyLeftShift, 300)) // shift locked
	m.OnEvent(press(keyLeftCtrl, 400))  // ctrl latched

	got := m.OnEvent(press(keyA, 1000))
	assert.Equal(t, []sticky.Event{
		press(keyLeftShift, 1000),
		press(keyLeftCtrl, 1000),
		press(keyA, 1000),
		release(keyLeftCtrl, 1000),
	}, got)
	assert.Equal(t, sticky.Locked, stateOf(m, keyLeftShift))
	assert.Equal(t, sticky.Unlatched, stateOf(m, keyLeftCtrl))
}

func TestNonModifierReleaseAndRepeatPassThrough(t *testing.T) {
	m := newTestMachine(t)
	m.OnEvent(press(keyLeftShift, 0))

	// Release and repeat never consume the latch or pick up modifiers.
	got := m.OnEvent(release(keyA, 100))
	assert.Equal(t, []sticky.Event{release(keyA, 100)}, got)

	rep := sticky.Event{Key: keyA, Action: sticky.Repeated, Time: at(150)}
	assert.Equal(t, []sticky.Event{rep}, m.OnEvent(rep))

	assert.Equal(t, sticky.Latched, stateOf(m, keyLeftShift))
}

func TestEscapeClearsAllModifiers(t *testing.T) {
	m := newTestMachine(t)
	m.OnEvent(press(keyLeftShift, 0))
	m.OnEvent(press(keyLeftShift, 300)) // locked
	m.OnEvent(press(keyLeftCtrl, 400))  // latched

	got := m.OnEvent(press(keyEsc, 1000))
	assert.Equal(t, []sticky.Event{
		release(keyLeftShift, 1000),
		release(keyLeftCtrl, 1000),
		press(keyEsc, 1000),
	}, got)
	assert.Equal(t, sticky.Unlatched, stateOf(m, keyLeftShift))
	assert.Equal(t, sticky.Unlatched, stateOf(m, keyLeftCtrl))
	assert.False(t, m.LEDOn())
}

func TestEscapeWithNothingActiveJustForwards(t *testing.T) {
	m := newTestMachine(t)
	got := m.OnEvent(press(keyEsc, 0))
	assert.Equal(t, []sticky.Event{press(keyEsc, 0)}, got)
}

func TestEscapeDisabledBehavesAsPlainKey(t *testing.T) {
	m, err := sticky.NewMachine(sticky.Config{
		Modifiers:          []sticky.KeyCode{keyLeftShift},
		Timeout:            500 * time.Millisecond,
		ClearAllWithEscape: false,
		EscapeKey:          keyEsc,
	})
	require.NoError(t, err)

	m.OnEvent(press(keyLeftShift, 0))
	got := m.OnEvent(press(keyEsc, 100))
	// With clearing disabled, escape is an ordinary keystroke and consumes
	// the latch like any other key.
	assert.Equal(t, []sticky.Event{
		press(keyLeftShift, 100),
		press(keyEsc, 100),
		release(keyLeftShift, 100),
	}, got)
}

func TestLEDTracksActiveModifiers(t *testing.T) {
	m := newTestMachine(t)
	assert.False(t, m.LEDOn())

	m.OnEvent(press(keyLeftShift, 0))
	assert.True(t, m.LEDOn(), "latched modifier must light the LED")

	m.OnEvent(press(keyLeftShift, 300))
	assert.True(t, m.LEDOn(), "locked modifier must keep the LED lit")

	m.OnEvent(press(keyLeftCtrl, 400))
	m.OnEvent(press(keyA, 1000)) // consumes ctrl latch, shift stays locked
	assert.True(t, m.LEDOn())

	m.OnEvent(press(keyLeftShift, 2000)) // unlock
	assert.False(t, m.LEDOn(), "LED must go out with the last active modifier")
}

func TestLockScenarioFromTimeline(t *testing.T) {
	// timeout 500ms: shift at t=0 latches, shift at t=300 locks,
	// 'a' at t=1000 is shifted and shift stays locked.
	m := newTestMachine(t)
	m.OnEvent(press(keyLeftShift, 0))
	assert.Equal(t, sticky.Latched, stateOf(m, keyLeftShift))

	m.OnEvent(press(keyLeftShift, 300))
	assert.Equal(t, sticky.Locked, stateOf(m, keyLeftShift))

	got := m.OnEvent(press(keyA, 1000))
	assert.Equal(t, []sticky.Event{
		press(keyLeftShift, 1000),
		press(keyA, 1000),
	}, got)
	assert.Equal(t, sticky.Locked, stateOf(m, keyLeftShift))
}

func TestSlowSecondTapScenario(t *testing.T) {
	// timeout 500ms: ctrl at t=0 latches, ctrl at t=600 unlatches.
	m := newTestMachine(t)
	m.OnEvent(press(keyLeftCtrl, 0))
	m.OnEvent(press(keyLeftCtrl, 600))
	assert.Equal(t, sticky.Unlatched, stateOf(m, keyLeftCtrl))
	assert.False(t, m.LEDOn())
}

func TestNewMachineValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  sticky.Config
	}{
		{"zero timeout", sticky.Config{Modifiers: []sticky.KeyCode{keyLeftShift}}},
		{"negative timeout", sticky.Config{Modifiers: []sticky.KeyCode{keyLeftShift}, Timeout: -time.Second}},
		{"no modifiers", sticky.Config{Timeout: 500 * time.Millisecond}},
		{"duplicate modifier", sticky.Config{
			Modifiers: []sticky.KeyCode{keyLeftShift, keyLeftShift},
			Timeout:   500 * time.Millisecond,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sticky.NewMachine(tt.cfg)
			assert.Error(t, err)
		})
	}
}
