// Package term decides whether terminal output may use ANSI styling.
//
// The decision is made once during startup by [Configure] and read by the
// logging (level colors) and display (lipgloss styles) packages through
// [Enabled].
package term

import (
	"os"
	"strings"
	"sync/atomic"

	"github.com/backmassage/qbank/internal/config"
)

var enabled atomic.Bool

// Configure resolves mode against stdout and records the result.
func Configure(mode config.ColorMode) bool {
	on := Resolve(mode, os.Stdout)
	enabled.Store(on)
	return on
}

// Enabled reports whether ANSI styling is currently active.
func Enabled() bool { return enabled.Load() }

// Resolve determines whether colors should be enabled for f based on the
// configured mode, TTY detection, and the NO_COLOR env var (https://no-color.org).
func Resolve(mode config.ColorMode, f *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(f) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
