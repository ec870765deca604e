// Package timefmt formats and parses elapsed practice time.
//
// One tick is 100 milliseconds. The display format is "MM:SS.CC"
// (minutes, seconds, centiseconds), zero-padded, so Format(0) is
// "00:00.00". Because ticks are deciseconds the centisecond field is
// always a multiple of 10 and Parse recovers the tick count exactly.
package timefmt

import (
	"fmt"
	"regexp"
	"strconv"
)

// TicksPerSecond is the timer resolution: one tick is 100 ms.
const TicksPerSecond = 10

var formatted = regexp.MustCompile(`^(\d{2,}):(\d{2})\.(\d{2})$`)

// Format renders a non-negative tick count as "MM:SS.CC".
// Negative values are clamped to zero.
func Format(ticks int) string {
	if ticks < 0 {
		ticks = 0
	}
	minutes := ticks / (60 * TicksPerSecond)
	rem := ticks % (60 * TicksPerSecond)
	seconds := rem / TicksPerSecond
	centis := (rem % TicksPerSecond) * 10
	return fmt.Sprintf("%02d:%02d.%02d", minutes, seconds, centis)
}

// Seconds converts a tick count to whole seconds, truncating.
func Seconds(ticks int) int {
	if ticks < 0 {
		return 0
	}
	return ticks / TicksPerSecond
}

// Parse recovers the tick count from a string produced by Format.
// The centisecond field must be a whole number of deciseconds.
func Parse(s string) (int, error) {
	m := formatted.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("malformed minutes in %q: %w", s, err)
	}
	seconds, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, fmt.Errorf("malformed seconds in %q: %w", s, err)
	}
	centis, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, fmt.Errorf("malformed centiseconds in %q: %w", s, err)
	}
	if seconds >= 60 {
		return 0, fmt.Errorf("seconds out of range in %q", s)
	}
	if centis%10 != 0 {
		return 0, fmt.Errorf("sub-tick precision in %q", s)
	}
	return minutes*60*TicksPerSecond + seconds*TicksPerSecond + centis/10, nil
}
