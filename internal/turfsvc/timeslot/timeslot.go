// Package timeslot holds the wall-clock math shared by the booking and game
// paths. Times are "HH:MM" strings on a single day; intervals are half-open,
// so a booking ending 15:00 never conflicts with one starting 15:00.
package timeslot

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is a half-open interval [Start, End) in minutes since midnight.
type Range struct {
	Start int
	End   int
}

// Minutes converts a zero-padded "HH:MM" string into minutes since midnight.
func Minutes(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid clock %q: want HH:MM", clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", clock)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", clock)
	}
	return h*60 + m, nil
}

// Clock formats minutes since midnight back to "HH:MM".
func Clock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// NewRange parses a start/end clock pair. End must be strictly after start;
// overnight spans are not supported.
func NewRange(start, end string) (Range, error) {
	s, err := Minutes(start)
	if err != nil {
		return Range{}, err
	}
	e, err := Minutes(end)
	if err != nil {
		return Range{}, err
	}
	r := Range{Start: s, End: e}
	if !r.Valid() {
		return Range{}, fmt.Errorf("invalid interval %s-%s: end must be after start", start, end)
	}
	return r, nil
}

func (r Range) Valid() bool {
	return r.Start < r.End
}

// DurationMinutes returns the interval length in minutes.
func (r Range) DurationMinutes() int {
	return r.End - r.Start
}

// Overlaps reports whether two half-open intervals intersect.
func Overlaps(a, b Range) bool {
	return a.Start < b.End && b.Start < a.End
}
