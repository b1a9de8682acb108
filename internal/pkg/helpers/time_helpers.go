package helpers

import (
	"fmt"
	"time"
)

// ClockLayout is the textual HH:MM format used by exam schedules
const ClockLayout = "15:04"

// ParseClockTime parses a same-day HH:MM value
func ParseClockTime(value string) (time.Time, error) {
	t, err := time.Parse(ClockLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM: %w", value, err)
	}
	return t, nil
}

// ClockRangeValid reports whether start is strictly before end on the same day
func ClockRangeValid(start, end string) (bool, error) {
	s, err := ParseClockTime(start)
	if err != nil {
		return false, err
	}
	e, err := ParseClockTime(end)
	if err != nil {
		return false, err
	}
	return s.Before(e), nil
}

// ClockRangesOverlap reports whether two same-day [start, end) intervals
// intersect. Back-to-back slots (aEnd == bStart) do not overlap.
func ClockRangesOverlap(aStart, aEnd, bStart, bEnd string) (bool, error) {
	as, err := ParseClockTime(aStart)
	if err != nil {
		return false, err
	}
	ae, err := ParseClockTime(aEnd)
	if err != nil {
		return false, err
	}
	bs, err := ParseClockTime(bStart)
	if err != nil {
		return false, err
	}
	be, err := ParseClockTime(bEnd)
	if err != nil {
		return false, err
	}
	return as.Before(be) && bs.Before(ae), nil
}
