package domain

import (
	"strconv"
	"strings"
)

// ParseClock converts an "HH:MM" wall-clock string to minutes since
// midnight. Unparseable input yields (0, false): callers sort such entries
// to the start of the day, and both the per-group schedule and the alliance
// summary use the same rule so ordering stays consistent between views.
func ParseClock(s string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hh, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hh < 0 || hh > 23 {
		return 0, false
	}
	mm, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || mm < 0 || mm > 59 {
		return 0, false
	}
	return hh*60 + mm, true
}

// SlotStart extracts the start time of a "start-end" slot label and returns
// it as minutes since midnight, 0 when unparseable.
func SlotStart(slot string) int {
	start, _, _ := strings.Cut(slot, "-")
	m, _ := ParseClock(start)
	return m
}
