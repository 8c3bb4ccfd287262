// Package schedule derives official attendance time boundaries from an
// agency's configured opening, closing and lunch times. All boundaries are
// expressed in minutes since midnight (0-1439).
package schedule

import (
	"log"
	"strconv"
	"strings"
)

// Config is the agency's time configuration as stored: time-of-day strings
// in HH:MM or HH:MM:SS form. Empty string means not configured.
type Config struct {
	OpeningTime    string
	ClosingTime    string
	LunchStartTime string
	LunchEndTime   string
	OperatingDays  string
}

// Defaults consolidates every fallback minute value used when an agency has
// no (or invalid) time configuration. Keeping them in one place stops the
// clock-in and clock-out paths from drifting apart.
type Defaults struct {
	MorningCutoff             int
	LunchWindowStart          int
	LunchWindowEnd            int
	AfternoonClockOutStart    int
	AfternoonClockOutDeadline int
	ExpectedHours             float64
	LunchHours                float64
}

// StandardDefaults are the system-wide fallbacks: 10:59 morning cutoff,
// 12:00-12:59 lunch window, 17:00 closing, 18:00 clock-out deadline,
// a 7-hour expected day and a 1-hour lunch.
var StandardDefaults = Defaults{
	MorningCutoff:             659,
	LunchWindowStart:          720,
	LunchWindowEnd:            779,
	AfternoonClockOutStart:    1020,
	AfternoonClockOutDeadline: 1080,
	ExpectedHours:             7.0,
	LunchHours:                1.0,
}

// Boundaries are the derived thresholds a clock action is classified
// against.
type Boundaries struct {
	MorningCutoff             int
	MorningBoundary           int
	LunchWindowStart          int
	LunchWindowEnd            int
	AfternoonClockOutStart    int
	AfternoonClockOutDeadline int
}

// Warnf is where configuration-defect warnings go. Malformed agency time
// strings must never block attendance capture, so they are logged and the
// computation degrades to defaults.
var Warnf = log.Printf

// ParseTimeToMinutes parses H:MM, HH:MM or HH:MM:SS into minutes since
// midnight. Returns false for malformed input or out-of-range fields.
func ParseTimeToMinutes(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || len(parts[1]) != 2 {
		return 0, false
	}
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, false
		}
	}
	return h*60 + m, true
}

// minutes parses one config field, logging once when the value is present
// but unparseable.
func minutes(field, value string) (int, bool) {
	if value == "" {
		return 0, false
	}
	min, ok := ParseTimeToMinutes(value)
	if !ok {
		Warnf("schedule: invalid %s %q, using defaults", field, value)
	}
	return min, ok
}

// crossesMidnight reports whether an end-before-start pair is the valid
// overnight case: the end in early-morning minutes (before 06:00) while the
// start is late evening (after 20:00).
func crossesMidnight(start, end int) bool {
	return end < 360 && start > 1200
}

// validPair checks start < end, allowing the midnight-crossover exception.
func validPair(field string, start, end int) bool {
	if start < end || crossesMidnight(start, end) {
		return true
	}
	Warnf("schedule: %s pair out of order (%d >= %d), using defaults", field, start, end)
	return false
}

// Compute derives the day's boundaries from an agency config. It never
// fails: invalid pairs degrade to StandardDefaults for that pair.
func Compute(cfg Config) Boundaries {
	return ComputeWithDefaults(cfg, StandardDefaults)
}

// ComputeWithDefaults is Compute with an explicit fallback set.
func ComputeWithDefaults(cfg Config, d Defaults) Boundaries {
	opening, hasOpening := minutes("opening time", cfg.OpeningTime)
	closing, hasClosing := minutes("closing time", cfg.ClosingTime)
	lunchStart, hasLunchStart := minutes("lunch start", cfg.LunchStartTime)
	lunchEnd, hasLunchEnd := minutes("lunch end", cfg.LunchEndTime)

	if hasOpening && hasClosing && !validPair("opening/closing", opening, closing) {
		hasOpening, hasClosing = false, false
	}
	if hasLunchStart && hasLunchEnd && !validPair("lunch", lunchStart, lunchEnd) {
		hasLunchStart, hasLunchEnd = false, false
	}

	b := Boundaries{
		MorningCutoff:             d.MorningCutoff,
		LunchWindowStart:          d.LunchWindowStart,
		LunchWindowEnd:            d.LunchWindowEnd,
		AfternoonClockOutStart:    d.AfternoonClockOutStart,
		AfternoonClockOutDeadline: d.AfternoonClockOutDeadline,
	}

	switch {
	case hasLunchStart:
		b.MorningCutoff = lunchStart - 1
	case hasOpening:
		b.MorningCutoff = opening + 120
	}
	b.MorningBoundary = b.MorningCutoff + 1

	if hasLunchStart {
		b.LunchWindowStart = lunchStart
	}
	if hasLunchEnd {
		b.LunchWindowEnd = lunchEnd
	}

	if hasClosing {
		b.AfternoonClockOutStart = closing
		b.AfternoonClockOutDeadline = closing + 60
		if b.AfternoonClockOutDeadline < 1080 {
			b.AfternoonClockOutDeadline = 1080
		}
	}
	return b
}
