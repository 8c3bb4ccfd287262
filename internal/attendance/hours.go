package attendance

import (
	"math"
	"time"

	"practicum/internal/schedule"
)

// OvertimeCapHours is the hard limit on a single overtime span.
const OvertimeCapHours = 2.0

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// sessionHours is the non-negative span of one in/out pair in hours.
func sessionHours(in, out *time.Time) float64 {
	if in == nil || out == nil {
		return 0
	}
	h := out.Sub(*in).Hours()
	if h < 0 {
		return 0
	}
	return h
}

// HoursWithLunchExclusion sums the morning and afternoon spans. The gap
// between morning out and afternoon in is never part of either span, so
// lunch is excluded by construction rather than subtracted.
func HoursWithLunchExclusion(mIn, mOut, aIn, aOut *time.Time) float64 {
	return round2(sessionHours(mIn, mOut) + sessionHours(aIn, aOut))
}

// spanMinutes normalizes an end-before-start pair across midnight.
func spanMinutes(start, end int) int {
	d := end - start
	if d < 0 {
		d += 1440
	}
	return d
}

// ExpectedHours derives the agency's expected working day: opening-to-closing
// minus the lunch break. Falls back to a 7 hour day and a 1 hour lunch when
// the agency has no configured times.
func ExpectedHours(cfg schedule.Config) float64 {
	opening, okO := schedule.ParseTimeToMinutes(cfg.OpeningTime)
	closing, okC := schedule.ParseTimeToMinutes(cfg.ClosingTime)
	if !okO || !okC {
		return schedule.StandardDefaults.ExpectedHours
	}

	lunchMinutes := int(schedule.StandardDefaults.LunchHours * 60)
	if ls, ok1 := schedule.ParseTimeToMinutes(cfg.LunchStartTime); ok1 {
		if le, ok2 := schedule.ParseTimeToMinutes(cfg.LunchEndTime); ok2 {
			lunchMinutes = spanMinutes(ls, le)
		}
	}
	return round2(float64(spanMinutes(opening, closing)-lunchMinutes) / 60)
}

// UndertimeHours is the shortfall between the expected day and the actual
// regular hours, never negative.
func UndertimeHours(cfg schedule.Config, actualHours float64) float64 {
	u := ExpectedHours(cfg) - actualHours
	if u <= 0 {
		return 0
	}
	return round2(u)
}

// OvertimeHours is the overtime span clamped to [0, OvertimeCapHours] for
// persistence. Callers enforce the hard cap before writing; this clamp only
// bounds what is stored.
func OvertimeHours(in, out *time.Time) float64 {
	h := sessionHours(in, out)
	if h > OvertimeCapHours {
		h = OvertimeCapHours
	}
	return round2(h)
}
