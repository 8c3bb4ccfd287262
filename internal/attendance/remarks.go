package attendance

import (
	"time"

	"practicum/internal/schedule"
)

// minuteOfDay is the instant's minutes since midnight in its own location.
func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// adjustForMidnight shifts an early-morning reference a day forward when the
// actual instant is late evening, so overnight schedules compare correctly.
func adjustForMidnight(ref, actualMin int) int {
	if ref < 360 && actualMin > 1200 {
		return ref + 1440
	}
	return ref
}

// ClockRemarks classifies a clock action against the relevant official
// boundary. A missing reference time means no penalty is computed, and
// overtime is never penalized.
func ClockRemarks(cfg schedule.Config, at time.Time, s Session, isClockIn bool) string {
	if s == SessionOvertime {
		return RemarkNormal
	}
	actual := minuteOfDay(at)

	if isClockIn {
		var ref int
		var ok bool
		switch s {
		case SessionMorning:
			ref, ok = schedule.ParseTimeToMinutes(cfg.OpeningTime)
		case SessionAfternoon:
			ref, ok = schedule.ParseTimeToMinutes(cfg.LunchEndTime)
			if ok {
				ref = adjustForMidnight(ref, actual)
			}
		}
		if ok && actual > ref {
			return RemarkLate
		}
		return RemarkNormal
	}

	var ref int
	var ok bool
	switch s {
	case SessionMorning:
		ref, ok = schedule.ParseTimeToMinutes(cfg.LunchStartTime)
	case SessionAfternoon:
		ref, ok = schedule.ParseTimeToMinutes(cfg.ClosingTime)
		if ok {
			ref = adjustForMidnight(ref, actual)
		}
	}
	if ok && actual < ref {
		return RemarkEarlyDeparture
	}
	return RemarkNormal
}
