package attendance

import (
	"fmt"

	"practicum/internal/schedule"
)

// DetermineSession decides which session a clock-in at nowMin (minutes since
// midnight) belongs to, given the agency boundaries and the day's existing
// record (nil when this is the first clock-in of the day).
//
// One session may be open at a time; overtime is only reachable once the
// afternoon session is complete.
func DetermineSession(cfg schedule.Config, b schedule.Boundaries, nowMin int, rec *Record) (Session, error) {
	if rec != nil && rec.SessionComplete(SessionAfternoon) {
		// Afternoon done: overtime is the only remaining option.
		if rec.SessionOpen(SessionOvertime) {
			return "", fmt.Errorf("overtime %w, clock out first", ErrSessionOpen)
		}
		if rec.SessionComplete(SessionOvertime) {
			return "", ErrDayComplete
		}
		return SessionOvertime, nil
	}

	if rec != nil {
		if open, ok := rec.OpenSession(); ok {
			return "", fmt.Errorf("%s %w, clock out of it before clocking in again", open, ErrSessionOpen)
		}
	}

	if rec == nil || rec.MorningTimeIn == nil {
		if nowMin <= b.MorningCutoff {
			return SessionMorning, nil
		}
		return SessionAfternoon, nil
	}

	if rec.SessionComplete(SessionMorning) {
		return SessionAfternoon, nil
	}

	// Unreachable through the normal flow: morning in without out and not
	// open means inconsistent state. Fall back to a time-based split.
	if lunchStart, ok := schedule.ParseTimeToMinutes(cfg.LunchStartTime); ok {
		if nowMin < lunchStart {
			return SessionMorning, nil
		}
		return SessionAfternoon, nil
	}
	if nowMin < b.MorningBoundary {
		return SessionMorning, nil
	}
	return SessionAfternoon, nil
}
