package attendance

import "errors"

// Precondition and policy violations surfaced to callers. Handlers map
// these to 4xx responses with errors.Is.
var (
	// ErrNoRecord means there is no attendance record to clock out of today.
	ErrNoRecord = errors.New("no attendance record for today")

	// ErrSessionOpen means a session is still open and must be clocked out
	// before a new clock-in.
	ErrSessionOpen = errors.New("session in progress")

	// ErrDayComplete means all sessions for the day are done.
	ErrDayComplete = errors.New("attendance already complete for today")

	// ErrOvertimeCap is returned when an overtime span exceeds the 2 hour
	// limit; nothing is written in that case.
	ErrOvertimeCap = errors.New("overtime duration exceeds the 2 hour limit")

	// ErrNotOperatingDay rejects clock-ins outside the agency's configured
	// operating days.
	ErrNotOperatingDay = errors.New("agency is not operating today")

	// ErrNoOpenSession means a clock-out found nothing to close.
	ErrNoOpenSession = errors.New("no open session to clock out")

	// ErrSessionClosed means a clock-out named a session that already has
	// both timestamps; closed sessions are never re-stamped.
	ErrSessionClosed = errors.New("session already clocked out")
)
