package attendance

import (
	"context"
	"log"
	"time"

	"practicum/internal/schedule"
)

// nullifyStale clears half-open sessions whose valid clock-out window has
// passed, persisting the clears immediately and mutating rec for the
// caller. When isClockOutOperation is set the function does nothing: the
// open session is the one about to be closed, and a concurrent
// nullification pass must never undo an in-flight clock-out.
func (s *Service) nullifyStale(ctx context.Context, rec *Record, b schedule.Boundaries, now time.Time, isClockOutOperation bool) error {
	if rec == nil || isClockOutOperation {
		return nil
	}
	nowMin := minuteOfDay(now)

	if rec.SessionOpen(SessionMorning) && nowMin > b.LunchWindowEnd+1 {
		rec.ClearSession(SessionMorning)
		if err := s.store.ClearSession(ctx, rec.ID, SessionMorning); err != nil {
			return err
		}
		log.Printf("attendance: nullified stale morning session on record %s", rec.ID)
	}

	if rec.SessionOpen(SessionAfternoon) && nowMin > b.AfternoonClockOutDeadline {
		rec.ClearSession(SessionAfternoon)
		if err := s.store.ClearSession(ctx, rec.ID, SessionAfternoon); err != nil {
			return err
		}
		log.Printf("attendance: nullified stale afternoon session on record %s", rec.ID)
	}
	return nil
}
