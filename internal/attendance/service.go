package attendance

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"practicum/internal/schedule"
)

// Store is the persistence surface the service needs. Implemented by
// *Repository; service tests use an in-memory fake.
type Store interface {
	// RecordForDate returns the day's record or (nil, nil) when absent.
	RecordForDate(ctx context.Context, studentID, practicumID, date string) (*Record, error)
	InsertRecord(ctx context.Context, rec *Record) error
	UpdateRecord(ctx context.Context, rec *Record) error
	// ClearSession nullifies one session's timestamps on a stored record.
	ClearSession(ctx context.Context, recordID string, s Session) error
	InsertDetailLog(ctx context.Context, l *DetailLog) error
	// CloseDetailLog completes the most recent open log of the session.
	CloseDetailLog(ctx context.Context, recordID string, s Session, out time.Time, meta ClockMeta) error
}

// Service runs the clock-in/clock-out state machine. Dates and day names
// are always derived from the server clock in loc; client-supplied times
// are ignored.
type Service struct {
	store      Store
	loc        *time.Location
	idemWindow time.Duration
	now        func() time.Time
}

// NewService creates a service. A non-positive idemWindow falls back to the
// 5 second duplicate clock-in window.
func NewService(store Store, loc *time.Location, idemWindow time.Duration) *Service {
	if idemWindow <= 0 {
		idemWindow = 5 * time.Second
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: store, loc: loc, idemWindow: idemWindow, now: time.Now}
}

// dateOf formats the server-local calendar date.
func (s *Service) dateOf(t time.Time) string {
	return t.Format("2006-01-02")
}

// isOperatingDay matches the weekday name against the agency's
// comma-separated operating day list, case-insensitively. An empty list
// fails open: enforcement of operating hours was moved client-side, the
// server only rejects days explicitly excluded by configuration.
func isOperatingDay(operatingDays, weekday string) bool {
	if strings.TrimSpace(operatingDays) == "" {
		return true
	}
	for _, d := range strings.Split(operatingDays, ",") {
		if strings.EqualFold(strings.TrimSpace(d), weekday) {
			return true
		}
	}
	return false
}

// lastClockIn returns the most recent clock-in on the record and the
// session it landed in.
func lastClockIn(rec *Record) (Session, *time.Time) {
	var (
		sess Session
		at   *time.Time
	)
	for _, c := range []struct {
		s  Session
		in *time.Time
	}{
		{SessionMorning, rec.MorningTimeIn},
		{SessionAfternoon, rec.AfternoonTimeIn},
		{SessionOvertime, rec.OvertimeTimeIn},
	} {
		if c.in != nil && (at == nil || c.in.After(*at)) {
			sess, at = c.s, c.in
		}
	}
	return sess, at
}

// ClockIn records a clock-in for the student's practicum day, creating the
// day's record on first use, and reports which session it landed in.
// Duplicate calls within the idempotency window return the existing record
// unchanged.
func (s *Service) ClockIn(ctx context.Context, studentID, practicumID string, cfg schedule.Config, meta ClockMeta) (*Record, Session, error) {
	now := s.now().In(s.loc)
	date := s.dateOf(now)
	b := schedule.Compute(cfg)

	rec, err := s.store.RecordForDate(ctx, studentID, practicumID, date)
	if err != nil {
		return nil, "", err
	}
	if rec != nil {
		if err := s.nullifyStale(ctx, rec, b, now, false); err != nil {
			return nil, "", err
		}
		if last, at := lastClockIn(rec); at != nil {
			if d := now.Sub(*at); d >= 0 && d <= s.idemWindow {
				return rec, last, nil
			}
		}
	}

	sess, err := DetermineSession(cfg, b, minuteOfDay(now), rec)
	if err != nil {
		return nil, "", err
	}

	if !isOperatingDay(cfg.OperatingDays, now.Weekday().String()) {
		return nil, "", fmt.Errorf("%w, valid days: %s", ErrNotOperatingDay, cfg.OperatingDays)
	}

	remarks := ClockRemarks(cfg, now, sess, true)

	created := false
	if rec == nil {
		created = true
		rec = &Record{
			ID:          uuid.NewString(),
			StudentID:   studentID,
			PracticumID: practicumID,
			Date:        date,
			Status:      StatusPresent,
			CreatedAt:   now,
		}
	}
	in, _ := rec.sessionTimes(sess)
	*in = &now
	rec.TimeInRemarks = remarks
	if remarks == RemarkLate {
		rec.Status = StatusLate
	}
	rec.ApprovalStatus = ApprovalPending
	rec.UpdatedAt = now

	if created {
		if err := s.store.InsertRecord(ctx, rec); err != nil {
			return nil, "", err
		}
	} else if err := s.store.UpdateRecord(ctx, rec); err != nil {
		return nil, "", err
	}

	logRow := &DetailLog{
		ID:          uuid.NewString(),
		RecordID:    rec.ID,
		SessionType: sess,
		TimeIn:      now,
		InMeta:      meta,
		CreatedAt:   now,
	}
	if err := s.store.InsertDetailLog(ctx, logRow); err != nil {
		return nil, "", err
	}
	return rec, sess, nil
}

// ClockOut closes the currently open session, computes remarks, hours and
// undertime, and persists the result. hint is only consulted when no
// session is open.
func (s *Service) ClockOut(ctx context.Context, studentID, practicumID string, cfg schedule.Config, hint Session, meta ClockMeta) (*Record, Session, error) {
	now := s.now().In(s.loc)
	date := s.dateOf(now)
	b := schedule.Compute(cfg)

	rec, err := s.store.RecordForDate(ctx, studentID, practicumID, date)
	if err != nil {
		return nil, "", err
	}
	if rec == nil {
		return nil, "", ErrNoRecord
	}

	// No-op for clock-outs; kept so both paths run the same sequence.
	if err := s.nullifyStale(ctx, rec, b, now, true); err != nil {
		return nil, "", err
	}

	sess, open := rec.OpenSession()
	if !open {
		if hint == "" {
			return nil, "", ErrNoOpenSession
		}
		sess = hint
	}

	in, out := rec.sessionTimes(sess)
	if *in == nil {
		return nil, "", ErrNoOpenSession
	}
	if *out != nil {
		return nil, "", fmt.Errorf("%s %w", sess, ErrSessionClosed)
	}

	nowMin := minuteOfDay(now)
	switch sess {
	case SessionMorning:
		if nowMin < b.LunchWindowStart || nowMin > b.LunchWindowEnd {
			log.Printf("attendance: morning clock-out at %d outside lunch window [%d, %d] for record %s",
				nowMin, b.LunchWindowStart, b.LunchWindowEnd, rec.ID)
		}
	case SessionAfternoon:
		if nowMin < b.AfternoonClockOutStart {
			log.Printf("attendance: afternoon clock-out at %d before closing %d for record %s",
				nowMin, b.AfternoonClockOutStart, rec.ID)
		}
	case SessionOvertime:
		if now.Sub(*rec.OvertimeTimeIn).Hours() > OvertimeCapHours {
			return nil, "", ErrOvertimeCap
		}
	}

	*out = &now
	rec.TimeOutRemarks = ClockRemarks(cfg, now, sess, false)

	regular := HoursWithLunchExclusion(rec.MorningTimeIn, rec.MorningTimeOut, rec.AfternoonTimeIn, rec.AfternoonTimeOut)
	rec.Hours = round2(regular + OvertimeHours(rec.OvertimeTimeIn, rec.OvertimeTimeOut))
	rec.UndertimeHours = UndertimeHours(cfg, regular)
	rec.ApprovalStatus = ApprovalPending
	rec.UpdatedAt = now

	if err := s.store.UpdateRecord(ctx, rec); err != nil {
		return nil, "", err
	}
	if err := s.store.CloseDetailLog(ctx, rec.ID, sess, now, meta); err != nil {
		return nil, "", err
	}
	return rec, sess, nil
}
