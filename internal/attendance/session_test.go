package attendance

import (
	"errors"
	"testing"
	"time"

	"practicum/internal/schedule"
)

var testCfg = schedule.Config{
	OpeningTime:    "08:00",
	ClosingTime:    "17:00",
	LunchStartTime: "12:00",
	LunchEndTime:   "13:00",
}

func ts(h, m int) *time.Time {
	t := time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
	return &t
}

func TestDetermineSessionFirstClockIn(t *testing.T) {
	b := schedule.Compute(testCfg)

	// 09:00 = minute 540, before the 11:59 cutoff.
	got, err := DetermineSession(testCfg, b, 540, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != SessionMorning {
		t.Errorf("09:00 first clock-in = %s, want morning", got)
	}

	// Exactly the cutoff minute is still morning (inclusive).
	got, _ = DetermineSession(testCfg, b, b.MorningCutoff, nil)
	if got != SessionMorning {
		t.Errorf("cutoff minute = %s, want morning", got)
	}

	// One past the cutoff is afternoon.
	got, _ = DetermineSession(testCfg, b, b.MorningCutoff+1, nil)
	if got != SessionAfternoon {
		t.Errorf("cutoff+1 = %s, want afternoon", got)
	}
}

func TestDetermineSessionOpenSessionBlocks(t *testing.T) {
	b := schedule.Compute(testCfg)
	rec := &Record{MorningTimeIn: ts(8, 0)}

	_, err := DetermineSession(testCfg, b, 600, rec)
	if !errors.Is(err, ErrSessionOpen) {
		t.Fatalf("open morning session: err = %v, want ErrSessionOpen", err)
	}
}

func TestDetermineSessionAfternoonAfterMorning(t *testing.T) {
	b := schedule.Compute(testCfg)
	rec := &Record{MorningTimeIn: ts(8, 0), MorningTimeOut: ts(12, 0)}

	// Morning complete: afternoon regardless of the clock.
	got, err := DetermineSession(testCfg, b, 500, rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != SessionAfternoon {
		t.Errorf("after complete morning = %s, want afternoon", got)
	}
}

func TestDetermineSessionOvertime(t *testing.T) {
	b := schedule.Compute(testCfg)
	rec := &Record{
		MorningTimeIn: ts(8, 0), MorningTimeOut: ts(12, 0),
		AfternoonTimeIn: ts(13, 0), AfternoonTimeOut: ts(17, 0),
	}

	got, err := DetermineSession(testCfg, b, 1025, rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != SessionOvertime {
		t.Errorf("after complete afternoon = %s, want overtime", got)
	}

	rec.OvertimeTimeIn = ts(17, 5)
	if _, err := DetermineSession(testCfg, b, 1040, rec); !errors.Is(err, ErrSessionOpen) {
		t.Errorf("open overtime: err = %v, want ErrSessionOpen", err)
	}

	rec.OvertimeTimeOut = ts(18, 0)
	if _, err := DetermineSession(testCfg, b, 1100, rec); !errors.Is(err, ErrDayComplete) {
		t.Errorf("complete day: err = %v, want ErrDayComplete", err)
	}
}
