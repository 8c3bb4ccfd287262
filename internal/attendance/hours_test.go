package attendance

import (
	"testing"

	"practicum/internal/schedule"
)

func TestHoursWithLunchExclusion(t *testing.T) {
	// 08:00-12:00 and 13:00-17:00 is 8 hours; the lunch gap is never added.
	got := HoursWithLunchExclusion(ts(8, 0), ts(12, 0), ts(13, 0), ts(17, 0))
	if got != 8.0 {
		t.Errorf("full day = %v, want 8.0", got)
	}

	// Half day.
	got = HoursWithLunchExclusion(ts(8, 30), ts(12, 0), nil, nil)
	if got != 3.5 {
		t.Errorf("morning only = %v, want 3.5", got)
	}

	// Inverted pair clamps to zero instead of going negative.
	got = HoursWithLunchExclusion(ts(12, 0), ts(8, 0), ts(13, 0), ts(17, 0))
	if got != 4.0 {
		t.Errorf("inverted morning = %v, want 4.0", got)
	}

	if got = HoursWithLunchExclusion(nil, nil, nil, nil); got != 0 {
		t.Errorf("empty = %v, want 0", got)
	}
}

func TestExpectedHours(t *testing.T) {
	if got := ExpectedHours(testCfg); got != 8.0 {
		t.Errorf("8-17 with 1h lunch = %v, want 8.0", got)
	}
	// No configured times: 7 hour default day.
	if got := ExpectedHours(schedule.Config{}); got != 7.0 {
		t.Errorf("unconfigured = %v, want 7.0", got)
	}
	// Opening/closing set, lunch absent: 1 hour default lunch.
	cfg := schedule.Config{OpeningTime: "09:00", ClosingTime: "18:00"}
	if got := ExpectedHours(cfg); got != 8.0 {
		t.Errorf("9-18 default lunch = %v, want 8.0", got)
	}
	// Overnight shift: 22:00-06:00 minus default lunch.
	cfg = schedule.Config{OpeningTime: "22:00", ClosingTime: "06:00"}
	if got := ExpectedHours(cfg); got != 7.0 {
		t.Errorf("overnight = %v, want 7.0", got)
	}
}

func TestUndertimeHours(t *testing.T) {
	if got := UndertimeHours(testCfg, 6.5); got != 1.5 {
		t.Errorf("6.5 of 8 = %v, want 1.5", got)
	}
	if got := UndertimeHours(testCfg, 8.0); got != 0 {
		t.Errorf("full day = %v, want 0", got)
	}
	if got := UndertimeHours(testCfg, 9.0); got != 0 {
		t.Errorf("over full day = %v, want 0", got)
	}
}

func TestOvertimeHoursClamp(t *testing.T) {
	if got := OvertimeHours(ts(17, 0), ts(18, 30)); got != 1.5 {
		t.Errorf("1.5h overtime = %v, want 1.5", got)
	}
	if got := OvertimeHours(ts(17, 0), ts(20, 0)); got != 2.0 {
		t.Errorf("3h overtime = %v, want clamp to 2.0", got)
	}
	if got := OvertimeHours(nil, nil); got != 0 {
		t.Errorf("no overtime = %v, want 0", got)
	}
}
