package attendance

import (
	"testing"
	"time"

	"practicum/internal/schedule"
)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
}

func TestClockRemarks(t *testing.T) {
	cases := []struct {
		name      string
		cfg       schedule.Config
		at        time.Time
		session   Session
		isClockIn bool
		want      string
	}{
		{"morning in at 09:00 vs 08:00 opening", testCfg, at(9, 0), SessionMorning, true, RemarkLate},
		{"morning in on time", testCfg, at(7, 55), SessionMorning, true, RemarkNormal},
		{"morning in exactly at opening", testCfg, at(8, 0), SessionMorning, true, RemarkNormal},
		{"afternoon in after lunch end", testCfg, at(13, 10), SessionAfternoon, true, RemarkLate},
		{"afternoon in at lunch end", testCfg, at(13, 0), SessionAfternoon, true, RemarkNormal},
		{"morning out before lunch start", testCfg, at(11, 30), SessionMorning, false, RemarkEarlyDeparture},
		{"morning out at lunch start", testCfg, at(12, 0), SessionMorning, false, RemarkNormal},
		{"afternoon out before closing", testCfg, at(16, 30), SessionAfternoon, false, RemarkEarlyDeparture},
		{"afternoon out at closing", testCfg, at(17, 0), SessionAfternoon, false, RemarkNormal},
		{"overtime never penalized", testCfg, at(23, 0), SessionOvertime, false, RemarkNormal},
		{"no reference means normal", schedule.Config{}, at(9, 0), SessionMorning, true, RemarkNormal},
	}
	for _, c := range cases {
		if got := ClockRemarks(c.cfg, c.at, c.session, c.isClockIn); got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

func TestClockRemarksMidnightCrossover(t *testing.T) {
	// Night shift closing at 02:00. A 23:00 clock-out is before the shifted
	// closing (02:00 next day), so it counts as an early departure.
	cfg := schedule.Config{OpeningTime: "18:00", ClosingTime: "02:00"}
	if got := ClockRemarks(cfg, at(23, 0), SessionAfternoon, false); got != RemarkEarlyDeparture {
		t.Errorf("pre-midnight clock-out on a night shift = %q, want Early Departure", got)
	}

	// Lunch ending 01:00; a 22:00 clock-in is before the shifted reference
	// and therefore not late.
	cfg = schedule.Config{LunchStartTime: "23:30", LunchEndTime: "01:00"}
	if got := ClockRemarks(cfg, at(22, 0), SessionAfternoon, true); got != RemarkNormal {
		t.Errorf("pre-midnight afternoon clock-in = %q, want Normal", got)
	}
}
