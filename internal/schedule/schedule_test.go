package schedule

import "testing"

func TestParseTimeToMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"08:00", 480, true},
		{"8:30", 510, true},
		{"17:00:00", 1020, true},
		{"00:00", 0, true},
		{"23:59", 1439, true},
		{"12:00:59", 720, true},
		{"", 0, false},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"12.30", 0, false},
		{"12", 0, false},
		{"ab:cd", 0, false},
		{"12:3", 0, false},
		{"12:00:60", 0, false},
		{"-1:00", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseTimeToMinutes(c.in)
		if ok != c.ok {
			t.Errorf("ParseTimeToMinutes(%q): ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("ParseTimeToMinutes(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestComputeFullConfig(t *testing.T) {
	b := Compute(Config{
		OpeningTime:    "08:00",
		ClosingTime:    "17:00",
		LunchStartTime: "12:00",
		LunchEndTime:   "13:00",
	})
	if b.MorningCutoff != 719 {
		t.Errorf("MorningCutoff = %d, want 719", b.MorningCutoff)
	}
	if b.MorningBoundary != 720 {
		t.Errorf("MorningBoundary = %d, want 720", b.MorningBoundary)
	}
	if b.LunchWindowStart != 720 {
		t.Errorf("LunchWindowStart = %d, want 720", b.LunchWindowStart)
	}
	if b.LunchWindowEnd != 780 {
		t.Errorf("LunchWindowEnd = %d, want 780", b.LunchWindowEnd)
	}
	if b.AfternoonClockOutStart != 1020 {
		t.Errorf("AfternoonClockOutStart = %d, want 1020", b.AfternoonClockOutStart)
	}
	if b.AfternoonClockOutDeadline != 1080 {
		t.Errorf("AfternoonClockOutDeadline = %d, want 1080", b.AfternoonClockOutDeadline)
	}
}

func TestComputeEmptyConfigUsesDefaults(t *testing.T) {
	b := Compute(Config{})
	want := Boundaries{
		MorningCutoff:             659,
		MorningBoundary:           660,
		LunchWindowStart:          720,
		LunchWindowEnd:            779,
		AfternoonClockOutStart:    1020,
		AfternoonClockOutDeadline: 1080,
	}
	if b != want {
		t.Errorf("Compute(empty) = %+v, want %+v", b, want)
	}
}

func TestComputeOpeningOnlyCutoff(t *testing.T) {
	// No lunch start: cutoff falls back to opening + 2h.
	b := Compute(Config{OpeningTime: "09:00"})
	if b.MorningCutoff != 660 {
		t.Errorf("MorningCutoff = %d, want 660", b.MorningCutoff)
	}
}

func TestComputeLateClosingRaisesDeadline(t *testing.T) {
	b := Compute(Config{OpeningTime: "10:00", ClosingTime: "19:00"})
	if b.AfternoonClockOutStart != 1140 {
		t.Errorf("AfternoonClockOutStart = %d, want 1140", b.AfternoonClockOutStart)
	}
	// 19:00 + 1h is past the 18:00 floor.
	if b.AfternoonClockOutDeadline != 1200 {
		t.Errorf("AfternoonClockOutDeadline = %d, want 1200", b.AfternoonClockOutDeadline)
	}
}

func TestComputeEarlyClosingFloorsDeadline(t *testing.T) {
	b := Compute(Config{OpeningTime: "08:00", ClosingTime: "15:00"})
	if b.AfternoonClockOutDeadline != 1080 {
		t.Errorf("AfternoonClockOutDeadline = %d, want 1080 (floor)", b.AfternoonClockOutDeadline)
	}
}

func TestComputeMidnightCrossoverAccepted(t *testing.T) {
	old := Warnf
	warned := false
	Warnf = func(format string, args ...any) { warned = true }
	defer func() { Warnf = old }()

	// Night shift: opens 22:00, closes 04:00 next day. Valid ordering.
	b := Compute(Config{OpeningTime: "22:00", ClosingTime: "04:00"})
	if warned {
		t.Error("midnight crossover pair was flagged as invalid")
	}
	if b.AfternoonClockOutStart != 240 {
		t.Errorf("AfternoonClockOutStart = %d, want 240", b.AfternoonClockOutStart)
	}
}

func TestComputeInvalidPairDegradesToDefaults(t *testing.T) {
	old := Warnf
	var warnings int
	Warnf = func(format string, args ...any) { warnings++ }
	defer func() { Warnf = old }()

	// Closing before opening without the crossover shape: invalid.
	b := Compute(Config{OpeningTime: "14:00", ClosingTime: "09:00"})
	if warnings == 0 {
		t.Error("expected a warning for out-of-order opening/closing")
	}
	if b.AfternoonClockOutStart != 1020 || b.AfternoonClockOutDeadline != 1080 {
		t.Errorf("invalid pair did not degrade to defaults: %+v", b)
	}
}

func TestComputeMalformedValueDegrades(t *testing.T) {
	old := Warnf
	Warnf = func(format string, args ...any) {}
	defer func() { Warnf = old }()

	b := Compute(Config{LunchStartTime: "noon", LunchEndTime: "13:00"})
	if b.MorningCutoff != 659 {
		t.Errorf("MorningCutoff = %d, want default 659", b.MorningCutoff)
	}
	if b.LunchWindowStart != 720 {
		t.Errorf("LunchWindowStart = %d, want default 720", b.LunchWindowStart)
	}
	// The parseable half is still honored.
	if b.LunchWindowEnd != 780 {
		t.Errorf("LunchWindowEnd = %d, want 780", b.LunchWindowEnd)
	}
}
