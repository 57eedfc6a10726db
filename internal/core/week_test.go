package core

import (
	"testing"
	"time"
	_ "time/tzdata"
)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 30, 0, 0, time.UTC)
}

func TestWeekStart(t *testing.T) {
	monday := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday morning", day(2025, time.January, 6, 9), monday},
		{"wednesday", day(2025, time.January, 8, 18), monday},
		{"saturday", day(2025, time.January, 11, 23), monday},
		{"sunday belongs to previous monday", day(2025, time.January, 12, 12), monday},
		{"crosses month", day(2025, time.March, 2, 10), time.Date(2025, time.February, 24, 0, 0, 0, 0, time.UTC)},
		{"crosses year", day(2026, time.January, 1, 10), time.Date(2025, time.December, 29, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekStart(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("WeekStart(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWeekStartAlwaysMondayMidnight(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 24*400; h += 7 {
		d := start.Add(time.Duration(h) * time.Hour)
		ws := WeekStart(d)
		if ws.Weekday() != time.Monday {
			t.Fatalf("WeekStart(%v) = %v is a %v", d, ws, ws.Weekday())
		}
		if ws.Hour() != 0 || ws.Minute() != 0 || ws.Second() != 0 || ws.Nanosecond() != 0 {
			t.Fatalf("WeekStart(%v) = %v is not midnight", d, ws)
		}
		if ws.After(d) || d.Sub(ws) >= 7*24*time.Hour {
			t.Fatalf("WeekStart(%v) = %v does not contain the date", d, ws)
		}
	}
}

func TestCurrentWeekAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	// Clocks jump forward on Sunday 2025-03-09.
	w := CurrentWeek(time.Date(2025, time.March, 5, 12, 0, 0, 0, ny))
	if w.Start.Hour() != 0 || w.End.Hour() != 0 {
		t.Fatalf("window bounds should be local midnights: %v - %v", w.Start, w.End)
	}
	if got := w.End.Sub(w.Start); got != 167*time.Hour {
		t.Fatalf("DST week length = %v, want 167h", got)
	}
	if w.End.Weekday() != time.Monday || w.End.Day() != 10 {
		t.Fatalf("window end = %v, want Monday March 10", w.End)
	}
}

func TestWeekWindowContainsIsHalfOpen(t *testing.T) {
	w := CurrentWeek(day(2025, time.January, 8, 12))
	if !w.Contains(w.Start) {
		t.Errorf("window should contain its start")
	}
	if w.Contains(w.End) {
		t.Errorf("window must not contain its end")
	}
	if !w.Contains(w.End.Add(-time.Nanosecond)) {
		t.Errorf("window should contain the instant before end")
	}
	if w.Contains(w.Start.Add(-time.Nanosecond)) {
		t.Errorf("window must not contain the instant before start")
	}
}

func TestDaysRemainingInWeek(t *testing.T) {
	tests := []struct {
		in   time.Time
		want int
	}{
		{day(2025, time.January, 6, 0), 7},  // Monday
		{day(2025, time.January, 7, 23), 6}, // Tuesday
		{day(2025, time.January, 8, 12), 5}, // Wednesday
		{day(2025, time.January, 11, 1), 2}, // Saturday
		{day(2025, time.January, 12, 8), 1}, // Sunday
	}
	for _, tt := range tests {
		if got := DaysRemainingInWeek(tt.in); got != tt.want {
			t.Errorf("DaysRemainingInWeek(%v) = %d, want %d", tt.in.Weekday(), got, tt.want)
		}
	}
}

func TestCurrentWeekKey(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want WeekKey
	}{
		{"first week", day(2025, time.January, 8, 12), "2025-W1"},
		{"second week", day(2025, time.January, 13, 12), "2025-W2"},
		{"sunday shares monday key", day(2025, time.January, 19, 12), "2025-W2"},
		{"year taken from week start", day(2026, time.January, 1, 12), "2025-W5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentWeekKey(tt.in); got != tt.want {
				t.Errorf("CurrentWeekKey(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCurrentWeekKeyResetsMonthly(t *testing.T) {
	// The key is a coarse token: the first Monday of two different months
	// produces the same value.
	sep := CurrentWeekKey(day(2025, time.September, 1, 12))
	oct := CurrentWeekKey(day(2025, time.October, 6, 12))
	if sep != oct {
		t.Fatalf("expected monthly reset, got %q and %q", sep, oct)
	}
	if a, b := CurrentWeekKey(day(2025, time.September, 1, 12)), CurrentWeekKey(day(2025, time.September, 8, 12)); a == b {
		t.Fatalf("consecutive weeks must differ, both %q", a)
	}
}

func TestResetDayName(t *testing.T) {
	dates := []time.Time{
		day(2025, time.September, 7, 23),
		day(2025, time.September, 8, 0),
		day(2025, time.September, 10, 12),
	}
	for _, d := range dates {
		if got := ResetDayName(d); got != "Monday" {
			t.Fatalf("ResetDayName(%s) = %q, want Monday", d.Format(time.DateTime), got)
		}
	}
}
