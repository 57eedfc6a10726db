package core

import (
	"fmt"
	"time"
)

type (
	// WeekKey identifies a calendar week for dismissal tracking only.
	//
	// The index restarts every month ("{year}-W{ceil(mondayDay/7)}"), so it is
	// not an ISO-8601 week number. Compare keys for equality; never do
	// arithmetic on them.
	WeekKey string

	// WeekWindow is the half-open interval [Start, End).
	WeekWindow struct {
		Start time.Time
		End   time.Time
	}
)

// WeekStart returns Monday at midnight of the week containing date, in the
// location of date.
func WeekStart(date time.Time) time.Time {
	day := int(date.Weekday())
	offset := 1 - day
	if day == 0 {
		offset = -6
	}
	y, m, d := date.Date()
	return time.Date(y, m, d+offset, 0, 0, 0, 0, date.Location())
}

// CurrentWeek returns the week window around date. End is the following
// Monday at midnight, which is not always 168 hours later across DST.
func CurrentWeek(date time.Time) WeekWindow {
	start := WeekStart(date)
	return WeekWindow{Start: start, End: start.AddDate(0, 0, 7)}
}

// Contains reports whether t falls inside [Start, End).
func (w WeekWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// DaysRemainingInWeek counts today plus the days left through Sunday, in
// [1,7]. Time of day is ignored.
func DaysRemainingInWeek(date time.Time) int {
	day := int(date.Weekday())
	if day == 0 {
		return 1
	}
	return 8 - day
}

// CurrentWeekKey returns the dismissal token for the week containing date.
func CurrentWeekKey(date time.Time) WeekKey {
	start := WeekStart(date)
	return WeekKey(fmt.Sprintf("%d-W%d", start.Year(), (start.Day()+6)/7))
}

// ResetDayName is the weekday the budget week containing date resets on.
func ResetDayName(date time.Time) string {
	return WeekStart(date).Weekday().String()
}
