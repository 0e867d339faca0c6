package jv

import (
	"fmt"
	"strings"
	"time"

	"barman/lib/timezone"
)

// Window is a named span of calendar days starting today.
type Window int

const (
	Day Window = iota
	Week
	Month
	Quarter
)

var Windows = []Window{Day, Week, Month, Quarter}

func (w Window) Days() int {
	switch w {
	case Day:
		return 1
	case Week:
		return 7
	case Month:
		return 31
	case Quarter:
		return 91
	}
	return 0
}

func (w Window) String() string {
	switch w {
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	case Quarter:
		return "quarter"
	}
	return fmt.Sprintf("window(%d)", int(w))
}

// Title is the heading of a listing for this window.
func (w Window) Title() string {
	return fmt.Sprintf("Releases of the %s", w.String())
}

func ParseWindow(s string) (Window, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, w := range Windows {
		if w.String() == s {
			return w, nil
		}
	}
	switch s {
	case "jour":
		return Day, nil
	case "semaine":
		return Week, nil
	case "mois":
		return Month, nil
	case "trimestre":
		return Quarter, nil
	}
	return 0, fmt.Errorf("%w: unknown window %q", ErrInvalidArgument, s)
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween counts calendar days from a to b, the clock of either is
// ignored.
func DaysBetween(a, b time.Time) int {
	return int((timezone.Date(b).Unix() - timezone.Date(a).Unix()) / secondsPerDay)
}

// Within keeps the releases dated from today up to the end of the window,
// inclusive. Past releases and sentinel dates are dropped.
func Within(releases []Release, window Window, today time.Time) []Release {
	var out []Release
	for _, r := range releases {
		if r.Date.Equal(SentinelDate) {
			continue
		}
		days := DaysBetween(today, r.Date)
		if days >= 0 && days <= window.Days() {
			out = append(out, r)
		}
	}
	return out
}

// MonthYear is one page of the release calendar.
type MonthYear struct {
	Month int
	Year  int
}

// MonthsCovering lists every calendar month a window starting today
// touches, today's month first.
func MonthsCovering(today time.Time, window Window) []MonthYear {
	end := today.AddDate(0, 0, window.Days())
	month, year := int(today.Month()), today.Year()
	months := []MonthYear{{Month: month, Year: year}}
	for year < end.Year() || (year == end.Year() && month < int(end.Month())) {
		month, year = NextMonth(month, year)
		months = append(months, MonthYear{Month: month, Year: year})
	}
	return months
}
