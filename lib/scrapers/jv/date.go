package jv

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"barman/lib/textutil"
)

var frenchMonths = []string{
	"janvier",
	"fevrier",
	"mars",
	"avril",
	"mai",
	"juin",
	"juillet",
	"aout",
	"septembre",
	"octobre",
	"novembre",
	"decembre",
}

// parseMonth accepts a month name or an abbreviation of at least three
// letters that names a single month, "jui" is neither juin nor juillet.
func parseMonth(text string) time.Month {
	text = strings.TrimSuffix(text, ".")
	if len(text) < 3 {
		return 0
	}
	var found time.Month
	for i, month := range frenchMonths {
		if !strings.HasPrefix(month, text) {
			continue
		}
		if found != 0 {
			return 0
		}
		found = time.January + time.Month(i)
	}
	return found
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December {
		return time.Time{}, false
	}
	if day < 1 || day > daysIn(month, year) {
		return time.Time{}, false
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

var (
	prefixRegex       = regexp.MustCompile(`^\s*sortie\s*:\s*`)
	dayMonthYearRegex = regexp.MustCompile(`^(\d{1,2})(?:er)?\s+([a-z]+\.?)\s+(\d{4})$`)
	numericRegex      = regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})$`)
	monthYearRegex    = regexp.MustCompile(`^([a-z]+\.?)\s+(\d{4})$`)
	yearRegex         = regexp.MustCompile(`^(\d{4})$`)
)

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// ParseReleaseDate resolves the free text of a listing ("Sortie : 12
// décembre 2025") into a UTC midnight date. Partial dates borrow the
// missing day or month from now, clamped to the month length. Text that
// cannot be understood resolves to SentinelDate.
func ParseReleaseDate(text string, now time.Time) time.Time {
	text = textutil.FoldAccents(text)
	text = strings.ReplaceAll(text, " ", " ")
	text = prefixRegex.ReplaceAllString(text, "")
	text = strings.Join(strings.Fields(text), " ")

	if m := dayMonthYearRegex.FindStringSubmatch(text); m != nil {
		date, ok := makeDate(atoi(m[3]), parseMonth(m[2]), atoi(m[1]))
		if ok {
			return date
		}
		return SentinelDate
	}
	if m := numericRegex.FindStringSubmatch(text); m != nil {
		date, ok := makeDate(atoi(m[3]), time.Month(atoi(m[2])), atoi(m[1]))
		if ok {
			return date
		}
		return SentinelDate
	}
	if m := monthYearRegex.FindStringSubmatch(text); m != nil {
		year := atoi(m[2])
		month := parseMonth(m[1])
		if month == 0 {
			return SentinelDate
		}
		day := min(now.Day(), daysIn(month, year))
		date, _ := makeDate(year, month, day)
		return date
	}
	if m := yearRegex.FindStringSubmatch(text); m != nil {
		year := atoi(m[1])
		day := min(now.Day(), daysIn(now.Month(), year))
		date, _ := makeDate(year, now.Month(), day)
		return date
	}
	return SentinelDate
}
