package jv

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestParseReleaseDate(t *testing.T) {
	now := time.Date(2025, time.October, 31, 15, 0, 0, 0, time.UTC)

	cases := []struct {
		text   string
		expect time.Time
	}{
		{text: "Sortie: 12 décembre 2025", expect: date(2025, time.December, 12)},
		{text: "Sortie : 12 décembre 2025", expect: date(2025, time.December, 12)},
		{text: "  Sortie :\n 4 septembre 2025 ", expect: date(2025, time.September, 4)},
		{text: "1er mars 2026", expect: date(2026, time.March, 1)},
		{text: "Sortie : 7 août 2026", expect: date(2026, time.August, 7)},
		{text: "Sortie : 3 févr. 2026", expect: date(2026, time.February, 3)},
		{text: "Sortie : 14 juil. 2026", expect: date(2026, time.July, 14)},
		{text: "Sortie : 2 juin 2026", expect: date(2026, time.June, 2)},
		{text: "12/12/2025", expect: date(2025, time.December, 12)},
		{text: "Sortie : 05/01/2026", expect: date(2026, time.January, 5)},
		// partial dates borrow the current day, clamped to the month
		{text: "Sortie : décembre 2025", expect: date(2025, time.December, 31)},
		{text: "Sortie : novembre 2025", expect: date(2025, time.November, 30)},
		{text: "Sortie : février 2026", expect: date(2026, time.February, 28)},
		{text: "Sortie : 2026", expect: date(2026, time.October, 31)},
		// unparseable
		{text: "Sortie : date inconnue", expect: SentinelDate},
		{text: "Sortie : 4ème trimestre 2025", expect: SentinelDate},
		{text: "31 février 2026", expect: SentinelDate},
		{text: "Sortie : 14 jui. 2026", expect: SentinelDate},
		{text: "Sortie : jui 2026", expect: SentinelDate},
		{text: "", expect: SentinelDate},
	}

	for _, test := range cases {
		got := ParseReleaseDate(test.text, now)
		if diff := cmp.Diff(test.expect, got); diff != "" {
			t.Errorf("%q: %s", test.text, diff)
		}
	}
}
