package jv

import (
	"fmt"
	"net/url"
	"slices"
	"time"
)

const (
	SiteBase   = "https://www.jeuxvideo.com"
	NoPlatform = "no platform"
)

// SentinelDate stands in for release dates that could not be parsed, it
// sorts after every real date and is outside every window.
var SentinelDate = time.Date(3000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Release is one entry of the release calendar, built once during
// extraction and never mutated afterwards.
type Release struct {
	Name        string
	ReleaseText string
	// NoPlatform when the listing has no platform line.
	Platforms string
	// always absolute
	URL  string
	Date time.Time
}

func (r Release) HasPlatform() bool {
	return r.Platforms != NoPlatform
}

func (r Release) String() string {
	if r.HasPlatform() {
		return fmt.Sprintf("%s\n%s\nPlatforms: %s\n%s", r.Name, r.ReleaseText, r.Platforms, r.URL)
	}
	return fmt.Sprintf("%s\n%s\n%s", r.Name, r.ReleaseText, r.URL)
}

// absoluteURL resolves a partial href against base, an empty href yields
// base itself.
func absoluteURL(base *url.URL, href string) string {
	if href == "" {
		return base.String()
	}
	resolved, err := base.Parse(href)
	if err != nil {
		return base.String()
	}
	return resolved.String()
}

// SortByDate orders releases chronologically, sentinel dates last, keeping
// page order between releases of the same day.
func SortByDate(releases []Release) {
	slices.SortStableFunc(releases, func(a, b Release) int {
		return a.Date.Compare(b.Date)
	})
}
