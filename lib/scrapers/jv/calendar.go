package jv

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"barman/lib/configutil"
	"barman/lib/scraper"
	"barman/lib/telemetry"
	"barman/lib/timezone"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("barman/lib/scrapers/jv")

const report_calendar_month = "calendar.month"

// Fetcher is implemented by fetch.Client.
type Fetcher interface {
	Fetch(ctx context.Context, url string, renderJS bool) (string, error)
}

// Calendar reads the monthly release listings. Every call builds its own
// walk state so concurrent calls share nothing.
type Calendar struct {
	fetcher  Fetcher
	base     *url.URL
	renderJS bool
	now      func() time.Time
	tel      telemetry.API
}

func NewCalendar(cfg configutil.ReleasesConfig, fetcher Fetcher, tel telemetry.API) (Calendar, error) {
	base := cfg.BaseURL
	if base == "" {
		base = SiteBase
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return Calendar{}, fmt.Errorf("parse base url: %w", err)
	}
	return Calendar{
		fetcher:  fetcher,
		base:     parsed,
		renderJS: cfg.FetchMode != "static",
		now:      timezone.Now,
		tel:      telemetry.NewScopedAPI("jv", tel),
	}, nil
}

// WithClock replaces the source of "now", used to resolve partial dates and
// the start of windows.
func (c Calendar) WithClock(now func() time.Time) Calendar {
	c.now = now
	return c
}

func (c Calendar) walker() scraper.Walker[Release] {
	extractor := Extractor{Base: c.base, Now: c.now, Tel: c.tel}
	return scraper.Walker[Release]{
		Fetch: func(ctx context.Context, u string) (string, error) {
			return c.fetcher.Fetch(ctx, u, c.renderJS)
		},
		Extract: extractor.Extract,
		Next:    NextPage,
	}
}

// FetchMonth returns every release listed for a month, across all pages,
// in page order. When a page fails the releases gathered before it are
// returned along with the error.
func (c Calendar) FetchMonth(ctx context.Context, month, year int, platform Platform) ([]Release, error) {
	ctx, span := tracer.Start(ctx, "FetchMonth")
	defer span.End()
	span.SetAttributes(
		attribute.Int("month", month),
		attribute.Int("year", year),
		attribute.String("platform", platform.Name),
	)

	start, err := GenerateURL(c.base.String(), month, year, platform)
	if err != nil {
		return nil, err
	}
	if platform.CoverageNote != "" {
		c.tel.ReportWarning(report_calendar_month, platform.Name, platform.CoverageNote)
	}

	releases, err := c.walker().Walk(ctx, start)
	c.tel.ReportDebug("fetched month", start, len(releases))
	return releases, err
}

// FetchWindow returns the releases of platform falling in window, fetching
// every month the window touches, sorted by date.
func (c Calendar) FetchWindow(ctx context.Context, platform Platform, window Window) ([]Release, error) {
	ctx, span := tracer.Start(ctx, "FetchWindow")
	defer span.End()

	today := timezone.Date(c.now())

	var all []Release
	var errs []error
	for _, my := range MonthsCovering(today, window) {
		releases, err := c.FetchMonth(ctx, my.Month, my.Year, platform)
		all = append(all, releases...)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			errs = append(errs, err)
		}
	}

	within := Within(all, window, today)
	SortByDate(within)
	span.SetAttributes(attribute.Int("releases", len(within)))
	return within, errors.Join(errs...)
}
