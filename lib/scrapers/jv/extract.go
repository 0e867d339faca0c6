package jv

import (
	"net/url"
	"strings"
	"time"

	"barman/lib/htmlutil"
	"barman/lib/scraper"
	"barman/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_extract_item  = "extract.item"
	report_extract_page  = "extract.page"
	report_extract_title = "extract.title"
)

const (
	itemSelector = "div[class*='gameMetadata']"
	nextSelector = ".pagination__button--next"
)

var (
	titleField     = htmlutil.Text("a[class*='gameTitleLink']", "em")
	releaseField   = htmlutil.Text("span[class*='releaseDate']")
	platformsField = htmlutil.Text("div.cardGameList__gamePlatforms")
	hrefField      = htmlutil.Attr("a.cardGameList__gameTitleLink", "href")
)

// Extractor turns one listing page into releases. Items are isolated from
// each other: a malformed item is reported and skipped, it never costs the
// rest of the page.
type Extractor struct {
	Base *url.URL
	Now  func() time.Time
	Tel  telemetry.API
}

func (e Extractor) Extract(doc *goquery.Document) []Release {
	now := e.Now()
	var releases []Release
	items := doc.Find(itemSelector)
	items.Each(func(i int, item *goquery.Selection) {
		release, ok := e.extractItem(i, item, now)
		if ok {
			releases = append(releases, release)
		}
	})
	if items.Length() == 0 {
		e.Tel.ReportDebug("page has no release items")
	}
	e.Tel.ReportCount(report_extract_page, int64(len(releases)))
	return releases
}

func (e Extractor) extractItem(index int, item *goquery.Selection, now time.Time) (Release, bool) {
	releaseText, ok := releaseField(item)
	if !ok {
		e.Tel.ReportWarning(report_extract_item, "missing release date", index)
		return Release{}, false
	}

	name, ok := titleField(item)
	if !ok {
		e.Tel.ReportWarning(report_extract_title, "missing title", index)
	}

	platforms, ok := platformsField(item)
	if !ok || platforms == "" {
		platforms = NoPlatform
	}

	href, _ := hrefField(item)
	return Release{
		Name:        name,
		ReleaseText: releaseText,
		Platforms:   platforms,
		URL:         absoluteURL(e.Base, strings.TrimSpace(href)),
		Date:        ParseReleaseDate(releaseText, now),
	}, true
}

// NextPage returns the absolute url of the "next page" button, if any.
func NextPage(doc *goquery.Document, current *url.URL) (string, bool) {
	return scraper.ResolveNext(doc, current, nextSelector)
}
