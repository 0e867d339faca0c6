package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("barman/lib/scraper")

// ErrEmptyResult is returned when the start page of a walk yields no
// markup at all.
var ErrEmptyResult = errors.New("start page returned nothing")

// Cursor tracks the page being walked and every page already seen.
type Cursor struct {
	visited map[string]struct{}
	current string
}

func NewCursor(start string) *Cursor {
	return &Cursor{
		visited: map[string]struct{}{start: {}},
		current: start,
	}
}

func (c *Cursor) Current() string {
	return c.current
}

func (c *Cursor) Visited() int {
	return len(c.visited)
}

// Advance moves to next, it returns false when next is empty or was
// already visited, which ends the walk.
func (c *Cursor) Advance(next string) bool {
	if next == "" {
		return false
	}
	if _, seen := c.visited[next]; seen {
		return false
	}
	c.visited[next] = struct{}{}
	c.current = next
	return true
}

// Walker follows "next page" links from a start url and accumulates the
// records found on every page. A Walker is not safe for concurrent use by
// multiple walks sharing state, but distinct Walk calls share nothing.
type Walker[T any] struct {
	// Fetch returns the markup of a page, an empty string ends the walk.
	Fetch func(ctx context.Context, url string) (string, error)
	// Extract pulls every record out of a page.
	Extract func(doc *goquery.Document) []T
	// Next returns the absolute url of the following page, if any.
	Next func(doc *goquery.Document, current *url.URL) (string, bool)
}

// Walk visits pages until there is no next link, the next link was already
// visited, or a page comes back empty. An empty start page is
// ErrEmptyResult. When a fetch fails, the records accumulated so far are
// returned together with the error.
func (w Walker[T]) Walk(ctx context.Context, start string) ([]T, error) {
	ctx, span := tracer.Start(ctx, "Walk")
	defer span.End()

	var records []T
	cursor := NewCursor(start)
	for {
		markup, err := w.Fetch(ctx, cursor.Current())
		if err != nil {
			return records, fmt.Errorf("walk %s: %w", cursor.Current(), err)
		}
		if strings.TrimSpace(markup) == "" {
			if cursor.Current() == start {
				return nil, fmt.Errorf("walk %s: %w", start, ErrEmptyResult)
			}
			break
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewBufferString(markup))
		if err != nil {
			return records, fmt.Errorf("parse %s: %w", cursor.Current(), err)
		}
		records = append(records, w.Extract(doc)...)

		current, err := url.Parse(cursor.Current())
		if err != nil {
			return records, err
		}
		next, ok := w.Next(doc, current)
		if !ok || !cursor.Advance(next) {
			break
		}
	}

	span.SetAttributes(
		attribute.Int("pages", cursor.Visited()),
		attribute.Int("records", len(records)),
	)
	return records, nil
}

// ResolveNext finds the first element matching selector and resolves its
// href against current.
func ResolveNext(doc *goquery.Document, current *url.URL, selector string) (string, bool) {
	href, ok := doc.Find(selector).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return "", false
	}
	next, err := current.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	return next.String(), true
}
