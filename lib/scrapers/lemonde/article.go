package lemonde

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"barman/lib/render"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// ErrEmptyResult means the fetch succeeded but nothing usable came back.
var ErrEmptyResult = errors.New("empty result")

// Article is a fetched page together with the way it should be printed.
type Article struct {
	Markup  string
	Profile render.Profile
}

// ExtractContent returns the article element of the page as markup. When
// the page layout is not recognized, a readability extraction is used
// instead.
func ExtractContent(markup, selector, pageURL string) (string, error) {
	if strings.TrimSpace(markup) == "" {
		return "", ErrEmptyResult
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBufferString(markup))
	if err != nil {
		return "", err
	}
	content := doc.Find(selector).First()
	if content.Length() > 0 {
		out, err := goquery.OuterHtml(content)
		if err != nil {
			return "", err
		}
		return out, nil
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}
	article, err := readability.FromReader(strings.NewReader(markup), parsed)
	if err != nil || strings.TrimSpace(article.TextContent) == "" {
		return "", ErrEmptyResult
	}
	return article.Content, nil
}
