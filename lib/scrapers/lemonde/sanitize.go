package lemonde

import (
	"bytes"
	"strings"

	"barman/lib/configutil"
	"barman/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

const report_sanitize = "sanitize"

// Sanitizer strips page furniture out of an article fragment and rewrites
// lazy images so the renderer sees real sources.
type Sanitizer struct {
	bloat   []string
	markers []string
	policy  *bluemonday.Policy
	tel     telemetry.API
}

func NewSanitizer(cfg configutil.LemondeConfig, tel telemetry.API) Sanitizer {
	policy := bluemonday.UGCPolicy()
	// selectors still need classes after sanitizing
	policy.AllowAttrs("class").Globally()
	policy.RequireNoFollowOnLinks(false)
	// lazy images keep their placeholder and candidates when no source is picked
	policy.AllowDataURIImages()
	policy.AllowElements("picture", "source")
	policy.AllowAttrs("data-srcset", "srcset", "sizes").OnElements("img", "source")
	policy.AllowAttrs("media", "type").OnElements("source")

	return Sanitizer{
		bloat:   cfg.BloatSelectors,
		markers: cfg.SrcsetMarkers,
		policy:  policy,
		tel:     telemetry.NewScopedAPI("lemonde", tel),
	}
}

func parseFragment(fragment string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewBufferString(fragment))
}

func bodyHTML(doc *goquery.Document) (string, error) {
	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Html()
	}
	return body.Html()
}

// Sanitize removes every bloat selector in order, picks image sources out
// of data-srcset, then passes the fragment through the html policy.
// Sanitizing an already sanitized fragment changes nothing.
func (s Sanitizer) Sanitize(fragment string) (string, error) {
	doc, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}

	for _, selector := range s.bloat {
		found := doc.Find(selector)
		if found.Length() == 0 {
			continue
		}
		s.tel.ReportDebug("removing bloat", selector, found.Length())
		found.Remove()
	}

	doc.Find("img[data-srcset]").Each(func(_ int, img *goquery.Selection) {
		srcset, _ := img.Attr("data-srcset")
		src, ok := pickSource(srcset, s.markers)
		if !ok {
			s.tel.ReportWarning(report_sanitize, "no usable srcset candidate", srcset)
			return
		}
		img.SetAttr("src", src)
	})

	out, err := bodyHTML(doc)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s.policy.Sanitize(out)), nil
}

// pickSource returns the url of the last srcset candidate whose descriptor
// contains one of the markers.
func pickSource(srcset string, markers []string) (string, bool) {
	var found string
	for _, candidate := range strings.Split(srcset, ",") {
		for _, marker := range markers {
			if !strings.Contains(candidate, marker) {
				continue
			}
			fields := strings.Fields(candidate)
			if len(fields) > 0 {
				found = fields[0]
			}
			break
		}
	}
	return found, found != ""
}

// Strip removes every element matching selectors, used when the renderer
// chokes on embedded media.
func (s Sanitizer) Strip(fragment string, selectors ...string) (string, error) {
	doc, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}
	for _, selector := range selectors {
		doc.Find(selector).Remove()
	}
	out, err := bodyHTML(doc)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
