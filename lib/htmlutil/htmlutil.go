package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText collapses whitespace runs and strips unprintable runes.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = removeNonPrintable(s)
	s = strings.TrimSpace(s)
	return innerWhitespace.ReplaceAllString(s, " ")
}

// Field locates a value inside a selection, ok is false when the
// element it looks for is absent.
type Field func(sel *goquery.Selection) (value string, ok bool)

// Text reads the cleaned text of the first element matching selector,
// excluding descendants that match any of the skip selectors.
func Text(selector string, skip ...string) Field {
	return func(sel *goquery.Selection) (string, bool) {
		found := sel.Find(selector).First()
		if found.Length() == 0 {
			return "", false
		}
		if len(skip) > 0 {
			found = found.Clone()
			for _, s := range skip {
				found.Find(s).Remove()
			}
		}
		return CleanText(GetText(found.Get(0))), true
	}
}

// Attr reads an attribute of the first element matching selector.
func Attr(selector, attr string) Field {
	return func(sel *goquery.Selection) (string, bool) {
		found := sel.Find(selector).First()
		if found.Length() == 0 {
			return "", false
		}
		return found.Attr(attr)
	}
}
