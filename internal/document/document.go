// Package document extracts the title, visible text and outgoing links of an HTML page.
package document

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/search-engine/pkg/utils"
	"golang.org/x/net/html"
)

// Document is a parsed HTML page.
type Document struct {
	title string
	text  string
	hrefs []string
}

// Parse parses raw HTML. Malformed markup is tolerated the way browsers tolerate it.
func Parse(raw string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, err
	}

	d := &Document{}

	d.title = collapse(doc.Find("title").First().Text())
	if d.title == "" {
		d.title = collapse(doc.Find("h1").First().Text())
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href = strings.TrimSpace(href); href != "" {
			d.hrefs = append(d.hrefs, href)
		}
	})

	doc.Find("script, style, noscript, template").Remove()
	var sb strings.Builder
	for _, n := range doc.Find("body").Nodes {
		writeText(&sb, n)
	}
	d.text = collapse(sb.String())

	return d, nil
}

// Title returns the page title, falling back to the first h1.
func (d *Document) Title() string { return d.title }

// Text returns the visible body text with whitespace collapsed.
func (d *Document) Text() string { return d.text }

// Links resolves every anchor href against base and returns them in document order.
// Unparseable hrefs are skipped.
func (d *Document) Links(base *url.URL) []string {
	links := make([]string, 0, len(d.hrefs))
	for _, href := range d.hrefs {
		abs, err := utils.ToAbsoluteURL(base, href)
		if err != nil {
			continue
		}
		links = append(links, abs)
	}
	return links
}

var inline = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "cite": true, "code": true,
	"em": true, "font": true, "i": true, "kbd": true, "label": true, "mark": true,
	"q": true, "s": true, "small": true, "span": true, "strong": true, "sub": true,
	"sup": true, "time": true, "u": true,
}

// writeText appends text nodes, padding non-inline elements with spaces so that
// adjacent blocks do not glue words together.
func writeText(sb *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	pad := n.Type == html.ElementNode && !inline[n.Data]
	if pad {
		sb.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
	}
	if pad {
		sb.WriteByte(' ')
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
