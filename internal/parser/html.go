package parser

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nao1215/webcrawler/internal/crawler"
	"github.com/nao1215/webcrawler/internal/model"
)

// Extract parses an HTML document and returns its links and word counts.
// Relative links are resolved against base. Words matching ignored are
// not counted.
//
// Design decision: We use golang.org/x/net/html for parsing rather than
// regex because:
//  1. It correctly handles malformed HTML common on the web
//  2. It tells us which text is inside script and style elements
//  3. Entities are decoded before words are counted
func Extract(base *url.URL, r io.Reader, ignored *crawler.IgnoreRules) (*model.PageResult, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	page := model.NewPageResult()
	seen := make(map[string]struct{})
	counter := newWordCounter(ignored)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if isInvisible(n) {
				return
			}
			if n.DataAtom == atom.A {
				if link := resolveURL(base, getAttr(n, "href")); link != "" {
					if _, dup := seen[link]; !dup {
						seen[link] = struct{}{}
						page.Links = append(page.Links, link)
					}
				}
			}
		case html.TextNode:
			counter.count(n.Data, page.WordCounts)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return page, nil
}

// isInvisible reports whether an element's text is never rendered.
func isInvisible(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Template:
		return true
	default:
		return false
	}
}

// resolveURL resolves href against base and strips the fragment.
// It returns "" for links that cannot be crawled.
//
// Design decision: We strip fragments because "page#a" and "page#b" are the
// same document; keeping them would defeat deduplication in the visited set.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}

	lower := strings.ToLower(href)
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, prefix) {
			return ""
		}
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(u)
	switch resolved.Scheme {
	case "http", "https", "file":
	default:
		return ""
	}
	resolved.Fragment = ""
	resolved.RawFragment = ""
	return resolved.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
