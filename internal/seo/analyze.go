package seo

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PageAnalysis holds the on-page checks for one HTML document.
type PageAnalysis struct {
	Status          int
	SizeKB          float64
	HasTitle        bool
	HasDescription  bool
	H1Count         int
	Images          int
	ImagesWithAlt   int
	HasSchema       bool
	Links           int
	InternalLinks   int
	MentionsSitemap bool
	Keywords        []KeywordCount
}

// KeywordCount is how often a keyword occurs in the body text.
type KeywordCount struct {
	Keyword string
	Count   int
}

// AnalyzePage parses body and runs the on-page checks. pageURL resolves
// relative links when counting internal ones.
func AnalyzePage(pageURL string, status int, body []byte, keywords []string) (PageAnalysis, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return PageAnalysis{}, fmt.Errorf("parse html: %w", err)
	}

	base, _ := url.Parse(pageURL)
	a := PageAnalysis{
		Status:          status,
		SizeKB:          float64(len(body)) / 1024,
		MentionsSitemap: bytes.Contains(body, []byte("sitemap.xml")),
	}

	var text strings.Builder
	var walk func(n *html.Node, inBody bool)
	walk = func(n *html.Node, inBody bool) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Body:
				inBody = true
			case atom.Title:
				if strings.TrimSpace(textOf(n)) != "" {
					a.HasTitle = true
				}
			case atom.Meta:
				if strings.EqualFold(attr(n, "name"), "description") && strings.TrimSpace(attr(n, "content")) != "" {
					a.HasDescription = true
				}
			case atom.H1:
				a.H1Count++
			case atom.Img:
				a.Images++
				if hasAttr(n, "alt") {
					a.ImagesWithAlt++
				}
			case atom.Script:
				if strings.Contains(textOf(n), "schema.org") {
					a.HasSchema = true
				}
				return
			case atom.Style:
				return
			case atom.A:
				if href := attr(n, "href"); href != "" {
					a.Links++
					if isInternal(base, href) {
						a.InternalLinks++
					}
				}
			}
			if strings.Contains(attr(n, "itemtype"), "schema.org") {
				a.HasSchema = true
			}
		}
		if n.Type == html.TextNode && inBody {
			text.WriteString(n.Data)
			text.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inBody)
		}
	}
	walk(doc, false)

	bodyText := strings.ToLower(text.String())
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		a.Keywords = append(a.Keywords, KeywordCount{Keyword: k, Count: strings.Count(bodyText, strings.ToLower(k))})
	}
	return a, nil
}

func attr(n *html.Node, key string) string {
	for _, at := range n.Attr {
		if strings.EqualFold(at.Key, key) {
			return at.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, at := range n.Attr {
		if strings.EqualFold(at.Key, key) {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// isInternal reports whether href points at the page's own host.
func isInternal(base *url.URL, href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == "" {
		return true
	}
	return base != nil && strings.EqualFold(u.Host, base.Host)
}
