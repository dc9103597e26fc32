package extract

import (
	"net/url"
	"strings"

	"github.com/ppiankov/truthcheck/internal/model"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Links returns the http(s) links in a references fragment, in document order, deduplicated by URL.
// Relative links are resolved against base when base is non-empty and dropped otherwise.
func Links(fragment, base string) ([]model.Reference, error) {
	doc, err := parseFragment(fragment)
	if err != nil {
		return nil, err
	}

	var baseURL *url.URL
	if base != "" {
		baseURL, err = url.Parse(base)
		if err != nil {
			return nil, err
		}
	}

	var refs []model.Reference
	var walk func(*html.Node)

	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := ""
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					href = strings.TrimSpace(attr.Val)
				}
			}

			if resolved := resolveURL(baseURL, href); resolved != "" {
				refs = append(refs, model.Reference{
					Label: strings.TrimSpace(textOf(n)),
					URL:   resolved,
				})
			}
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range doc {
		walk(n)
	}

	return dedupeLinks(refs), nil
}

// Text flattens a fragment to plain text: <br> becomes a newline, tags are dropped
func Text(fragment string) (string, error) {
	doc, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var walk func(*html.Node)

	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			b.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range doc {
		walk(n)
	}

	return strings.TrimSpace(b.String()), nil
}

func parseFragment(fragment string) ([]*html.Node, error) {
	parent := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	return html.ParseFragment(strings.NewReader(fragment), parent)
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textOf(c))
	}
	return b.String()
}

// resolveURL returns an absolute http(s) URL or "" when href is unusable
func resolveURL(base *url.URL, href string) string {
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	if !parsed.IsAbs() {
		if base == nil {
			return ""
		}
		parsed = base.ResolveReference(parsed)
	}

	// Only keep http/https URLs
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}

	return parsed.String()
}

func dedupeLinks(refs []model.Reference) []model.Reference {
	seen := make(map[string]bool)
	var unique []model.Reference

	for _, ref := range refs {
		if !seen[ref.URL] {
			seen[ref.URL] = true
			unique = append(unique, ref)
		}
	}

	return unique
}
