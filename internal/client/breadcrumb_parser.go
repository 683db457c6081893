package client

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// FindMarker returns the outer HTML of the first element matching selector
func FindMarker(page, selector string) (string, bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", false, fmt.Errorf("failed to parse HTML: %w", err)
	}

	marker := doc.Find(selector).First()
	if marker.Length() == 0 {
		return "", false, nil
	}

	outer, err := goquery.OuterHtml(marker)
	if err != nil {
		return "", false, fmt.Errorf("failed to render marker: %w", err)
	}

	return outer, true, nil
}

// ExtractBreadcrumbText flattens a breadcrumb fragment into its text: every text node is
// trimmed, empty ones dropped, and the rest joined with single spaces.
func ExtractBreadcrumbText(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to parse breadcrumb HTML: %w", err)
	}

	var parts []string
	for _, node := range doc.Find("body").Nodes {
		collectText(node, &parts)
	}

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " "), nil
}

func collectText(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			*parts = append(*parts, text)
		}
		return
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}
