// Package readability extracts the main article content from a web page so
// the downloader can convert it to markdown without navigation chrome,
// comment widgets, and footers.
package readability

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Article is the readable core of a page.
type Article struct {
	Title       string
	ContentHTML string
	Text        string
}

var strippedSelectors = []string{
	"script", "style", "noscript", "iframe", "svg",
	"nav", "header", "footer", "aside", "form",
	"[role=navigation]", "[role=banner]", "[role=contentinfo]",
}

var candidateSelectors = []string{
	"article",
	"main",
	"[role=main]",
	"#content",
	".post-content",
	".entry-content",
	".article-body",
}

// Extract parses the page and returns its readable content. It falls back
// to the whole body when no content container stands out.
func Extract(htmlSrc string) (Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return Article{}, fmt.Errorf("parse html: %w", err)
	}

	title := extractTitle(doc)

	for _, sel := range strippedSelectors {
		doc.Find(sel).Remove()
	}

	content := findContent(doc)
	contentHTML, err := goquery.OuterHtml(content)
	if err != nil {
		return Article{}, fmt.Errorf("serialize content: %w", err)
	}

	text := collapseWhitespace(content.Text())
	if text == "" {
		// Pages with broken nesting can leave the selection empty even
		// though the raw markup carries text. Tokenize as a last resort.
		text = tokenizerText(htmlSrc)
	}

	return Article{
		Title:       title,
		ContentHTML: contentHTML,
		Text:        text,
	}, nil
}

func extractTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if trimmed := strings.TrimSpace(og); trimmed != "" {
			return trimmed
		}
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

func findContent(doc *goquery.Document) *goquery.Selection {
	body := doc.Find("body").First()
	best := body
	bestLen := 0
	for _, sel := range candidateSelectors {
		candidate := doc.Find(sel).First()
		if candidate.Length() == 0 {
			continue
		}
		length := len(strings.TrimSpace(candidate.Text()))
		if length > bestLen {
			best = candidate
			bestLen = length
		}
	}
	// A candidate that carries almost no text is chrome, not content.
	if bestLen < 100 && len(strings.TrimSpace(body.Text())) > bestLen {
		return body
	}
	return best
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// tokenizerText walks the raw token stream and collects text outside of
// script and style elements.
func tokenizerText(src string) string {
	tz := html.NewTokenizer(strings.NewReader(src))
	var parts []string
	skipDepth := 0
	for {
		switch tz.Next() {
		case html.ErrorToken:
			return collapseWhitespace(strings.Join(parts, " "))
		case html.StartTagToken:
			name, _ := tz.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tz.TagName()
			if tag := string(name); (tag == "script" || tag == "style") && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				parts = append(parts, string(tz.Text()))
			}
		}
	}
}
