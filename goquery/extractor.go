// Package goquery extracts content from saved HTML reference files.
// Unlike web pages fetched live, saved files keep their full page
// structure, so extraction strips scripts and styles rather than
// hunting for the main article element.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/carefacts/carefacts"
)

// Ensure Extractor implements carefacts.Extractor at compile time.
var _ carefacts.Extractor = (*Extractor)(nil)

// Extractor parses saved HTML files with goquery.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses a saved HTML file and returns its title and content.
// The title comes from the <title> element, falling back to the first
// <h1>. Script, style and noscript elements are removed.
func (e *Extractor) Extract(raw string) (*carefacts.ExtractResult, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, carefacts.Errorf(carefacts.EINVALID, "empty input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, carefacts.Errorf(carefacts.EINVALID, "parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, iframe").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	body := doc.Find("body")
	var contentHTML string
	if body.Length() > 0 {
		contentHTML, err = body.Html()
		if err != nil {
			return nil, err
		}
	}

	return &carefacts.ExtractResult{
		Title:       title,
		ContentHTML: contentHTML,
	}, nil
}
