// Package trafilatura extracts main content from scraped web pages,
// removing navigation, footers and other boilerplate.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/carefacts/carefacts"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements carefacts.Extractor at compile time.
var _ carefacts.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from web pages.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content. The title comes
// from page metadata; the content HTML has boilerplate removed.
func (e *Extractor) Extract(raw string) (*carefacts.ExtractResult, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, carefacts.Errorf(carefacts.EINVALID, "empty input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(raw), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &carefacts.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
