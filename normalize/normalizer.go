// Package normalize converts raw source input into canonical plain text with
// derived title and summary metadata. Markup handling is delegated to
// Extractor and Converter collaborators; this package owns content-type
// dispatch, whitespace canonicalization, and summary derivation.
package normalize

import (
	"strings"
	"unicode"

	"github.com/carefacts/carefacts"
)

// DefaultSummaryLength is the maximum summary length in runes.
const DefaultSummaryLength = 280

// Ensure Normalizer implements carefacts.Normalizer at compile time.
var _ carefacts.Normalizer = (*Normalizer)(nil)

// Normalizer is a deterministic raw-input → NormalizedDoc transform.
type Normalizer struct {
	extractors map[carefacts.ContentType]carefacts.Extractor
	converter  carefacts.Converter
	summaryLen int
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithSummaryLength overrides the maximum summary length.
func WithSummaryLength(n int) Option {
	return func(nm *Normalizer) { nm.summaryLen = n }
}

// New creates a Normalizer. The webpage extractor handles scraped pages, the
// file extractor handles local reference files; manual input bypasses
// extraction entirely.
func New(webpage, file carefacts.Extractor, converter carefacts.Converter, opts ...Option) *Normalizer {
	n := &Normalizer{
		extractors: map[carefacts.ContentType]carefacts.Extractor{
			carefacts.ContentTypeWebpage: webpage,
			carefacts.ContentTypeFile:    file,
		},
		converter:  converter,
		summaryLen: DefaultSummaryLength,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts raw input into canonical plain text plus metadata.
// Identical raw input and metadata always yield identical output; the
// ingestion pipeline's content-hash dedupe depends on this.
func (n *Normalizer) Normalize(raw string, meta carefacts.SourceMeta) (*carefacts.NormalizedDoc, error) {
	var text, title string

	switch meta.ContentType {
	case carefacts.ContentTypeWebpage, carefacts.ContentTypeFile:
		extractor := n.extractors[meta.ContentType]
		if extractor == nil {
			return nil, carefacts.Errorf(carefacts.EUNSUPPORTED, "no extractor configured for content type %q", meta.ContentType)
		}
		result, err := extractor.Extract(raw)
		if err != nil {
			return nil, carefacts.Errorf(carefacts.EUNSUPPORTED, "failed to extract %s content: %v", meta.ContentType, err)
		}
		title = result.Title
		if strings.TrimSpace(result.ContentHTML) != "" {
			text, err = n.converter.Convert(result.ContentHTML)
			if err != nil {
				return nil, carefacts.Errorf(carefacts.EUNSUPPORTED, "failed to convert %s content: %v", meta.ContentType, err)
			}
		}

	case carefacts.ContentTypeManual:
		text = raw

	default:
		return nil, carefacts.Errorf(carefacts.EUNSUPPORTED, "unsupported content type %q", meta.ContentType)
	}

	if title == "" {
		title = meta.Title
	}
	if title == "" {
		title = firstLine(text)
	}

	canonical := collapseWhitespace(text)

	return &carefacts.NormalizedDoc{
		Title:       collapseWhitespace(title),
		Summary:     deriveSummary(canonical, n.summaryLen),
		Text:        canonical,
		URL:         meta.URL,
		ContentType: meta.ContentType,
		SourceFile:  meta.SourceFile,
	}, nil
}

// firstLine returns the first non-empty line of text.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// collapseWhitespace canonicalizes text by collapsing all whitespace runs
// into single spaces and trimming the ends.
func collapseWhitespace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		inSpace = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// deriveSummary returns the first sentence of text when it fits within max
// runes, otherwise the first max runes.
func deriveSummary(text string, max int) string {
	if max <= 0 || text == "" {
		return ""
	}

	if end := firstSentenceEnd(text); end > 0 {
		sentence := text[:end]
		if len([]rune(sentence)) <= max {
			return sentence
		}
	}

	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return strings.TrimSpace(string(runes[:max]))
}

// firstSentenceEnd returns the byte offset just past the first sentence
// terminator, or 0 when none exists.
func firstSentenceEnd(text string) int {
	for i, r := range text {
		switch r {
		case '.', '!', '?':
			return i + 1
		}
	}
	return 0
}
