package mock

import "github.com/carefacts/carefacts"

var _ carefacts.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of carefacts.Normalizer.
type Normalizer struct {
	NormalizeFn func(raw string, meta carefacts.SourceMeta) (*carefacts.NormalizedDoc, error)
}

func (n *Normalizer) Normalize(raw string, meta carefacts.SourceMeta) (*carefacts.NormalizedDoc, error) {
	return n.NormalizeFn(raw, meta)
}

var _ carefacts.Classifier = (*Classifier)(nil)

// Classifier is a mock implementation of carefacts.Classifier.
type Classifier struct {
	ClassifyFn func(doc *carefacts.NormalizedDoc) []carefacts.TagScore
}

func (c *Classifier) Classify(doc *carefacts.NormalizedDoc) []carefacts.TagScore {
	return c.ClassifyFn(doc)
}

var _ carefacts.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of carefacts.Extractor.
type Extractor struct {
	ExtractFn func(raw string) (*carefacts.ExtractResult, error)
}

func (e *Extractor) Extract(raw string) (*carefacts.ExtractResult, error) {
	return e.ExtractFn(raw)
}

var _ carefacts.Converter = (*Converter)(nil)

// Converter is a mock implementation of carefacts.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
