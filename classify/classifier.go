package classify

import (
	"sort"

	"github.com/carefacts/carefacts"
)

// DefaultThreshold is the minimum confidence for a label to be assigned.
const DefaultThreshold = 0.15

// Ensure Classifier implements carefacts.Classifier at compile time.
var _ carefacts.Classifier = (*Classifier)(nil)

// Classifier scores every taxonomy label against a document and keeps the
// labels clearing the acceptance threshold.
type Classifier struct {
	registry  *carefacts.Registry
	scorer    *Scorer
	threshold float64
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithThreshold overrides the acceptance threshold.
func WithThreshold(threshold float64) Option {
	return func(c *Classifier) { c.threshold = threshold }
}

// WithScorer overrides the scorer (custom weights or stopwords).
func WithScorer(s *Scorer) Option {
	return func(c *Classifier) { c.scorer = s }
}

// NewClassifier creates a classifier over the given registry.
func NewClassifier(registry *carefacts.Registry, opts ...Option) *Classifier {
	c := &Classifier{
		registry:  registry,
		scorer:    NewScorer(nil, DefaultWeights()),
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Scorer returns the classifier's scorer, shared with search ranking.
func (c *Classifier) Scorer() *Scorer {
	return c.scorer
}

// Classify scores the document against every node in the registry. Labels
// spanning multiple domains are deduplicated keeping the highest confidence.
// Results are ordered by confidence descending; equal-confidence labels
// prefer a contiguous full-phrase match, then lexicographic label order.
func (c *Classifier) Classify(doc *carefacts.NormalizedDoc) []carefacts.TagScore {
	profile := c.scorer.Profile(doc.Title, doc.Summary, doc.Text)
	if profile.Empty() {
		return nil
	}

	type scored struct {
		carefacts.TagScore
		phrase bool
	}
	best := make(map[string]scored)

	for _, node := range c.registry.Nodes() {
		terms := c.scorer.tok.Tokenize(node.Label)
		if len(terms) == 0 {
			continue
		}

		context := c.scorer.tok.Tokenize(node.Domain)
		if node.Parent != nil {
			context = append(context, c.scorer.tok.Tokenize(node.Parent.Label)...)
		}
		context = subtractTerms(context, terms)

		score := c.scorer.Score(terms, context, profile)
		if score < c.threshold {
			continue
		}

		prev, ok := best[node.Label]
		if ok && prev.Confidence >= score {
			continue
		}
		best[node.Label] = scored{
			TagScore: carefacts.TagScore{Label: node.Label, Confidence: score},
			phrase:   profile.ContainsPhrase(terms),
		}
	}
	if len(best) == 0 {
		return nil
	}

	results := make([]scored, 0, len(best))
	for _, s := range best {
		results = append(results, s)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Confidence != results[j].Confidence {
			return results[i].Confidence > results[j].Confidence
		}
		if results[i].phrase != results[j].phrase {
			return results[i].phrase
		}
		return results[i].Label < results[j].Label
	})

	out := make([]carefacts.TagScore, len(results))
	for i, s := range results {
		out[i] = s.TagScore
	}
	return out
}

// subtractTerms removes label terms from the context term list so a term
// never counts twice.
func subtractTerms(context, terms []string) []string {
	if len(context) == 0 {
		return nil
	}
	drop := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		drop[t] = struct{}{}
	}
	out := context[:0]
	for _, t := range context {
		if _, ok := drop[t]; !ok {
			out = append(out, t)
		}
	}
	return out
}
