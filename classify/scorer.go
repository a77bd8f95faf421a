package classify

import "math"

// Weights tunes the lexical match score. All contributions are multiplied by
// term coverage, so a label with no term present in the document always
// scores zero.
type Weights struct {
	// TF weighs the normalized term frequency of the terms in the body.
	TF float64

	// Title and Summary weigh term coverage within those fields; a match in
	// the title or summary counts for more than a body-only match.
	Title   float64
	Summary float64

	// Context weighs coverage of contextual terms (domain name, parent
	// label) that are not part of the label itself.
	Context float64

	// TFSaturation scales raw term frequency before clamping to 1. With the
	// default of 20, terms making up 5% or more of the body saturate.
	TFSaturation float64
}

// DefaultWeights returns the standard scoring weights.
func DefaultWeights() Weights {
	return Weights{
		TF:           0.5,
		Title:        0.3,
		Summary:      0.2,
		Context:      0.1,
		TFSaturation: 20,
	}
}

// Profile holds the tokenized fields of one document, precomputed so that a
// document is tokenized once regardless of vocabulary size.
type Profile struct {
	title   []string
	summary []string
	body    []string

	titleSet   map[string]struct{}
	summarySet map[string]struct{}
	bodyFreq   map[string]int
}

// Empty reports whether the profile contains no tokens at all.
func (p *Profile) Empty() bool {
	return len(p.title) == 0 && len(p.summary) == 0 && len(p.body) == 0
}

// ContainsPhrase reports whether the term sequence appears contiguously in
// the body, title, or summary token stream.
func (p *Profile) ContainsPhrase(terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	return containsSubsequence(p.body, terms) ||
		containsSubsequence(p.title, terms) ||
		containsSubsequence(p.summary, terms)
}

func containsSubsequence(tokens, terms []string) bool {
	if len(terms) > len(tokens) {
		return false
	}
	for i := 0; i+len(terms) <= len(tokens); i++ {
		match := true
		for j, term := range terms {
			if tokens[i+j] != term {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Scorer computes lexical match scores between term sets and documents.
// It is stateless apart from its configuration and safe for concurrent use.
type Scorer struct {
	tok *Tokenizer
	w   Weights
}

// NewScorer creates a scorer using the given tokenizer and weights.
// A nil tokenizer uses the default stopword set.
func NewScorer(tok *Tokenizer, w Weights) *Scorer {
	if tok == nil {
		tok = NewTokenizer(nil)
	}
	return &Scorer{tok: tok, w: w}
}

// Tokenizer returns the scorer's tokenizer.
func (s *Scorer) Tokenizer() *Tokenizer {
	return s.tok
}

// Profile tokenizes one document's fields for repeated scoring.
func (s *Scorer) Profile(title, summary, body string) *Profile {
	p := &Profile{
		title:      s.tok.Tokenize(title),
		summary:    s.tok.Tokenize(summary),
		body:       s.tok.Tokenize(body),
		titleSet:   make(map[string]struct{}),
		summarySet: make(map[string]struct{}),
		bodyFreq:   make(map[string]int),
	}
	for _, t := range p.title {
		p.titleSet[t] = struct{}{}
	}
	for _, t := range p.summary {
		p.summarySet[t] = struct{}{}
	}
	for _, t := range p.body {
		p.bodyFreq[t]++
	}
	return p
}

// Score computes the lexical match score of the given terms against the
// profiled document, in [0,1]. Context terms contribute only when at least
// one primary term is present.
func (s *Scorer) Score(terms, context []string, p *Profile) float64 {
	if len(terms) == 0 || p.Empty() {
		return 0
	}

	var covered, titleHits, summaryHits, freq int
	for _, term := range terms {
		_, inTitle := p.titleSet[term]
		_, inSummary := p.summarySet[term]
		f := p.bodyFreq[term]

		if inTitle {
			titleHits++
		}
		if inSummary {
			summaryHits++
		}
		if inTitle || inSummary || f > 0 {
			covered++
		}
		freq += f
	}
	if covered == 0 {
		return 0
	}

	coverage := float64(covered) / float64(len(terms))
	titleCov := float64(titleHits) / float64(len(terms))
	summaryCov := float64(summaryHits) / float64(len(terms))

	var tfNorm float64
	if len(p.body) > 0 {
		tf := float64(freq) / float64(len(p.body))
		tfNorm = math.Min(1, tf*s.w.TFSaturation)
	}

	var ctxCov float64
	if len(context) > 0 {
		var ctxHits int
		for _, term := range context {
			if _, ok := p.titleSet[term]; ok {
				ctxHits++
				continue
			}
			if _, ok := p.summarySet[term]; ok {
				ctxHits++
				continue
			}
			if p.bodyFreq[term] > 0 {
				ctxHits++
			}
		}
		ctxCov = float64(ctxHits) / float64(len(context))
	}

	raw := s.w.TF*tfNorm + s.w.Title*titleCov + s.w.Summary*summaryCov + s.w.Context*ctxCov
	return math.Min(1, coverage*raw)
}
