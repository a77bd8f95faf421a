// Package classify assigns taxonomy tags to normalized documents using
// lexical matching against the taxonomy registry's vocabulary. The same
// scoring family backs search relevance ranking.
package classify

import (
	"strings"
	"unicode"
)

// defaultStopwords are filtered from all token streams. The list is small on
// purpose: taxonomy labels are short noun phrases and over-aggressive
// stopping hurts label coverage more than it helps precision.
var defaultStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
	"has", "in", "is", "it", "its", "of", "on", "or", "that", "the",
	"to", "was", "were", "will", "with",
}

// Tokenizer splits text into normalized lowercase tokens.
type Tokenizer struct {
	stopwords map[string]struct{}
}

// NewTokenizer creates a tokenizer with the given stopword list.
// A nil list uses the default stopwords.
func NewTokenizer(stopwords []string) *Tokenizer {
	if stopwords == nil {
		stopwords = defaultStopwords
	}
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{stopwords: stops}
}

// Tokenize splits text into normalized tokens, removing stopwords,
// single-character tokens, and purely numeric tokens.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		if word := t.processToken(current.String()); word != "" {
			tokens = append(tokens, word)
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

func (t *Tokenizer) processToken(token string) string {
	word := strings.Trim(token, "-")
	if len(word) <= 1 {
		return ""
	}
	// Mixed tokens like "gpt-4" or "stage-3b" are kept; bare numbers are not.
	if isNumericOnly(word) {
		return ""
	}
	if _, ok := t.stopwords[word]; ok {
		return ""
	}
	return word
}

func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}
