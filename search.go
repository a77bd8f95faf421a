package carefacts

import "context"

// SearchQuery describes a corpus search. All criteria are optional; a query
// with no text and no tag filter returns the full corpus ordered by creation
// time descending.
type SearchQuery struct {
	// Text is scored by lexical relevance against title/summary/body.
	Text string `json:"text"`

	// Tags restricts results to documents holding ALL listed labels.
	Tags []string `json:"tags,omitempty"`

	// ContentType restricts results to one content type when set.
	ContentType *ContentType `json:"contentType,omitempty"`

	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Validate returns EINVALID when the pagination window is malformed.
func (q *SearchQuery) Validate() error {
	if q.Limit <= 0 {
		return Errorf(EINVALID, "limit must be positive, got %d", q.Limit)
	}
	if q.Offset < 0 {
		return Errorf(EINVALID, "offset must be non-negative, got %d", q.Offset)
	}
	return nil
}

// SearchResult is one search match with its relevance score.
type SearchResult struct {
	Document *Document `json:"document"`
	Score    float64   `json:"score"`
}

// SearchService provides tag-filtered full-text retrieval over the corpus.
type SearchService interface {
	// Search returns documents matching the query, ordered by relevance
	// score descending with ties broken by creation time descending.
	Search(ctx context.Context, q SearchQuery) ([]SearchResult, error)
}
