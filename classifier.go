package carefacts

// TagScore is one classification outcome: a taxonomy label with the lexical
// confidence of the match, in [0,1].
type TagScore struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier assigns zero or more taxonomy tags to a normalized document.
type Classifier interface {
	// Classify scores the document against the taxonomy vocabulary and
	// returns the labels meeting the acceptance threshold, ordered by
	// confidence descending with deterministic tie-breaking. An empty
	// document yields an empty set; classification never fails.
	Classify(doc *NormalizedDoc) []TagScore
}
