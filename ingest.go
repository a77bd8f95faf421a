package carefacts

import "context"

// IngestResult reports the outcome of ingesting one source.
type IngestResult struct {
	DocumentID string          `json:"documentId"`
	Tags       []TagAssignment `json:"tags"`

	// WasUpdate reports that an existing record for the same source was
	// found, whether or not its content changed.
	WasUpdate bool `json:"wasUpdate"`

	// Unchanged reports the no-op fast path: the source's normalized content
	// hash matched the stored record, so classification was skipped and the
	// existing tag set left untouched.
	Unchanged bool `json:"unchanged"`
}

// BatchItem is one unit of work for batch ingestion.
type BatchItem struct {
	Raw  string     `json:"raw"`
	Meta SourceMeta `json:"meta"`
}

// BatchItemResult records the per-item outcome of a batch ingestion. Exactly
// one of Result and Err is set, except for items never issued because the
// batch was canceled, which carry the context error.
type BatchItemResult struct {
	Index  int           `json:"index"`
	Meta   SourceMeta    `json:"meta"`
	Result *IngestResult `json:"result,omitempty"`
	Err    error         `json:"-"`
}

// BatchResult aggregates a batch ingestion run. A single item's failure is
// recorded here and never aborts sibling items.
type BatchResult struct {
	Items     []BatchItemResult `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// Ingestor orchestrates normalize → classify → dedupe → persist.
type Ingestor interface {
	// Ingest processes a single source. Re-ingesting byte-identical content
	// is a no-op beyond confirming currency; changed content replaces the
	// stored document and its whole tag set.
	Ingest(ctx context.Context, raw string, meta SourceMeta) (*IngestResult, error)

	// IngestBatch processes items independently with per-item error
	// collection; the call itself never fails wholesale. Canceling ctx stops
	// issuing new items but does not roll back committed ones.
	IngestBatch(ctx context.Context, items []BatchItem) (*BatchResult, error)
}
