package mock

import (
	"context"

	"github.com/carefacts/carefacts"
)

var _ carefacts.Ingestor = (*Ingestor)(nil)

// Ingestor is a mock implementation of carefacts.Ingestor.
type Ingestor struct {
	IngestFn      func(ctx context.Context, raw string, meta carefacts.SourceMeta) (*carefacts.IngestResult, error)
	IngestBatchFn func(ctx context.Context, items []carefacts.BatchItem) (*carefacts.BatchResult, error)
}

func (i *Ingestor) Ingest(ctx context.Context, raw string, meta carefacts.SourceMeta) (*carefacts.IngestResult, error) {
	return i.IngestFn(ctx, raw, meta)
}

func (i *Ingestor) IngestBatch(ctx context.Context, items []carefacts.BatchItem) (*carefacts.BatchResult, error) {
	return i.IngestBatchFn(ctx, items)
}
