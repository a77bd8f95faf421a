package ingest

import (
	"context"

	"github.com/carefacts/carefacts"
	"golang.org/x/sync/errgroup"
)

// IngestBatch processes items concurrently with per-item error collection.
// A single item's failure never aborts its siblings. Canceling ctx stops
// issuing new items; items already committed stay committed, and items
// never issued carry the context error.
func (p *Pipeline) IngestBatch(ctx context.Context, items []carefacts.BatchItem) (*carefacts.BatchResult, error) {
	results := make([]carefacts.BatchItemResult, len(items))
	for i := range items {
		results[i] = carefacts.BatchItemResult{Index: i, Meta: items[i].Meta}
	}

	concurrency := p.concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	// Workers always return nil so one failure never cancels the group;
	// only parent context cancellation stops the batch.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range items {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			if p.limiter != nil {
				if err := p.limiter.Wait(gctx); err != nil {
					results[i].Err = err
					return nil
				}
			}

			res, err := p.Ingest(gctx, items[i].Raw, items[i].Meta)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Result = res
			return nil
		})
	}
	_ = g.Wait()

	out := &carefacts.BatchResult{Items: results}
	for i := range results {
		if results[i].Err != nil {
			out.Failed++
		} else {
			out.Succeeded++
		}
	}
	return out, nil
}
