// Package ingest orchestrates document ingestion: raw content is
// normalized, deduplicated against prior ingests, classified against the
// taxonomy and persisted with its tag set.
package ingest

import (
	"context"
	"fmt"

	"github.com/carefacts/carefacts"
	"github.com/carefacts/carefacts/bloom"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/time/rate"
)

// Ensure Pipeline implements carefacts.Ingestor at compile time.
var _ carefacts.Ingestor = (*Pipeline)(nil)

const defaultConcurrency = 4

// Pipeline wires the normalizer, classifier and store into an ingestion
// flow. Re-ingesting a source whose normalized content is unchanged skips
// classification and leaves the stored tag set untouched.
type Pipeline struct {
	store      carefacts.DocumentStore
	normalizer carefacts.Normalizer
	classifier carefacts.Classifier

	seen        *bloom.Filter
	limiter     *rate.Limiter
	concurrency int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithConcurrency sets the number of concurrent workers for batch
// ingestion. Values below 1 fall back to the default.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		p.concurrency = n
	}
}

// WithRateLimit paces batch ingestion at rps items per second with no
// bursting. Single-item ingests are not paced.
func WithRateLimit(rps float64) Option {
	return func(p *Pipeline) {
		p.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithSeenFilter installs a Bloom filter over source keys. A negative
// test proves the source was never ingested, so the store lookup is
// skipped; positives still consult the store, so false positives never
// corrupt results.
func WithSeenFilter(f *bloom.Filter) Option {
	return func(p *Pipeline) {
		p.seen = f
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(store carefacts.DocumentStore, normalizer carefacts.Normalizer, classifier carefacts.Classifier, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:      store,
		normalizer: normalizer,
		classifier: classifier,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest processes one source end to end.
func (p *Pipeline) Ingest(ctx context.Context, raw string, meta carefacts.SourceMeta) (*carefacts.IngestResult, error) {
	if meta.URL == "" && meta.SourceFile == "" {
		return nil, carefacts.Errorf(carefacts.EINVALID, "source URL or source file required")
	}

	nd, err := p.normalizer.Normalize(raw, meta)
	if err != nil {
		return nil, err
	}

	hash := hashContent(nd.Text)
	key := carefacts.SourceKey(nd.URL, nd.SourceFile)

	existing, err := p.findExisting(ctx, key, nd.URL, nd.SourceFile)
	if err != nil {
		return nil, err
	}

	if existing != nil && existing.ContentHash == hash {
		p.markSeen(key)
		return &carefacts.IngestResult{
			DocumentID: existing.ID,
			Tags:       existing.Tags,
			WasUpdate:  true,
			Unchanged:  true,
		}, nil
	}

	scores := p.classifier.Classify(nd)

	doc := &carefacts.Document{
		Title:       nd.Title,
		Summary:     nd.Summary,
		URL:         nd.URL,
		ContentType: nd.ContentType,
		SourceFile:  nd.SourceFile,
		RawText:     nd.Text,
		ContentHash: hash,
	}
	if existing != nil {
		doc.ID = existing.ID
	}

	// The store fills in tag DocumentIDs once the document ID is known.
	tags := make([]carefacts.TagAssignment, len(scores))
	for i, s := range scores {
		tags[i] = carefacts.TagAssignment{
			Label:      s.Label,
			Confidence: s.Confidence,
		}
	}

	// Document and tags commit together so a tag failure never strands an
	// untagged document.
	wasUpdate, err := p.store.UpsertDocumentWithTags(ctx, doc, tags)
	if err != nil {
		return nil, err
	}

	p.markSeen(key)

	return &carefacts.IngestResult{
		DocumentID: doc.ID,
		Tags:       tags,
		WasUpdate:  wasUpdate,
	}, nil
}

// findExisting looks up the stored document for a source key. A negative
// Bloom test short-circuits the lookup.
func (p *Pipeline) findExisting(ctx context.Context, key, url, sourceFile string) (*carefacts.Document, error) {
	if p.seen != nil && !p.seen.Test(key) {
		return nil, nil
	}

	doc, err := p.store.FindBySource(ctx, url, sourceFile)
	if err != nil {
		if carefacts.ErrorCode(err) == carefacts.ENOTFOUND {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

func (p *Pipeline) markSeen(key string) {
	if p.seen != nil {
		p.seen.Add(key)
	}
}

// hashContent computes a hash of the content using xxhash.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	return fmt.Sprintf("%x", h)
}
