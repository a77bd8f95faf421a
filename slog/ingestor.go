// Package slog provides logging decorators for carefacts services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/carefacts/carefacts"
)

// Ensure LoggingIngestor implements carefacts.Ingestor.
var _ carefacts.Ingestor = (*LoggingIngestor)(nil)

// LoggingIngestor wraps an Ingestor with structured logging of ingestion
// outcomes.
type LoggingIngestor struct {
	next   carefacts.Ingestor
	logger *slog.Logger
}

// NewLoggingIngestor creates a new LoggingIngestor.
func NewLoggingIngestor(next carefacts.Ingestor, logger *slog.Logger) *LoggingIngestor {
	return &LoggingIngestor{next: next, logger: logger}
}

// Ingest delegates to the wrapped ingestor and logs the outcome.
func (i *LoggingIngestor) Ingest(ctx context.Context, raw string, meta carefacts.SourceMeta) (*carefacts.IngestResult, error) {
	begin := time.Now()
	res, err := i.next.Ingest(ctx, raw, meta)
	if err != nil {
		i.logger.Error("ingest",
			"url", meta.URL,
			"sourceFile", meta.SourceFile,
			"err", err,
			"duration", time.Since(begin),
		)
		return nil, err
	}

	i.logger.Info("ingest",
		"url", meta.URL,
		"sourceFile", meta.SourceFile,
		"documentId", res.DocumentID,
		"tags", len(res.Tags),
		"wasUpdate", res.WasUpdate,
		"unchanged", res.Unchanged,
		"duration", time.Since(begin),
	)
	return res, nil
}

// IngestBatch delegates to the wrapped ingestor and logs batch statistics.
func (i *LoggingIngestor) IngestBatch(ctx context.Context, items []carefacts.BatchItem) (*carefacts.BatchResult, error) {
	begin := time.Now()
	res, err := i.next.IngestBatch(ctx, items)
	if err != nil {
		i.logger.Error("ingest batch",
			"items", len(items),
			"err", err,
			"duration", time.Since(begin),
		)
		return nil, err
	}

	i.logger.Info("ingest batch",
		"items", len(items),
		"succeeded", res.Succeeded,
		"failed", res.Failed,
		"duration", time.Since(begin),
	)
	return res, nil
}
