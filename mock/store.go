// Package mock provides function-field mock implementations of carefacts
// service interfaces for testing.
package mock

import (
	"context"

	"github.com/carefacts/carefacts"
)

var _ carefacts.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is a mock implementation of carefacts.DocumentStore.
type DocumentStore struct {
	UpsertDocumentFn         func(ctx context.Context, doc *carefacts.Document) (bool, error)
	UpsertDocumentWithTagsFn func(ctx context.Context, doc *carefacts.Document, tags []carefacts.TagAssignment) (bool, error)
	ReplaceTagsFn            func(ctx context.Context, documentID string, tags []carefacts.TagAssignment) error
	FindBySourceFn           func(ctx context.Context, url, sourceFile string) (*carefacts.Document, error)
	FindDocumentByIDFn       func(ctx context.Context, id string) (*carefacts.Document, error)
	FindDocumentsFn          func(ctx context.Context, filter carefacts.DocumentFilter) ([]*carefacts.Document, error)
}

func (s *DocumentStore) UpsertDocument(ctx context.Context, doc *carefacts.Document) (bool, error) {
	return s.UpsertDocumentFn(ctx, doc)
}

func (s *DocumentStore) UpsertDocumentWithTags(ctx context.Context, doc *carefacts.Document, tags []carefacts.TagAssignment) (bool, error) {
	return s.UpsertDocumentWithTagsFn(ctx, doc, tags)
}

func (s *DocumentStore) ReplaceTags(ctx context.Context, documentID string, tags []carefacts.TagAssignment) error {
	return s.ReplaceTagsFn(ctx, documentID, tags)
}

func (s *DocumentStore) FindBySource(ctx context.Context, url, sourceFile string) (*carefacts.Document, error) {
	return s.FindBySourceFn(ctx, url, sourceFile)
}

func (s *DocumentStore) FindDocumentByID(ctx context.Context, id string) (*carefacts.Document, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentStore) FindDocuments(ctx context.Context, filter carefacts.DocumentFilter) ([]*carefacts.Document, error) {
	return s.FindDocumentsFn(ctx, filter)
}
