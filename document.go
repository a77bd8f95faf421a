package carefacts

import (
	"context"
	"time"
)

// ContentType identifies the kind of source a document was ingested from.
type ContentType string

// Recognized content types.
const (
	ContentTypeWebpage ContentType = "webpage" // scraped web page (raw HTML)
	ContentTypeFile    ContentType = "file"    // local reference file (saved HTML/MHTML)
	ContentTypeManual  ContentType = "manual"  // hand-entered plain text
)

// Valid reports whether ct is in the recognized content type set.
func (ct ContentType) Valid() bool {
	switch ct {
	case ContentTypeWebpage, ContentTypeFile, ContentTypeManual:
		return true
	}
	return false
}

// Document represents an ingested content record. A document is uniquely
// identified by its (URL, SourceFile) pair; re-ingesting the same source
// updates the existing record rather than duplicating it.
type Document struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Summary     string      `json:"summary"`
	URL         string      `json:"url"`
	ContentType ContentType `json:"contentType"`
	SourceFile  string      `json:"sourceFile"`
	RawText     string      `json:"rawText"`
	ContentHash string      `json:"contentHash"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`

	// Tags holds the document's current tag assignments. Populated on reads;
	// written through the tag replacement operations, never from this field.
	Tags []TagAssignment `json:"tags,omitempty"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.URL == "" && d.SourceFile == "" {
		return Errorf(EINVALID, "document source URL or source file required")
	}
	if !d.ContentType.Valid() {
		return Errorf(EUNSUPPORTED, "unsupported content type %q", d.ContentType)
	}
	return nil
}

// SourceKey returns the canonical identity key for the document's source.
func (d *Document) SourceKey() string {
	return SourceKey(d.URL, d.SourceFile)
}

// SourceKey builds the canonical identity key for a (url, sourceFile) pair.
func SourceKey(url, sourceFile string) string {
	return url + "\x00" + sourceFile
}

// TagAssignment is a scored association between a document and one taxonomy
// label. Labels reference the taxonomy registry by string, keeping storage
// decoupled from taxonomy internals.
type TagAssignment struct {
	DocumentID string  `json:"documentId"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Validate returns an error if the assignment contains invalid fields.
func (a *TagAssignment) Validate() error {
	if a.Label == "" {
		return Errorf(EINVALID, "tag assignment label required")
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		return Errorf(EINVALID, "tag assignment confidence must be in [0,1], got %v", a.Confidence)
	}
	return nil
}

// DocumentStore is the durable record of documents and their tags.
type DocumentStore interface {
	// UpsertDocument creates the document or, when a record with the same
	// (URL, SourceFile) pair exists, updates it in place preserving its ID
	// and creation time. Reports whether an existing record was updated.
	// The document's ID is populated on return.
	UpsertDocument(ctx context.Context, doc *Document) (wasUpdate bool, err error)

	// UpsertDocumentWithTags upserts the document and replaces its tag
	// assignment set in a single atomic write, so readers never observe the
	// document without its tags. The document's ID and each assignment's
	// DocumentID are populated on return. Labels are validated the same way
	// ReplaceTags validates them.
	UpsertDocumentWithTags(ctx context.Context, doc *Document, tags []TagAssignment) (wasUpdate bool, err error)

	// ReplaceTags atomically replaces the document's tag assignment set.
	// Readers observe either the old set or the new set, never a mix.
	// Returns EUNKNOWNLABEL if a label is not in the current registry,
	// ENOTFOUND if the document does not exist.
	ReplaceTags(ctx context.Context, documentID string, tags []TagAssignment) error

	// FindBySource retrieves the document for a (url, sourceFile) pair.
	// Returns ENOTFOUND if no such document exists.
	FindBySource(ctx context.Context, url, sourceFile string) (*Document, error)

	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if the document does not exist.
	FindDocumentByID(ctx context.Context, id string) (*Document, error)

	// FindDocuments retrieves documents matching the filter, ordered by
	// creation time descending.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)
}

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	ID          *string      `json:"id"`
	ContentType *ContentType `json:"contentType"`
	TagLabel    *string      `json:"tagLabel"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
