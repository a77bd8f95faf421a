package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/carefacts/carefacts"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ carefacts.DocumentStore = (*DocumentService)(nil)

// DocumentService implements carefacts.DocumentStore using SQLite.
// Tag labels are validated against the taxonomy registry on write.
type DocumentService struct {
	db       *DB
	registry *carefacts.Registry
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB, registry *carefacts.Registry) *DocumentService {
	return &DocumentService{db: db, registry: registry}
}

// UpsertDocument creates the document or updates the existing record for
// the same (url, source_file) pair, preserving its ID and creation time.
// The existence check and the write run in one transaction so concurrent
// first ingests of the same source cannot both insert.
func (s *DocumentService) UpsertDocument(ctx context.Context, doc *carefacts.Document) (bool, error) {
	if err := doc.Validate(); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	wasUpdate, err := upsertDocumentTx(ctx, tx, doc)
	if err != nil {
		return false, err
	}
	return wasUpdate, tx.Commit()
}

// UpsertDocumentWithTags upserts the document and replaces its tag set in
// the same transaction. Readers never observe the document without its
// tags.
func (s *DocumentService) UpsertDocumentWithTags(ctx context.Context, doc *carefacts.Document, tags []carefacts.TagAssignment) (bool, error) {
	if err := doc.Validate(); err != nil {
		return false, err
	}
	if err := s.validateTags(tags); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	wasUpdate, err := upsertDocumentTx(ctx, tx, doc)
	if err != nil {
		return false, err
	}

	for i := range tags {
		tags[i].DocumentID = doc.ID
	}
	if err := replaceTagsTx(ctx, tx, doc.ID, tags); err != nil {
		return false, err
	}
	return wasUpdate, tx.Commit()
}

// ReplaceTags atomically replaces the document's tag assignment set in a
// single transaction. Readers observe the old set or the new set, never a
// mix.
func (s *DocumentService) ReplaceTags(ctx context.Context, documentID string, tags []carefacts.TagAssignment) error {
	if err := s.validateTags(tags); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM content_master WHERE id = ?`, documentID).Scan(&exists)
	if err == sql.ErrNoRows {
		return carefacts.Errorf(carefacts.ENOTFOUND, "document not found")
	}
	if err != nil {
		return err
	}

	if err := replaceTagsTx(ctx, tx, documentID, tags); err != nil {
		return err
	}
	return tx.Commit()
}

// validateTags checks assignment fields and label membership in the
// taxonomy registry.
func (s *DocumentService) validateTags(tags []carefacts.TagAssignment) error {
	for i := range tags {
		if err := tags[i].Validate(); err != nil {
			return err
		}
		if !s.registry.Contains(tags[i].Label) {
			return carefacts.Errorf(carefacts.EUNKNOWNLABEL, "unknown taxonomy label %q", tags[i].Label)
		}
	}
	return nil
}

// upsertDocumentTx performs the insert-or-update within tx, populating the
// document's ID and timestamps.
func upsertDocumentTx(ctx context.Context, tx *sql.Tx, doc *carefacts.Document) (bool, error) {
	now := time.Now().UTC().Truncate(time.Second)

	var existingID, createdAt string
	err := tx.QueryRowContext(ctx, `
		SELECT id, created_at FROM content_master
		WHERE url = ? AND source_file = ?
	`, doc.URL, doc.SourceFile).Scan(&existingID, &createdAt)

	switch {
	case err == sql.ErrNoRows:
		if doc.ID == "" {
			doc.ID = uuid.New().String()
		}
		doc.CreatedAt = now
		doc.UpdatedAt = now

		_, err := tx.ExecContext(ctx, `
			INSERT INTO content_master (id, title, summary, url, content_type, source_file, raw_text, content_hash, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, doc.ID, doc.Title, doc.Summary, doc.URL, string(doc.ContentType), doc.SourceFile,
			doc.RawText, doc.ContentHash, now.Format(time.RFC3339), now.Format(time.RFC3339))
		if err != nil {
			return false, err
		}
		return false, nil

	case err != nil:
		return false, err
	}

	doc.ID = existingID
	doc.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return false, err
	}
	doc.UpdatedAt = now

	_, err = tx.ExecContext(ctx, `
		UPDATE content_master
		SET title = ?, summary = ?, content_type = ?, raw_text = ?, content_hash = ?, updated_at = ?
		WHERE id = ?
	`, doc.Title, doc.Summary, string(doc.ContentType), doc.RawText, doc.ContentHash,
		now.Format(time.RFC3339), doc.ID)
	if err != nil {
		return false, err
	}
	return true, nil
}

// replaceTagsTx swaps the document's tag set within tx.
func replaceTagsTx(ctx context.Context, tx *sql.Tx, documentID string, tags []carefacts.TagAssignment) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM tag_assignments WHERE document_id = ?`, documentID); err != nil {
		return err
	}

	for i := range tags {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tag_assignments (document_id, label, confidence)
			VALUES (?, ?, ?)
		`, documentID, tags[i].Label, tags[i].Confidence)
		if err != nil {
			return err
		}
	}
	return nil
}

// FindBySource retrieves the document for a (url, sourceFile) pair.
func (s *DocumentService) FindBySource(ctx context.Context, url, sourceFile string) (*carefacts.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, summary, url, content_type, source_file, raw_text, content_hash, created_at, updated_at
		FROM content_master
		WHERE url = ? AND source_file = ?
	`, url, sourceFile)

	doc, err := scanDocument(row)
	if err != nil {
		return nil, err
	}

	doc.Tags, err = loadTags(ctx, s.db, doc.ID)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*carefacts.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, summary, url, content_type, source_file, raw_text, content_hash, created_at, updated_at
		FROM content_master
		WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if err != nil {
		return nil, err
	}

	doc.Tags, err = loadTags(ctx, s.db, doc.ID)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// FindDocuments retrieves documents matching the filter, ordered by
// creation time descending.
func (s *DocumentService) FindDocuments(ctx context.Context, filter carefacts.DocumentFilter) ([]*carefacts.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, title, summary, url, content_type, source_file, raw_text, content_hash, created_at, updated_at FROM content_master WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.ContentType != nil {
		query.WriteString(" AND content_type = ?")
		args = append(args, string(*filter.ContentType))
	}
	if filter.TagLabel != nil {
		query.WriteString(" AND id IN (SELECT document_id FROM tag_assignments WHERE label = ?)")
		args = append(args, *filter.TagLabel)
	}

	query.WriteString(" ORDER BY created_at DESC, id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*carefacts.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, doc := range docs {
		doc.Tags, err = loadTags(ctx, s.db, doc.ID)
		if err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// loadTags fetches the tag assignments for a document, ordered by
// confidence descending then label.
func loadTags(ctx context.Context, db *DB, documentID string) ([]carefacts.TagAssignment, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT document_id, label, confidence
		FROM tag_assignments
		WHERE document_id = ?
		ORDER BY confidence DESC, label ASC
	`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []carefacts.TagAssignment
	for rows.Next() {
		var tag carefacts.TagAssignment
		if err := rows.Scan(&tag.DocumentID, &tag.Label, &tag.Confidence); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*carefacts.Document, error) {
	var doc carefacts.Document
	var contentType, createdAt, updatedAt string

	err := row.Scan(&doc.ID, &doc.Title, &doc.Summary, &doc.URL, &contentType, &doc.SourceFile,
		&doc.RawText, &doc.ContentHash, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, carefacts.Errorf(carefacts.ENOTFOUND, "document not found")
	}
	if err != nil {
		return nil, err
	}

	doc.ContentType = carefacts.ContentType(contentType)
	doc.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	doc.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at")
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
