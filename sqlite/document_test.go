package sqlite_test

import (
	"context"
	"sync"
	"testing"

	"github.com/carefacts/carefacts"
	"github.com/carefacts/carefacts/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface verification.
var _ carefacts.DocumentStore = (*sqlite.DocumentService)(nil)

func webDoc(url string) *carefacts.Document {
	return &carefacts.Document{
		Title:       "Dyspnea Management",
		Summary:     "Opioids relieve refractory dyspnea.",
		URL:         url,
		ContentType: carefacts.ContentTypeWebpage,
		RawText:     "Opioids relieve refractory dyspnea in advanced illness.",
		ContentHash: "abc123",
	}
}

func TestDocumentService_UpsertDocument(t *testing.T) {
	t.Parallel()

	t.Run("creates a new document", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDocumentService(setupTestDB(t), testRegistry(t))
		doc := webDoc("https://example.org/ff27")

		wasUpdate, err := svc.UpsertDocument(context.Background(), doc)
		require.NoError(t, err)

		assert.False(t, wasUpdate)
		assert.NotEmpty(t, doc.ID)
		assert.False(t, doc.CreatedAt.IsZero())
		assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)
	})

	t.Run("updates the existing record for the same source", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDocumentService(setupTestDB(t), testRegistry(t))
		ctx := context.Background()

		first := webDoc("https://example.org/ff27")
		_, err := svc.UpsertDocument(ctx, first)
		require.NoError(t, err)

		second := webDoc("https://example.org/ff27")
		second.Title = "Dyspnea Management (revised)"
		second.ContentHash = "def456"

		wasUpdate, err := svc.UpsertDocument(ctx, second)
		require.NoError(t, err)

		assert.True(t, wasUpdate)
		assert.Equal(t, first.ID, second.ID, "update preserves document identity")
		assert.Equal(t, first.CreatedAt, second.CreatedAt, "update preserves creation time")

		found, err := svc.FindDocumentByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dyspnea Management (revised)", found.Title)
		assert.Equal(t, "def456", found.ContentHash)
	})

	t.Run("same URL with different source file is a distinct document", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDocumentService(setupTestDB(t), testRegistry(t))
		ctx := context.Background()

		first := webDoc("https://example.org/ff27")
		_, err := svc.UpsertDocument(ctx, first)
		require.NoError(t, err)

		second := webDoc("https://example.org/ff27")
		second.SourceFile = "saved/ff27.html"
		second.ContentType = carefacts.ContentTypeFile

		wasUpdate, err := svc.UpsertDocument(ctx, second)
		require.NoError(t, err)

		assert.False(t, wasUpdate)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("concurrent first ingests of one source write a single row", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db, testRegistry(t))
		ctx := context.Background()

		const workers = 8
		var wg sync.WaitGroup
		errs := make([]error, workers)
		created := make([]bool, workers)

		for w := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				doc := webDoc("https://example.org/contended")
				wasUpdate, err := svc.UpsertDocument(ctx, doc)
				errs[w] = err
				created[w] = !wasUpdate
			}()
		}
		wg.Wait()

		inserts := 0
		for w := range workers {
			require.NoError(t, errs[w])
			if created[w] {
				inserts++
			}
		}
		assert.Equal(t, 1, inserts, "exactly one writer creates, the rest update")

		docs, err := svc.FindDocuments(ctx, carefacts.DocumentFilter{})
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})

	t.Run("rejects a document without a source", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDocumentService(setupTestDB(t), testRegistry(t))
		doc := &carefacts.Document{ContentType: carefacts.ContentTypeManual}

		_, err := svc.UpsertDocument(context.Background(), doc)
		require.Error(t, err)
		assert.Equal(t, carefacts.EINVALID, carefacts.ErrorCode(err))
	})

	t.Run("rejects an unsupported content type", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDocumentService(setupTestDB(t), testRegistry(t))
		doc := webDoc("https://example.org/x")
		doc.ContentType = "spreadsheet"

		_, err := svc.UpsertDocument(context.Background(), doc)
		require.Error(t, err)
		assert.Equal(t, carefacts.EUNSUPPORTED, carefacts.ErrorCode(err))
	})
}

func TestDocumentService_UpsertDocumentWithTags(t *testing.T) {
	t.Parallel()

	t.Run("persists document and tags together", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDocumentService(setupTestDB(t), testRegistry(t))
		ctx := context.Background()

		doc := webDoc("https://example.org/ff27")
		tags := []carefacts.TagAssignment{
			{Label: "Dyspnea", Confidence: 0.9},
			{Label: "Cough", Confidence: 0.4},
		}

		wasUpdate, err := svc.UpsertDocumentWithTags(ctx, doc, tags)
		require.NoError(t, err)
		assert.False(t, wasUpdate)
		assert.Equal(t, doc.ID, tags[0].DocumentID, "assignment identity is filled in")

		found, err := svc.FindDocumentByID(ctx, doc.ID)
		require.NoError(t, err)
		require.Len(t, found.Tags, 2)
		assert.Equal(t, "Dyspnea", found.Tags[0].Label)
	})

	t.Run("replaces the previous tag set on update", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDocumentService(setupTestDB(t), testRegistry(t))
		ctx := context.Background()

		first := webDoc("https://example.org/ff27")
		_, err := svc.UpsertDocumentWithTags(ctx, first, []carefacts.TagAssignment{
			{Label: "Dyspnea", Confidence: 0.9},
		})
		require.NoError(t, err)

		second := webDoc("https://example.org/ff27")
		second.ContentHash = "def456"
		wasUpdate, err := svc.UpsertDocumentWithTags(ctx, second, []carefacts.TagAssignment{
			{Label: "Pain", Confidence: 0.6},
		})
		require.NoError(t, err)
		assert.True(t, wasUpdate)

		found, err := svc.FindDocumentByID(ctx, first.ID)
		require.NoError(t, err)
		require.Len(t, found.Tags, 1)
		assert.Equal(t, "Pain", found.Tags[0].Label)
	})

	t.Run("unknown label persists neither document nor tags", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDocumentService(setupTestDB(t), testRegistry(t))
		ctx := context.Background()

		doc := webDoc("https://example.org/ff27")
		_, err := svc.UpsertDocumentWithTags(ctx, doc, []carefacts.TagAssignment{
			{Label: "Levitation", Confidence: 0.9},
		})
		require.Error(t, err)
		assert.Equal(t, carefacts.EUNKNOWNLABEL, carefacts.ErrorCode(err))

		_, err = svc.FindBySource(ctx, doc.URL, doc.SourceFile)
		require.Error(t, err)
		assert.Equal(t, carefacts.ENOTFOUND, carefacts.ErrorCode(err), "failed write leaves no partial document")
	})
}

func TestDocumentService_ReplaceTags(t *testing.T) {
	t.Parallel()

	t.Run("replaces the whole tag set", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDocumentService(setupTestDB(t), testRegistry(t))
		ctx := context.Background()

		doc := webDoc("https://example.org/ff27")
		_, err := svc.UpsertDocument(ctx, doc)
		require.NoError(t, err)

		err = svc.ReplaceTags(ctx, doc.ID, []carefacts.TagAssignment{
			{DocumentID: doc.ID, Label: "Dyspnea", Confidence: 0.8},
			{DocumentID: doc.ID, Label: "Cough", Confidence: 0.4},
		})
		require.NoError(t, err)

		err = svc.ReplaceTags(ctx, doc.ID, []carefacts.TagAssignment{
			{DocumentID: doc.ID, Label: "Pain", Confidence: 0.6},
		})
		require.NoError(t, err)

		found, err := svc.FindDocumentByID(ctx, doc.ID)
		require.NoError(t, err)
		require.Len(t, found.Tags, 1)
		assert.Equal(t, "Pain", found.Tags[0].Label)
	})

	t.Run("empty set clears all tags", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDocumentService(setupTestDB(t), testRegistry(t))
		ctx := context.Background()

		doc := webDoc("https://example.org/ff27")
		_, err := svc.UpsertDocument(ctx, doc)
		require.NoError(t, err)

		err = svc.ReplaceTags(ctx, doc.ID, []carefacts.TagAssignment{
			{DocumentID: doc.ID, Label: "Dyspnea", Confidence: 0.8},
		})
		require.NoError(t, err)

		require.NoError(t, svc.ReplaceTags(ctx, doc.ID, nil))

		found, err := svc.FindDocumentByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Empty(t, found.Tags)
	})

	t.Run("rejects a label outside the registry", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDocumentService(setupTestDB(t), testRegistry(t))
		ctx := context.Background()

		doc := webDoc("https://example.org/ff27")
		_, err := svc.UpsertDocument(ctx, doc)
		require.NoError(t, err)

		err = svc.ReplaceTags(ctx, doc.ID, []carefacts.TagAssignment{
			{DocumentID: doc.ID, Label: "Astrology", Confidence: 0.9},
		})
		require.Error(t, err)
		assert.Equal(t, carefacts.EUNKNOWNLABEL, carefacts.ErrorCode(err))

		// The rejected write must not disturb the existing (empty) set.
		found, err := svc.FindDocumentByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Empty(t, found.Tags)
	})

	t.Run("returns ENOTFOUND for a missing document", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDocumentService(setupTestDB(t), testRegistry(t))

		err := svc.ReplaceTags(context.Background(), "nope", []carefacts.TagAssignment{
			{DocumentID: "nope", Label: "Dyspnea", Confidence: 0.5},
		})
		require.Error(t, err)
		assert.Equal(t, carefacts.ENOTFOUND, carefacts.ErrorCode(err))
	})

	t.Run("rejects an out-of-range confidence", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDocumentService(setupTestDB(t), testRegistry(t))
		ctx := context.Background()

		doc := webDoc("https://example.org/ff27")
		_, err := svc.UpsertDocument(ctx, doc)
		require.NoError(t, err)

		err = svc.ReplaceTags(ctx, doc.ID, []carefacts.TagAssignment{
			{DocumentID: doc.ID, Label: "Dyspnea", Confidence: 1.5},
		})
		require.Error(t, err)
		assert.Equal(t, carefacts.EINVALID, carefacts.ErrorCode(err))
	})
}

func TestDocumentService_FindBySource(t *testing.T) {
	t.Parallel()

	t.Run("finds a document by its source pair", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDocumentService(setupTestDB(t), testRegistry(t))
		ctx := context.Background()

		doc := webDoc("https://example.org/ff27")
		_, err := svc.UpsertDocument(ctx, doc)
		require.NoError(t, err)

		require.NoError(t, svc.ReplaceTags(ctx, doc.ID, []carefacts.TagAssignment{
			{DocumentID: doc.ID, Label: "Dyspnea", Confidence: 0.8},
		}))

		found, err := svc.FindBySource(ctx, "https://example.org/ff27", "")
		require.NoError(t, err)

		assert.Equal(t, doc.ID, found.ID)
		require.Len(t, found.Tags, 1)
		assert.Equal(t, "Dyspnea", found.Tags[0].Label)
	})

	t.Run("returns ENOTFOUND for an unknown source", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDocumentService(setupTestDB(t), testRegistry(t))

		_, err := svc.FindBySource(context.Background(), "https://example.org/none", "")
		require.Error(t, err)
		assert.Equal(t, carefacts.ENOTFOUND, carefacts.ErrorCode(err))
	})
}

func TestDocumentService_FindDocuments(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T, svc *sqlite.DocumentService) []*carefacts.Document {
		t.Helper()
		ctx := context.Background()

		docs := []*carefacts.Document{
			webDoc("https://example.org/a"),
			webDoc("https://example.org/b"),
			{
				Title:       "Intake note",
				ContentType: carefacts.ContentTypeManual,
				URL:         "",
				SourceFile:  "notes/intake.txt",
				RawText:     "Family expressed anticipatory grief.",
			},
		}
		for _, doc := range docs {
			_, err := svc.UpsertDocument(ctx, doc)
			require.NoError(t, err)
		}

		require.NoError(t, svc.ReplaceTags(ctx, docs[0].ID, []carefacts.TagAssignment{
			{DocumentID: docs[0].ID, Label: "Dyspnea", Confidence: 0.8},
			{DocumentID: docs[0].ID, Label: "Cough", Confidence: 0.5},
		}))
		require.NoError(t, svc.ReplaceTags(ctx, docs[2].ID, []carefacts.TagAssignment{
			{DocumentID: docs[2].ID, Label: "Grief Support", Confidence: 0.7},
		}))
		return docs
	}

	t.Run("returns all documents without a filter", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDocumentService(setupTestDB(t), testRegistry(t))
		seed(t, svc)

		docs, err := svc.FindDocuments(context.Background(), carefacts.DocumentFilter{})
		require.NoError(t, err)
		assert.Len(t, docs, 3)
	})

	t.Run("filters by content type", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDocumentService(setupTestDB(t), testRegistry(t))
		seed(t, svc)

		ct := carefacts.ContentTypeManual
		docs, err := svc.FindDocuments(context.Background(), carefacts.DocumentFilter{ContentType: &ct})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Intake note", docs[0].Title)
	})

	t.Run("filters by tag label", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDocumentService(setupTestDB(t), testRegistry(t))
		seeded := seed(t, svc)

		label := "Dyspnea"
		docs, err := svc.FindDocuments(context.Background(), carefacts.DocumentFilter{TagLabel: &label})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, seeded[0].ID, docs[0].ID)
		assert.Len(t, docs[0].Tags, 2, "tags are loaded with the document")
	})

	t.Run("filters by ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDocumentService(setupTestDB(t), testRegistry(t))
		seeded := seed(t, svc)

		docs, err := svc.FindDocuments(context.Background(), carefacts.DocumentFilter{ID: &seeded[1].ID})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, seeded[1].ID, docs[0].ID)
	})

	t.Run("applies pagination", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewDocumentService(setupTestDB(t), testRegistry(t))
		seed(t, svc)

		page1, err := svc.FindDocuments(context.Background(), carefacts.DocumentFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, page1, 2)

		page2, err := svc.FindDocuments(context.Background(), carefacts.DocumentFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Len(t, page2, 1)
	})
}
