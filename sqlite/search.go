package sqlite

import (
	"context"
	"sort"
	"strings"

	"github.com/carefacts/carefacts"
	"github.com/carefacts/carefacts/classify"
)

// Compile-time interface verification.
var _ carefacts.SearchService = (*SearchService)(nil)

// SearchService implements carefacts.SearchService using SQLite for
// candidate selection and the lexical scorer for relevance ranking.
type SearchService struct {
	db     *DB
	scorer *classify.Scorer
}

// NewSearchService creates a new SearchService. A nil scorer falls back
// to the default scoring weights.
func NewSearchService(db *DB, scorer *classify.Scorer) *SearchService {
	if scorer == nil {
		scorer = classify.NewScorer(nil, classify.DefaultWeights())
	}
	return &SearchService{db: db, scorer: scorer}
}

// Search returns documents matching the query. Tag and content type
// filters narrow candidates in SQL; text relevance is scored in Go so
// ranking matches classification scoring. Without query text, results
// are ordered by creation time descending.
func (s *SearchService) Search(ctx context.Context, q carefacts.SearchQuery) ([]carefacts.SearchResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(q.Text) == "" {
		return s.listCandidates(ctx, q)
	}
	return s.scoreCandidates(ctx, q)
}

// listCandidates handles queries without text. Pagination happens in SQL.
func (s *SearchService) listCandidates(ctx context.Context, q carefacts.SearchQuery) ([]carefacts.SearchResult, error) {
	query, args := s.candidateQuery(q)
	query.WriteString(" ORDER BY created_at DESC, id ASC")
	appendPagination(query, &args, q.Limit, q.Offset)

	docs, err := s.fetchDocuments(ctx, query.String(), args)
	if err != nil {
		return nil, err
	}

	results := make([]carefacts.SearchResult, len(docs))
	for i, doc := range docs {
		results[i] = carefacts.SearchResult{Document: doc}
	}
	return results, nil
}

// scoreCandidates handles text queries. All candidates are fetched and
// scored in Go; documents with zero relevance are dropped and pagination
// applies to the ranked list.
func (s *SearchService) scoreCandidates(ctx context.Context, q carefacts.SearchQuery) ([]carefacts.SearchResult, error) {
	terms := s.scorer.Tokenizer().Tokenize(q.Text)

	query, args := s.candidateQuery(q)
	appendTermPrefilter(query, &args, terms)
	query.WriteString(" ORDER BY created_at DESC, id ASC")

	docs, err := s.fetchDocuments(ctx, query.String(), args)
	if err != nil {
		return nil, err
	}

	var results []carefacts.SearchResult
	for _, doc := range docs {
		profile := s.scorer.Profile(doc.Title, doc.Summary, doc.RawText)
		score := s.scorer.Score(terms, nil, profile)
		if score <= 0 {
			continue
		}
		results = append(results, carefacts.SearchResult{Document: doc, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if !results[i].Document.CreatedAt.Equal(results[j].Document.CreatedAt) {
			return results[i].Document.CreatedAt.After(results[j].Document.CreatedAt)
		}
		return results[i].Document.ID < results[j].Document.ID
	})

	if q.Offset >= len(results) {
		return nil, nil
	}
	results = results[q.Offset:]
	if q.Limit < len(results) {
		results = results[:q.Limit]
	}
	return results, nil
}

// candidateQuery builds the WHERE clause shared by both search paths.
// The tag filter is conjunctive: a document must hold every listed label.
func (s *SearchService) candidateQuery(q carefacts.SearchQuery) (*strings.Builder, []any) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, title, summary, url, content_type, source_file, raw_text, content_hash, created_at, updated_at FROM content_master WHERE 1=1`)

	if q.ContentType != nil {
		query.WriteString(" AND content_type = ?")
		args = append(args, string(*q.ContentType))
	}
	// Repeated labels must collapse to one, or the HAVING count could
	// never be satisfied.
	if tags := dedupeLabels(q.Tags); len(tags) > 0 {
		placeholders := strings.Repeat("?, ", len(tags)-1) + "?"
		query.WriteString(" AND id IN (SELECT document_id FROM tag_assignments WHERE label IN (" + placeholders + ")")
		query.WriteString(" GROUP BY document_id HAVING COUNT(DISTINCT label) = ?)")
		for _, tag := range tags {
			args = append(args, tag)
		}
		args = append(args, len(tags))
	}

	return &query, args
}

// dedupeLabels drops repeated labels preserving first-seen order.
func dedupeLabels(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}

// appendTermPrefilter narrows text-query candidates in SQL: a document must
// contain at least one query term somewhere, matching the scorer's rule that
// zero coverage scores zero. Exact relevance is still computed in Go.
func appendTermPrefilter(query *strings.Builder, args *[]any, terms []string) {
	if len(terms) == 0 {
		return
	}

	groups := make([]string, len(terms))
	for i, term := range terms {
		groups[i] = "(title LIKE ? OR summary LIKE ? OR raw_text LIKE ?)"
		pattern := "%" + term + "%"
		*args = append(*args, pattern, pattern, pattern)
	}
	query.WriteString(" AND (" + strings.Join(groups, " OR ") + ")")
}

func (s *SearchService) fetchDocuments(ctx context.Context, query string, args []any) ([]*carefacts.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
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
