package meilistore

import (
	"context"
	"fmt"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"golang.org/x/sync/errgroup"

	"docqa-orchestrator/internal/domain"
)

const (
	documentIndex = "documents"
	chunkIndex    = "document_chunks"

	taskTimeout  = 15 * time.Second
	listAllLimit = 1000
)

// SearchStore is the Meilisearch-backed lexical store for documents and
// their chunks. Meilisearch's typo-tolerant keyword matching provides the
// fuzzy lexical relevance ranking for chunk search.
type SearchStore struct {
	client meilisearch.ServiceManager
	docs   meilisearch.IndexManager
	chunks meilisearch.IndexManager
}

// New creates a SearchStore over the given Meilisearch client.
func New(client meilisearch.ServiceManager) *SearchStore {
	return &SearchStore{
		client: client,
		docs:   client.Index(documentIndex),
		chunks: client.Index(chunkIndex),
	}
}

type documentRecord struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Content    string `json:"content"`
	UploadedAt string `json:"uploadedAt"`
}

type chunkRecord struct {
	// ID is {documentID}-{sequenceNumber}. Stable ids make re-indexing a
	// document overwrite its chunks instead of duplicating them.
	ID             string `json:"id"`
	DocumentID     string `json:"documentId"`
	Content        string `json:"content"`
	SequenceNumber int    `json:"sequenceNumber"`
}

// EnsureIndexes creates the document and chunk indexes when missing and
// registers the filterable attribute used for chunk deletion.
func (s *SearchStore) EnsureIndexes(ctx context.Context) error {
	for _, idx := range []meilisearch.IndexManager{s.docs, s.chunks} {
		if _, err := idx.FetchInfo(); err == nil {
			continue
		}
		// Meilisearch creates an index on first document write; seed and
		// remove a placeholder so settings can be applied immediately.
		task, err := idx.AddDocuments([]map[string]interface{}{{"id": "init"}}, nil)
		if err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
		if _, err := idx.WaitForTask(task.TaskUID, taskTimeout); err != nil {
			return fmt.Errorf("failed to wait for index creation: %w", err)
		}
		if deleteTask, err := idx.DeleteDocument("init", nil); err == nil {
			_, _ = idx.WaitForTask(deleteTask.TaskUID, taskTimeout)
		}
	}

	task, err := s.chunks.UpdateFilterableAttributes(&[]interface{}{"documentId"})
	if err != nil {
		return fmt.Errorf("failed to set filterable attributes: %w", err)
	}
	if _, err := s.chunks.WaitForTask(task.TaskUID, taskTimeout); err != nil {
		return fmt.Errorf("failed to wait for filterable attributes: %w", err)
	}

	return nil
}

func (s *SearchStore) IndexDocument(ctx context.Context, doc domain.Document, chunks []domain.Chunk) error {
	// Drop chunks from any previous version first so a shrinking document
	// does not leave stale chunks behind.
	if err := s.deleteChunks(doc.ID); err != nil {
		return err
	}

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		task, err := s.docs.AddDocuments([]documentRecord{newDocumentRecord(doc)}, nil)
		if err != nil {
			return fmt.Errorf("failed to index document: %w", err)
		}
		if _, err := s.docs.WaitForTask(task.TaskUID, taskTimeout); err != nil {
			return fmt.Errorf("failed to wait for document indexing: %w", err)
		}
		return nil
	})

	if len(chunks) > 0 {
		records := newChunkRecords(chunks)
		g.Go(func() error {
			task, err := s.chunks.AddDocuments(records, nil)
			if err != nil {
				return fmt.Errorf("failed to index chunks: %w", err)
			}
			if _, err := s.chunks.WaitForTask(task.TaskUID, taskTimeout); err != nil {
				return fmt.Errorf("failed to wait for chunk indexing: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}

func (s *SearchStore) SearchChunks(ctx context.Context, query string, limit int) ([]string, error) {
	result, err := s.chunks.Search(query, &meilisearch.SearchRequest{
		Query: query,
		Limit: int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("chunk search failed: %w", err)
	}

	snippets := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		record, err := decodeChunkHit(hit)
		if err != nil {
			continue
		}
		if record.Content != "" {
			snippets = append(snippets, record.Content)
		}
	}

	return snippets, nil
}

func (s *SearchStore) DeleteDocument(ctx context.Context, documentID string) error {
	task, err := s.docs.DeleteDocument(documentID, nil)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if _, err := s.docs.WaitForTask(task.TaskUID, taskTimeout); err != nil {
		return fmt.Errorf("failed to wait for document deletion: %w", err)
	}

	return s.deleteChunks(documentID)
}

func (s *SearchStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	result, err := s.docs.Search("", &meilisearch.SearchRequest{
		Limit: listAllLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	docs := make([]domain.Document, 0, len(result.Hits))
	for _, hit := range result.Hits {
		doc, err := decodeDocumentHit(hit)
		if err != nil {
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func (s *SearchStore) deleteChunks(documentID string) error {
	task, err := s.chunks.DeleteDocumentsByFilter(chunkFilter(documentID), nil)
	if err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	if _, err := s.chunks.WaitForTask(task.TaskUID, taskTimeout); err != nil {
		return fmt.Errorf("failed to wait for chunk deletion: %w", err)
	}
	return nil
}

func newDocumentRecord(doc domain.Document) documentRecord {
	return documentRecord{
		ID:         doc.ID,
		Filename:   doc.Filename,
		Content:    doc.Content,
		UploadedAt: doc.UploadedAt.UTC().Format(time.RFC3339),
	}
}

func newChunkRecords(chunks []domain.Chunk) []chunkRecord {
	records := make([]chunkRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = chunkRecord{
			ID:             fmt.Sprintf("%s-%d", chunk.DocumentID, chunk.SequenceNumber),
			DocumentID:     chunk.DocumentID,
			Content:        chunk.Content,
			SequenceNumber: chunk.SequenceNumber,
		}
	}
	return records
}

// chunkFilter quotes the document id so filter expressions stay valid for
// arbitrary ids.
func chunkFilter(documentID string) string {
	return fmt.Sprintf("documentId = %q", documentID)
}

// decodeChunkHit unmarshals a search hit's raw fields into a chunkRecord.
func decodeChunkHit(hit meilisearch.Hit) (chunkRecord, error) {
	var record chunkRecord
	if err := hit.Decode(&record); err != nil {
		return chunkRecord{}, fmt.Errorf("failed to decode chunk hit: %w", err)
	}
	return record, nil
}

// decodeDocumentHit unmarshals a search hit into a domain document. A
// missing or malformed timestamp leaves UploadedAt zero rather than
// dropping the document.
func decodeDocumentHit(hit meilisearch.Hit) (domain.Document, error) {
	var record documentRecord
	if err := hit.Decode(&record); err != nil {
		return domain.Document{}, fmt.Errorf("failed to decode document hit: %w", err)
	}

	doc := domain.Document{
		ID:       record.ID,
		Filename: record.Filename,
		Content:  record.Content,
	}
	if record.UploadedAt != "" {
		if parsed, err := time.Parse(time.RFC3339, record.UploadedAt); err == nil {
			doc.UploadedAt = parsed
		}
	}
	return doc, nil
}

var _ domain.SearchStore = (*SearchStore)(nil)
