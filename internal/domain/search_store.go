package domain

import "context"

// SearchStore defines the contract to the external lexical search backend
// (e.g. Meilisearch). It owns documents and chunks once indexed.
type SearchStore interface {
	// IndexDocument stores the full document plus its chunks as
	// independently searchable units. Re-indexing the same document id
	// overwrites rather than duplicates.
	IndexDocument(ctx context.Context, doc Document, chunks []Chunk) error
	// SearchChunks returns up to limit chunk contents ranked by lexical
	// relevance, most relevant first.
	SearchChunks(ctx context.Context, query string, limit int) ([]string, error)
	// DeleteDocument removes the document and all of its chunks.
	DeleteDocument(ctx context.Context, documentID string) error
	// ListDocuments returns every indexed document.
	ListDocuments(ctx context.Context) ([]Document, error)
}
