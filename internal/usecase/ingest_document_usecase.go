package usecase

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docqa-orchestrator/internal/domain"

	"github.com/google/uuid"
)

// UploadResult reports the outcome of a successful document ingestion.
type UploadResult struct {
	DocumentID string
	Message    string
}

// IngestDocumentUsecase handles document ingestion and the document
// pass-through operations. Upload by content and upload by filesystem path
// are two distinctly named operations on the same contract.
type IngestDocumentUsecase interface {
	UploadBytes(ctx context.Context, content []byte, filename string) (*UploadResult, error)
	UploadFile(ctx context.Context, path string) (*UploadResult, error)
	ListDocuments(ctx context.Context) ([]domain.Document, error)
	DeleteDocument(ctx context.Context, documentID string) error
}

type ingestDocumentUsecase struct {
	store   domain.SearchStore
	chunker domain.Chunker
	logger  *slog.Logger
}

// NewIngestDocumentUsecase creates an IngestDocumentUsecase over the given
// search store and chunker.
func NewIngestDocumentUsecase(store domain.SearchStore, chunker domain.Chunker, logger *slog.Logger) IngestDocumentUsecase {
	return &ingestDocumentUsecase{
		store:   store,
		chunker: chunker,
		logger:  logger,
	}
}

func (u *ingestDocumentUsecase) UploadBytes(ctx context.Context, content []byte, filename string) (*UploadResult, error) {
	text := string(content)
	if strings.TrimSpace(text) == "" {
		return nil, domain.InvalidInput("File appears to be empty or unreadable")
	}

	doc := domain.Document{
		ID:         uuid.NewString(),
		Filename:   filename,
		Content:    text,
		UploadedAt: time.Now().UTC(),
	}
	chunks := u.chunker.Chunk(doc.Content, doc.ID)

	if err := u.store.IndexDocument(ctx, doc, chunks); err != nil {
		u.logger.Error("failed to index document", "document_id", doc.ID, "filename", filename, "error", err)
		return nil, domain.Backend("Failed to index document")
	}

	u.logger.Info("document indexed", "document_id", doc.ID, "filename", filename, "chunks", len(chunks))

	return &UploadResult{
		DocumentID: doc.ID,
		Message:    "Document processed successfully",
	}, nil
}

func (u *ingestDocumentUsecase) UploadFile(ctx context.Context, path string) (*UploadResult, error) {
	if strings.TrimSpace(path) == "" {
		return nil, domain.InvalidInput("No file path provided")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.NotFound("File does not exist")
		}
		u.logger.Error("failed to read file", "path", path, "error", err)
		return nil, domain.Backend("File appears to be empty or unreadable")
	}

	return u.UploadBytes(ctx, content, filepath.Base(path))
}

func (u *ingestDocumentUsecase) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	return u.store.ListDocuments(ctx)
}

func (u *ingestDocumentUsecase) DeleteDocument(ctx context.Context, documentID string) error {
	if strings.TrimSpace(documentID) == "" {
		return domain.InvalidInput("DocumentId cannot be empty.")
	}
	return u.store.DeleteDocument(ctx, documentID)
}
