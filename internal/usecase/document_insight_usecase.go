package usecase

import (
	"context"
	"log/slog"
	"strings"

	"docqa-orchestrator/internal/domain"
)

const (
	summarySystemPrompt  = "You are a document summarization assistant. Provide accurate and clear summaries."
	keyPointSystemPrompt = "You are a key point extraction assistant. Respond only in concise bullet points."

	summaryInstruction  = "Please provide a comprehensive but concise summary of the following document:\n\n"
	keyPointInstruction = "Please extract the key points from the following document in clear bullet point format:\n\n"

	noSummaryReply   = "No summary generated."
	noKeyPointsReply = "No key points extracted."

	genericSummaryError  = "An unexpected error occurred while summarizing the document."
	genericKeyPointError = "An unexpected error occurred while extracting key points."
)

// DocumentInsightUsecase produces one-shot, history-free completions over a
// single document: summaries and key point extraction. These exchanges are
// independent of per-user conversation memory and are never persisted.
type DocumentInsightUsecase interface {
	Summarize(ctx context.Context, documentID string) (string, error)
	ExtractKeyPoints(ctx context.Context, documentID string) (string, error)
}

type documentInsightUsecase struct {
	store      domain.SearchStore
	chat       domain.ChatClient
	logger     *slog.Logger
	logPrompts bool
}

// NewDocumentInsightUsecase creates a DocumentInsightUsecase over the given
// search store and completion client.
func NewDocumentInsightUsecase(store domain.SearchStore, chat domain.ChatClient, logger *slog.Logger, logPrompts bool) DocumentInsightUsecase {
	return &documentInsightUsecase{
		store:      store,
		chat:       chat,
		logger:     logger,
		logPrompts: logPrompts,
	}
}

func (u *documentInsightUsecase) Summarize(ctx context.Context, documentID string) (string, error) {
	return u.oneShot(ctx, documentID, summarySystemPrompt, summaryInstruction, noSummaryReply, genericSummaryError)
}

func (u *documentInsightUsecase) ExtractKeyPoints(ctx context.Context, documentID string) (string, error) {
	return u.oneShot(ctx, documentID, keyPointSystemPrompt, keyPointInstruction, noKeyPointsReply, genericKeyPointError)
}

func (u *documentInsightUsecase) oneShot(ctx context.Context, documentID, systemPrompt, instruction, emptyReply, genericMsg string) (string, error) {
	if strings.TrimSpace(documentID) == "" {
		return "", domain.InvalidInput("DocumentId cannot be empty.")
	}

	docs, err := u.store.ListDocuments(ctx)
	if err != nil {
		u.logger.Error("failed to list documents", "document_id", documentID, "error", err)
		return "", domain.Backend(genericMsg)
	}

	var doc *domain.Document
	for i := range docs {
		if docs[i].ID == documentID {
			doc = &docs[i]
			break
		}
	}
	if doc == nil {
		return "", domain.NotFound("Document not found.")
	}

	prompt := instruction + doc.Content
	if u.logPrompts {
		u.logger.Info("prompt sent to model", "document_id", documentID, "prompt", prompt)
	}

	turns := []domain.Turn{
		{Role: domain.RoleSystem, Text: systemPrompt},
		{Role: domain.RoleUser, Text: prompt},
	}

	reply, err := u.chat.Complete(ctx, turns)
	if err != nil {
		u.logger.Error("chat completion failed", "document_id", documentID, "error", err)
		return "", domain.Backend(genericMsg)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = emptyReply
	}

	return reply, nil
}
