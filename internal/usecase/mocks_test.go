package usecase_test

import (
	"context"

	"docqa-orchestrator/internal/domain"

	"github.com/stretchr/testify/mock"
)

type mockSearchStore struct {
	mock.Mock
}

func (m *mockSearchStore) IndexDocument(ctx context.Context, doc domain.Document, chunks []domain.Chunk) error {
	args := m.Called(ctx, doc, chunks)
	return args.Error(0)
}

func (m *mockSearchStore) SearchChunks(ctx context.Context, query string, limit int) ([]string, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockSearchStore) DeleteDocument(ctx context.Context, documentID string) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}

func (m *mockSearchStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

type mockChatClient struct {
	mock.Mock
}

func (m *mockChatClient) Complete(ctx context.Context, turns []domain.Turn) (string, error) {
	args := m.Called(ctx, turns)
	return args.String(0), args.Error(1)
}

func (m *mockChatClient) Version() string {
	return "mock"
}

type mockChunker struct {
	mock.Mock
}

func (m *mockChunker) Chunk(content, documentID string) []domain.Chunk {
	args := m.Called(content, documentID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Chunk)
}

type mockRetrieveContextUsecase struct {
	mock.Mock
}

func (m *mockRetrieveContextUsecase) Execute(ctx context.Context, query string) []string {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}
