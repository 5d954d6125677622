package usecase

import (
	"context"
	"log/slog"
	"time"

	"docqa-orchestrator/internal/domain"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMaxResults bounds retrieval when no limit is configured.
const DefaultMaxResults = 5

// RetrieveContextUsecase returns the chunk snippets relevant to a question,
// most relevant first. Backend failure degrades to an empty result instead
// of propagating: answering continues without retrieved context.
type RetrieveContextUsecase interface {
	Execute(ctx context.Context, query string) []string
}

type retrieveContextUsecase struct {
	store      domain.SearchStore
	maxResults int
	cache      *expirable.LRU[string, []string]
	logger     *slog.Logger
}

// RetrieveContextOption configures optional retrieval behavior.
type RetrieveContextOption func(*retrieveContextUsecase)

// WithSnippetCache enables an expiring LRU cache of query results, saving a
// search round-trip when the same question is asked repeatedly.
func WithSnippetCache(size int, ttl time.Duration) RetrieveContextOption {
	return func(u *retrieveContextUsecase) {
		u.cache = expirable.NewLRU[string, []string](size, nil, ttl)
	}
}

// NewRetrieveContextUsecase creates a RetrieveContextUsecase backed by the
// given search store.
func NewRetrieveContextUsecase(store domain.SearchStore, maxResults int, logger *slog.Logger, opts ...RetrieveContextOption) RetrieveContextUsecase {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	u := &retrieveContextUsecase{
		store:      store,
		maxResults: maxResults,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *retrieveContextUsecase) Execute(ctx context.Context, query string) []string {
	if u.cache != nil {
		if snippets, ok := u.cache.Get(query); ok {
			return snippets
		}
	}

	snippets, err := u.store.SearchChunks(ctx, query, u.maxResults)
	if err != nil {
		u.logger.Warn("chunk search failed, continuing without context", "error", err)
		return nil
	}

	if u.cache != nil && len(snippets) > 0 {
		u.cache.Add(query, snippets)
	}

	return snippets
}
