package di

import (
	"log/slog"
	"time"

	"github.com/meilisearch/meilisearch-go"

	"docqa-orchestrator/internal/adapter/meilistore"
	"docqa-orchestrator/internal/adapter/ollamachat"
	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/infra/config"
	"docqa-orchestrator/internal/infra/httpclient"
	"docqa-orchestrator/internal/usecase"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	SearchStore   *meilistore.SearchStore
	ChatClient    domain.ChatClient
	Conversations usecase.ConversationStore

	IngestUsecase   usecase.IngestDocumentUsecase
	RetrieveUsecase usecase.RetrieveContextUsecase
	AskUsecase      usecase.AskQuestionUsecase
	InsightUsecase  usecase.DocumentInsightUsecase
}

// NewApplicationComponents wires all dependencies from config.
func NewApplicationComponents(cfg *config.Config, log *slog.Logger) *ApplicationComponents {
	// External clients
	var meiliClient meilisearch.ServiceManager
	if cfg.MeiliAPIKey != "" {
		meiliClient = meilisearch.New(cfg.MeiliURL, meilisearch.WithAPIKey(cfg.MeiliAPIKey))
	} else {
		meiliClient = meilisearch.New(cfg.MeiliURL)
	}
	searchStore := meilistore.New(meiliClient)

	chatHTTP := httpclient.NewPooledClient(time.Duration(cfg.ChatTimeout) * time.Second)
	chatClient := ollamachat.New(cfg.OllamaURL, cfg.ChatModel, chatHTTP, cfg.ChatRateLimit)

	// Domain services
	chunker := domain.NewChunker()
	conversations := usecase.NewConversationStore()

	// Usecases
	var retrieveOpts []usecase.RetrieveContextOption
	if cfg.SnippetCacheSize > 0 {
		retrieveOpts = append(retrieveOpts,
			usecase.WithSnippetCache(cfg.SnippetCacheSize, time.Duration(cfg.SnippetCacheTTL)*time.Minute))
		log.Info("snippet_cache_enabled",
			slog.Int("size", cfg.SnippetCacheSize),
			slog.Int("ttl_minutes", cfg.SnippetCacheTTL))
	}
	retrieveUsecase := usecase.NewRetrieveContextUsecase(searchStore, cfg.SearchMaxResults, log, retrieveOpts...)

	ingestUsecase := usecase.NewIngestDocumentUsecase(searchStore, chunker, log)
	askUsecase := usecase.NewAskQuestionUsecase(retrieveUsecase, conversations, chatClient, log, cfg.LogPrompts)
	insightUsecase := usecase.NewDocumentInsightUsecase(searchStore, chatClient, log, cfg.LogPrompts)

	return &ApplicationComponents{
		SearchStore:     searchStore,
		ChatClient:      chatClient,
		Conversations:   conversations,
		IngestUsecase:   ingestUsecase,
		RetrieveUsecase: retrieveUsecase,
		AskUsecase:      askUsecase,
		InsightUsecase:  insightUsecase,
	}
}
