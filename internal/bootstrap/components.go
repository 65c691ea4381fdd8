package bootstrap

import (
	"context"
	"fmt"

	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/customHttpClient"
	"github.com/akolanti/studypadi/internal/data/docStore"
	"github.com/akolanti/studypadi/internal/domain/studyModel"
	"github.com/akolanti/studypadi/internal/ingest"
	"github.com/akolanti/studypadi/internal/ingest/extract"
	"github.com/akolanti/studypadi/internal/ingest/persist"
	"github.com/akolanti/studypadi/internal/ingest/structure"
	"github.com/akolanti/studypadi/internal/llm"
	"github.com/akolanti/studypadi/internal/llm/gateway"
	"github.com/akolanti/studypadi/internal/llm/gemini"
	"github.com/akolanti/studypadi/internal/rag"
	"github.com/akolanti/studypadi/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/studypadi/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/studypadi/pkg/logger_i"
)

// Components is everything the API server and the MCP server share.
type Components struct {
	Documents studyModel.DocumentStore
	Pipeline  *ingest.Pipeline
	//nil when question answering is disabled
	Answers rag.Service
}

func (c *Components) Close() {
	if c.Documents != nil {
		c.Documents.Close()
	}
}

// Build wires the ingestion pipeline and, when Qdrant and embeddings are reachable,
// document question answering. The external clients close when ctx is cancelled.
func Build(ctx context.Context, settings config.Settings) (*Components, error) {
	logger := logger_i.NewLogger("bootstrap")

	provider, err := NewProvider(ctx, settings)
	if err != nil {
		return nil, err
	}

	documents, err := NewDocumentStore(ctx, settings, logger)
	if err != nil {
		return nil, err
	}

	pipeline := ingest.NewPipeline(extract.NewExtractor(), structure.NewService(provider), persist.NewFanout(documents))
	components := &Components{Documents: documents, Pipeline: pipeline}

	vectorDB := qdrantDB.GetQuadrantClient(ctx, settings.QdrantHost, settings.QdrantPort)
	embedder := googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, settings.GoogleAPIKey)
	if vectorDB == nil || embedder == nil {
		logger.Warn("Document questions disabled", "VectorDB", vectorDB != nil, "EmbeddingService", embedder != nil)
		return components, nil
	}
	components.Answers = rag.NewService(vectorDB, provider, embedder)
	pipeline.WithIndexer(components.Answers)
	logger.Info("Document questions enabled")
	return components, nil
}

// NewProvider picks the structuring and answering model backend from STRUCTURER_PROVIDER.
func NewProvider(ctx context.Context, settings config.Settings) (llm.Provider, error) {
	switch settings.StructurerProvider {
	case config.ProviderGateway:
		if settings.AIGatewayKey == "" {
			return nil, fmt.Errorf("AI_GATEWAY_KEY is required for the %q provider", config.ProviderGateway)
		}
		return gateway.NewClient(settings.AIGatewayURL, settings.AIGatewayKey, settings.AIModel, customHttpClient.PooledClient()), nil
	case config.ProviderGemini:
		if settings.GoogleAPIKey == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY is required for the %q provider", config.ProviderGemini)
		}
		provider := gemini.GetGeminiClient(ctx, settings.GoogleAPIKey, config.GeminiStructurerModelName)
		if provider == nil {
			return nil, fmt.Errorf("could not create the gemini client")
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown STRUCTURER_PROVIDER %q", settings.StructurerProvider)
	}
}

// NewDocumentStore uses Postgres when DATABASE_URL is set and memory otherwise.
func NewDocumentStore(ctx context.Context, settings config.Settings, logger *logger_i.Logger) (studyModel.DocumentStore, error) {
	if settings.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, documents are kept in memory only")
		return docStore.NewMemoryStore(), nil
	}
	store, err := docStore.NewPostgresStore(ctx, settings.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("document store: %w", err)
	}
	return store, nil
}
