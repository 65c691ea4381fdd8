package googleEmbedding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/rag/embedding"
	"github.com/akolanti/studypadi/pkg/logger_i"
	"google.golang.org/genai"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
var dimension int32 = config.EmbeddingOutputDimensionality

const (
	taskDocument = "RETRIEVAL_DOCUMENT"
	taskQuery    = "RETRIEVAL_QUERY"
)

type client struct {
	genAi     *genai.Client
	model     string
	batchSize int
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		logger.Error("Error creating Google Embedding client:", "error", err)
	}
	if c != nil {
		embeddingClient = &client{
			genAi:     c,
			model:     modelName,
			batchSize: config.EmbeddingBatchSize,
		}
		logger.Info("Google Embedding client created", "model", modelName)
	}
}

// GetGoogleEmbeddingClient returns nil without an API key or when the client cannot be built.
func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		if apikey == "" {
			logger.Warn("GOOGLE_API_KEY not set, embeddings are disabled")
			return
		}
		newGoogleEmbedder(ctx, modelName, apikey)
	})

	if embeddingClient == nil {
		return nil
	}
	return embeddingClient
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	res, err := c.doCall(ctx, genai.Text(query), taskQuery)
	if err != nil {
		logger.ForContext(ctx).Error("Error getting query embedding from Google", "error", err)
		return nil, err
	}
	if len(res.Embeddings) == 0 {
		return nil, fmt.Errorf("embedding response was empty")
	}
	return res.Embeddings[0].Values, nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	log := logger.ForContext(ctx).With("chunks", len(chunks))

	results := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += c.batchSize {
		end := min(start+c.batchSize, len(chunks))
		part := chunks[start:end]

		res, err := c.doCall(ctx, getContent(part), taskDocument)
		if err != nil && doRetry(err, log) {
			log.Debug("Retrying in 5 seconds")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(5 * time.Second):
			}
			res, err = c.doCall(ctx, getContent(part), taskDocument)
		}
		if err != nil {
			log.Error("Error getting Embeddings from Google", "error", err)
			return nil, err
		}
		if len(res.Embeddings) != len(part) {
			return nil, fmt.Errorf("expected %d embeddings, got %d", len(part), len(res.Embeddings))
		}
		for _, e := range res.Embeddings {
			results = append(results, e.Values)
		}
	}
	return results, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content, task string) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: task})
}
