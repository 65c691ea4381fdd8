package rag

import (
	"context"
	"time"

	"github.com/akolanti/studypadi/internal/adapter/utils"
	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/domain/jobModel"
	"github.com/akolanti/studypadi/internal/domain/studyModel"
	"github.com/akolanti/studypadi/internal/llm"
	"github.com/akolanti/studypadi/internal/metrics"
	"github.com/akolanti/studypadi/internal/rag/embedding"
	"github.com/akolanti/studypadi/internal/rag/vectorDB"
	"github.com/akolanti/studypadi/pkg/logger_i"
)

// Service is all the worker and the ingestion pipeline see of document Q&A.
// The vector store, embedder and model stay private to the implementation so tests can swap them.
type Service interface {
	AnswerQuestion(ctx context.Context, job jobModel.Job) jobModel.Job
	IndexDocument(ctx context.Context, ownerId string, result studyModel.IngestResult, doc studyModel.StructuredDocument) error
}

type service struct {
	vectorDB    vectorDB.DataProcessor
	llmProvider llm.Generator
	embedder    embedding.Embedder
	logger      *logger_i.Logger
}

func NewService(vector vectorDB.DataProcessor, llm llm.Generator, em embedding.Embedder) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: llm,
		embedder:    em,
		logger:      logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) AnswerQuestion(ctx context.Context, jobt jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.ForContext(ctx).With("JobId", jobt.Id, "documentId", jobt.JobPayload.DocumentId)

	processContext, cancel := context.WithTimeout(ctx, config.AskJobTimeout)
	defer cancel()

	emb, err := s.executeEmbeddingStep(processContext, inMethodLogger, &jobt)
	if err != nil {
		return s.jobError(jobt, err, "EMBEDDING_FAILURE", true)
	}

	cachedAnswer, found := s.executeCacheCheckStep(processContext, inMethodLogger, &jobt, emb)
	if found {
		return returnOutput(jobt, cachedAnswer)
	}

	matches, err := s.executeVectorSearchStep(processContext, inMethodLogger, &jobt, emb)
	if err != nil {
		return s.jobError(jobt, err, "VECTOR_DB_FAILURE", true)
	}
	if len(matches) == 0 {
		inMethodLogger.Info("no indexed chunks matched")
		return returnOutput(jobt, config.QANoContextAnswer)
	}

	answer, err := s.executeLLMStep(processContext, inMethodLogger, &jobt, matches)
	if err != nil {
		return s.jobError(jobt, err, "LLM_GENERATION_FAILURE", true)
	}

	//cache write outlives the job context
	cacheCtx := context.WithoutCancel(ctx)
	go func() {
		err := s.vectorDB.SaveToCache(cacheCtx, utils.GetNewUUID(), jobt.OwnerId, jobt.JobPayload.DocumentId, emb, answer)
		if err != nil {
			s.logger.Error("Failed to save to cache", "error", err)
		}
	}()

	return returnOutput(jobt, answer)
}

// IndexDocument embeds every chunk of a freshly persisted document for later questions.
func (s *service) IndexDocument(ctx context.Context, ownerId string, result studyModel.IngestResult, doc studyModel.StructuredDocument) error {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_indexing", time.Since(start)) }()

	indexCtx, cancel := context.WithTimeout(ctx, config.IndexDocumentTimeout)
	defer cancel()

	points := chunkPoints(ownerId, result, doc)
	if len(points) == 0 {
		return nil
	}
	contents := make([]string, len(points))
	for i, p := range points {
		contents[i] = p.Content
	}

	vectors, err := s.embedder.BatchEmbedding(indexCtx, contents)
	if err != nil {
		return err
	}
	if err := s.vectorDB.UpsertChunks(indexCtx, points, vectors); err != nil {
		return err
	}
	s.logger.ForContext(ctx).Info("document indexed", "documentId", result.DocumentId, "chunks", len(points))
	return nil
}
