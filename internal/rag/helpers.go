package rag

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/akolanti/studypadi/internal/adapter/utils"
	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/domain/jobModel"
	"github.com/akolanti/studypadi/internal/domain/studyModel"
	"github.com/akolanti/studypadi/internal/metrics"
	"github.com/akolanti/studypadi/internal/rag/vectorDB"
	"github.com/akolanti/studypadi/pkg/logger_i"
)

func returnOutput(job jobModel.Job, ans string) jobModel.Job {
	job.JobPayload.Answer = ans
	job.Phase = jobModel.PhaseDone
	job.Progress = 100
	return job
}

func logOutput(job jobModel.Job, phase jobModel.Phase, log *logger_i.Logger) jobModel.Job {
	job.Phase = phase
	log.Debug("AnswerQuestion", "phase", job.Phase)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err, "jobId", job.Id)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Kind:    message,
		Message: "Internal Server Error",
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	job.Phase = jobModel.PhaseFailed
	return job
}

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) ([]float32, error) {
	*job = logOutput(*job, jobModel.PhaseEmbedding, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.GetEmbedding(ctx, job.JobPayload.Question)
}

func (s *service) executeCacheCheckStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, emb []float32) (string, bool) {
	*job = logOutput(*job, jobModel.PhaseCache, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	ans, found, _ := s.vectorDB.GetCachedAnswer(ctx, job.OwnerId, job.JobPayload.DocumentId, emb)
	return ans, found
}

func (s *service) executeVectorSearchStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, emb []float32) ([]vectorDB.Match, error) {
	*job = logOutput(*job, jobModel.PhaseSearch, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	matches, err := s.vectorDB.Search(ctx, job.OwnerId, job.JobPayload.DocumentId, emb)
	job.JobPayload.Sources = sources(matches)
	return matches, err
}

func (s *service) executeLLMStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, matches []vectorDB.Match) (string, error) {
	*job = logOutput(*job, jobModel.PhaseAnswer, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.llmProvider.Generate(ctx, config.QAModelContext, questionPrompt(job.JobPayload.Question, matches))
}

func questionPrompt(question string, matches []vectorDB.Match) string {
	var b strings.Builder
	b.WriteString("DOCUMENT EXCERPTS:\n")
	for i, m := range matches {
		fmt.Fprintf(&b, "[%d] (%s) %s\n", i+1, m.SectionTitle, m.Content)
	}
	b.WriteString("\nQUESTION: ")
	b.WriteString(question)
	return b.String()
}

func sources(matches []vectorDB.Match) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, fmt.Sprintf("%s (section %d, chunk %d)", m.SectionTitle, m.SectionIndex+1, m.ChunkIndex+1))
	}
	return out
}

func chunkPoints(ownerId string, result studyModel.IngestResult, doc studyModel.StructuredDocument) []vectorDB.ChunkPoint {
	var points []vectorDB.ChunkPoint
	for si, section := range doc.Sections {
		for ci, chunk := range section.Chunks {
			points = append(points, vectorDB.ChunkPoint{
				Id:            utils.GetNewUUID(),
				OwnerId:       ownerId,
				DocumentId:    result.DocumentId,
				DocumentTitle: result.Title,
				SectionTitle:  section.Title,
				SectionIndex:  si,
				ChunkIndex:    ci,
				Content:       chunk.Content,
			})
		}
	}
	return points
}
