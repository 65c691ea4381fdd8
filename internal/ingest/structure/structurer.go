package structure

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/domain/failure"
	"github.com/akolanti/studypadi/internal/domain/studyModel"
	"github.com/akolanti/studypadi/internal/llm"
	"github.com/akolanti/studypadi/internal/metrics"
	"github.com/akolanti/studypadi/pkg/logger_i"
)

type DocumentStructurer interface {
	Structure(ctx context.Context, text string, filenameHint string) (studyModel.StructuredDocument, error)
}

type Service struct {
	backend llm.StructuredCompleter
	timeout time.Duration
	logger  *logger_i.Logger
}

var _ DocumentStructurer = (*Service)(nil)

func NewService(backend llm.StructuredCompleter) *Service {
	return &Service{
		backend: backend,
		timeout: config.StructurerRequestTimeout,
		logger:  logger_i.NewLogger("Document Structurer"),
	}
}

// Structure makes exactly one model call. Text under the minimum never reaches the model.
func (s *Service) Structure(ctx context.Context, text string, filenameHint string) (studyModel.StructuredDocument, error) {
	log := s.logger.ForContext(ctx)

	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < config.MinStructureTextSize {
		return studyModel.StructuredDocument{}, failure.Errorf(failure.TooLittleContent,
			"need at least %d characters, got %d", config.MinStructureTextSize, utf8.RuneCountInString(trimmed))
	}
	input := Truncate(trimmed, config.MaxStructureTextSize)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.backend.CompleteStructured(callCtx, llm.StructuredRequest{
		System:          SystemPolicy,
		User:            UserPrompt(input, filenameHint),
		ToolName:        config.StructureToolName,
		ToolDescription: toolDescription,
		Schema:          ToolSchema(),
		MaxTokens:       config.StructurerMaxTokens,
		Temperature:     config.StructurerTemperature,
	})
	metrics.CaptureExecutionMetrics("structurer", time.Since(start))
	if err != nil {
		mapped := failure.As(err, failure.ServiceUnavailable)
		log.Error("structuring call failed", "kind", mapped.Kind, "error", err)
		return studyModel.StructuredDocument{}, mapped
	}

	doc, report, err := Decode(raw)
	if err != nil {
		log.Error("structured payload rejected", "error", err, "payloadBytes", len(raw))
		return studyModel.StructuredDocument{}, err
	}
	if !report.Clean() {
		log.Warn("dropped invalid items from structured payload",
			"sections", report.DroppedSections,
			"chunks", report.DroppedChunks,
			"questions", report.DroppedQuestions,
			"flashcards", report.DroppedFlashcards)
	}
	log.Info("document structured", "sections", len(doc.Sections), "flashcards", len(doc.Flashcards), "inputRunes", utf8.RuneCountInString(input))
	return doc, nil
}

// Truncate keeps the first limit runes of text.
func Truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	count := 0
	for i := range text {
		if count == limit {
			return text[:i]
		}
		count++
	}
	return text
}
