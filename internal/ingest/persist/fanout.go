package persist

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/domain/failure"
	"github.com/akolanti/studypadi/internal/domain/studyModel"
	"github.com/akolanti/studypadi/internal/metrics"
	"github.com/akolanti/studypadi/pkg/logger_i"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type DocumentPersister interface {
	Persist(ctx context.Context, ownerId string, doc studyModel.StructuredDocument, filenameHint string) (studyModel.IngestResult, error)
}

// Fanout writes a structured document best effort: only the document row is mandatory,
// every other batch failure is logged and reflected in the returned counts.
type Fanout struct {
	store    studyModel.DocumentWriter
	parallel int
	newId    func() string
	now      func() time.Time
	logger   *logger_i.Logger
}

var _ DocumentPersister = (*Fanout)(nil)

func NewFanout(store studyModel.DocumentWriter) *Fanout {
	return &Fanout{
		store:    store,
		parallel: config.SectionPersistParallel,
		newId:    uuid.NewString,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger_i.NewLogger("Persistence Fanout"),
	}
}

// sectionOutcome is written by exactly one goroutine, at its own index.
type sectionOutcome struct {
	sectionId    string
	inserted     bool
	firstChunkId string
	chunks       int
	questions    int
}

func (f *Fanout) Persist(ctx context.Context, ownerId string, doc studyModel.StructuredDocument, filenameHint string) (studyModel.IngestResult, error) {
	log := f.logger.ForContext(ctx).With("ownerId", ownerId)

	title := ResolveTitle(doc.Title, filenameHint)
	document := studyModel.Document{
		Id:               f.newId(),
		OwnerId:          ownerId,
		Title:            title,
		OriginalFilename: filenameHint,
		CreatedAt:        f.now(),
	}
	if err := f.store.InsertDocument(ctx, document); err != nil {
		log.Error("document insert failed, aborting", "error", err)
		metrics.CountPersistFailure(docTable)
		return studyModel.IngestResult{}, failure.New(failure.PersistenceFailed, "document row was not saved", err)
	}
	metrics.CountPersistedRows(docTable, 1)
	log = log.With("documentId", document.Id)

	outcomes := make([]sectionOutcome, len(doc.Sections))
	var group errgroup.Group
	group.SetLimit(f.parallel)
	for i, section := range doc.Sections {
		group.Go(func() error {
			outcomes[i] = f.persistSection(ctx, log, document.Id, i, section)
			//a failed section never cancels its siblings
			return nil
		})
	}
	_ = group.Wait()

	result := studyModel.IngestResult{DocumentId: document.Id, Title: title}
	for _, o := range outcomes {
		if !o.inserted {
			continue
		}
		result.SectionsCount++
		result.ChunksCount += o.chunks
		result.QuestionsCount += o.questions
	}

	result.FlashcardsCount = f.persistFlashcards(ctx, log, document, doc.Flashcards)
	f.persistProgress(ctx, log, document, outcomes)

	if result.SectionsCount < len(doc.Sections) {
		log.Warn("document saved partially", "sectionsRequested", len(doc.Sections), "sectionsSaved", result.SectionsCount)
	}
	return result, nil
}

func (f *Fanout) persistSection(ctx context.Context, log *logger_i.Logger, documentId string, index int, in studyModel.StructuredSection) sectionOutcome {
	section := studyModel.Section{
		Id:         f.newId(),
		DocumentId: documentId,
		Title:      in.Title,
		OrderIndex: index,
	}
	log = log.With("sectionId", section.Id, "orderIndex", index)
	if err := f.store.InsertSection(ctx, section); err != nil {
		log.Error("section insert failed, skipping its chunks and questions", "error", err)
		metrics.CountPersistFailure(sectionTable)
		return sectionOutcome{}
	}
	metrics.CountPersistedRows(sectionTable, 1)
	out := sectionOutcome{sectionId: section.Id, inserted: true}

	chunks := make([]studyModel.Chunk, 0, len(in.Chunks))
	for i, c := range in.Chunks {
		chunks = append(chunks, studyModel.Chunk{
			Id:         f.newId(),
			SectionId:  section.Id,
			Content:    c.Content,
			OrderIndex: i,
			WordCount:  WordCount(c.Content),
		})
	}
	if len(chunks) > 0 {
		if err := f.store.InsertChunks(ctx, chunks); err != nil {
			log.Error("chunk batch failed", "rows", len(chunks), "error", err)
			metrics.CountPersistFailure(chunkTable)
		} else {
			metrics.CountPersistedRows(chunkTable, len(chunks))
			out.chunks = len(chunks)
			out.firstChunkId = chunks[0].Id
		}
	}

	questions := make([]studyModel.Question, 0, len(in.Questions))
	for i, q := range in.Questions {
		questions = append(questions, studyModel.Question{
			Id:            f.newId(),
			SectionId:     section.Id,
			QuestionText:  q.QuestionText,
			Options:       append([]string(nil), q.Options...),
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			OrderIndex:    i,
		})
	}
	if len(questions) > 0 {
		if err := f.store.InsertQuestions(ctx, questions); err != nil {
			log.Error("question batch failed", "rows", len(questions), "error", err)
			metrics.CountPersistFailure(questionTable)
		} else {
			metrics.CountPersistedRows(questionTable, len(questions))
			out.questions = len(questions)
		}
	}
	return out
}

func (f *Fanout) persistFlashcards(ctx context.Context, log *logger_i.Logger, document studyModel.Document, in []studyModel.StructuredFlashcard) int {
	if len(in) == 0 {
		return 0
	}
	cards := make([]studyModel.Flashcard, 0, len(in))
	for i, c := range in {
		level := c.DifficultyLevel
		if !level.Valid() {
			level = studyModel.Difficulty(config.DefaultDifficulty)
		}
		cards = append(cards, studyModel.Flashcard{
			Id:              f.newId(),
			OwnerId:         document.OwnerId,
			DocumentId:      document.Id,
			Term:            c.Term,
			Definition:      c.Definition,
			DifficultyLevel: level,
			Source:          document.Title,
			OrderIndex:      i,
			CreatedAt:       document.CreatedAt,
		})
	}
	if err := f.store.InsertFlashcards(ctx, cards); err != nil {
		log.Error("flashcard batch failed", "rows", len(cards), "error", err)
		metrics.CountPersistFailure(flashcardTable)
		return 0
	}
	metrics.CountPersistedRows(flashcardTable, len(cards))
	return len(cards)
}

// persistProgress points the learner at the first saved section and its first saved chunk.
func (f *Fanout) persistProgress(ctx context.Context, log *logger_i.Logger, document studyModel.Document, outcomes []sectionOutcome) {
	progress := studyModel.LearningProgress{
		Id:                f.newId(),
		OwnerId:           document.OwnerId,
		DocumentId:        document.Id,
		ChunkSizeModifier: config.DefaultChunkSizeModifier,
		LastAccessedAt:    f.now(),
	}
	for _, o := range outcomes {
		if o.inserted {
			progress.CurrentSectionId = o.sectionId
			progress.CurrentChunkId = o.firstChunkId
			break
		}
	}
	if err := f.store.InsertLearningProgress(ctx, progress); err != nil {
		log.Error("learning progress insert failed", "error", err)
		metrics.CountPersistFailure(progressTable)
		return
	}
	metrics.CountPersistedRows(progressTable, 1)
}

// ResolveTitle falls back to the filename without extension, then to a placeholder.
func ResolveTitle(title string, filenameHint string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	base := filepath.Base(strings.TrimSpace(filenameHint))
	if base == "." || base == "/" {
		base = ""
	}
	if stem := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base))); stem != "" {
		return stem
	}
	return config.UntitledDocument
}

func WordCount(content string) int {
	return len(strings.Fields(content))
}

const (
	docTable       = "documents"
	sectionTable   = "sections"
	chunkTable     = "chunks"
	questionTable  = "questions"
	flashcardTable = "flashcards"
	progressTable  = "learning_progress"
)
