package ingest

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/domain/failure"
	"github.com/akolanti/studypadi/internal/domain/jobModel"
	"github.com/akolanti/studypadi/internal/domain/studyModel"
	"github.com/akolanti/studypadi/internal/ingest/extract"
	"github.com/akolanti/studypadi/internal/ingest/persist"
	"github.com/akolanti/studypadi/internal/ingest/structure"
	"github.com/akolanti/studypadi/internal/metrics"
	"github.com/akolanti/studypadi/pkg/logger_i"
)

// Reporter receives every phase transition in order, the terminal one included.
type Reporter interface {
	Report(ctx context.Context, event jobModel.ProgressEvent)
}

type ReporterFunc func(ctx context.Context, event jobModel.ProgressEvent)

func (f ReporterFunc) Report(ctx context.Context, event jobModel.ProgressEvent) {
	f(ctx, event)
}

// Indexer runs after Done. Its failure never changes the ingestion outcome.
type Indexer interface {
	IndexDocument(ctx context.Context, ownerId string, result studyModel.IngestResult, doc studyModel.StructuredDocument) error
}

type step struct {
	phase    jobModel.Phase
	progress int
	text     string
}

var (
	stepExtracting  = step{jobModel.PhaseExtracting, 10, "Extracting text"}
	stepStructuring = step{jobModel.PhaseStructuring, 35, "Analyzing document with AI"}
	stepPersisting  = step{jobModel.PhasePersisting, 75, "Saving study material"}
	stepDone        = step{jobModel.PhaseDone, 100, "Ready to learn"}
)

type Pipeline struct {
	extractor  extract.TextExtractor
	structurer structure.DocumentStructurer
	persister  persist.DocumentPersister
	indexer    Indexer
	logger     *logger_i.Logger
}

func NewPipeline(extractor extract.TextExtractor, structurer structure.DocumentStructurer, persister persist.DocumentPersister) *Pipeline {
	return &Pipeline{
		extractor:  extractor,
		structurer: structurer,
		persister:  persister,
		logger:     logger_i.NewLogger("Ingestion Pipeline"),
	}
}

func (p *Pipeline) WithIndexer(indexer Indexer) *Pipeline {
	p.indexer = indexer
	return p
}

// Run drives Extracting, Structuring, Persisting and Done strictly in that order.
// Any phase error ends the run in Failed with the error tagged by its phase.
// Once structuring starts the caller's cancellation no longer interrupts the run,
// but its deadline still bounds it.
func (p *Pipeline) Run(ctx context.Context, ownerId string, upload extract.Upload, reporter Reporter) (studyModel.IngestResult, error) {
	if reporter == nil {
		reporter = ReporterFunc(func(context.Context, jobModel.ProgressEvent) {})
	}
	log := p.logger.ForContext(ctx).With("ownerId", ownerId, "file", upload.FileName)
	run := &runState{reporter: reporter, log: log}

	run.enter(ctx, stepExtracting)
	text, err := p.extractor.Extract(ctx, upload)
	if err != nil {
		return studyModel.IngestResult{}, run.fail(ctx, err, failure.ExtractionFailed)
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(text)); n < config.MinStructureTextSize {
		return studyModel.IngestResult{}, run.fail(ctx,
			failure.Errorf(failure.TooLittleContent, "extracted %d characters, need %d", n, config.MinStructureTextSize),
			failure.TooLittleContent)
	}

	ctx, cancel := detach(ctx)
	defer cancel()

	run.enter(ctx, stepStructuring)
	doc, err := p.structurer.Structure(ctx, text, upload.FileName)
	if err != nil {
		return studyModel.IngestResult{}, run.fail(ctx, err, failure.ServiceUnavailable)
	}

	run.enter(ctx, stepPersisting)
	result, err := p.persister.Persist(ctx, ownerId, doc, upload.FileName)
	if err != nil {
		return studyModel.IngestResult{}, run.fail(ctx, err, failure.PersistenceFailed)
	}

	run.enter(ctx, stepDone)
	metrics.CountIngestion("success", string(jobModel.PhaseDone))
	log.Info("ingestion complete", "documentId", result.DocumentId,
		"sections", result.SectionsCount, "chunks", result.ChunksCount,
		"questions", result.QuestionsCount, "flashcards", result.FlashcardsCount)

	if p.indexer != nil {
		indexCtx, cancelIndex := context.WithTimeout(context.WithoutCancel(ctx), config.IndexDocumentTimeout)
		defer cancelIndex()
		if err := p.indexer.IndexDocument(indexCtx, ownerId, result, doc); err != nil {
			log.Warn("document indexing failed, questions on it will have no context", "documentId", result.DocumentId, "error", err)
		}
	}
	return result, nil
}

// detach drops the caller's cancellation but keeps its deadline.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(detached, deadline)
	}
	return detached, func() {}
}

type runState struct {
	reporter Reporter
	log      *logger_i.Logger
	current  step
	started  time.Time
}

func (r *runState) enter(ctx context.Context, next step) {
	if r.current.phase != "" {
		metrics.CapturePhaseMetrics(string(r.current.phase), time.Since(r.started))
	}
	r.current, r.started = next, time.Now()
	r.log.Debug("phase", "phase", next.phase, "progress", next.progress)
	r.reporter.Report(ctx, jobModel.ProgressEvent{Phase: next.phase, Progress: next.progress, StatusText: next.text, At: time.Now().UTC()})
}

func (r *runState) fail(ctx context.Context, err error, fallback failure.Kind) *failure.Error {
	metrics.CapturePhaseMetrics(string(r.current.phase), time.Since(r.started))
	tagged := failure.As(err, fallback).WithPhase(string(r.current.phase))
	presentation := failure.Present(tagged.Kind)

	r.log.Error("ingestion failed", "phase", r.current.phase, "kind", tagged.Kind, "error", err)
	metrics.CountIngestion(string(tagged.Kind), string(r.current.phase))
	r.reporter.Report(ctx, jobModel.ProgressEvent{
		Phase:      jobModel.PhaseFailed,
		Progress:   r.current.progress,
		StatusText: presentation.Title,
		At:         time.Now().UTC(),
	})
	return tagged
}
