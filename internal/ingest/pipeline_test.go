package ingest_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/akolanti/studypadi/internal/data/docStore"
	"github.com/akolanti/studypadi/internal/domain/failure"
	"github.com/akolanti/studypadi/internal/domain/jobModel"
	"github.com/akolanti/studypadi/internal/domain/studyModel"
	"github.com/akolanti/studypadi/internal/ingest"
	"github.com/akolanti/studypadi/internal/ingest/extract"
	"github.com/akolanti/studypadi/internal/ingest/extract/extracttest"
	"github.com/akolanti/studypadi/internal/ingest/persist"
)

type MockStructurer struct {
	Calls       int
	LastText    string
	OnStructure func(ctx context.Context, text string, filenameHint string) (studyModel.StructuredDocument, error)
}

func (m *MockStructurer) Structure(ctx context.Context, text string, filenameHint string) (studyModel.StructuredDocument, error) {
	m.Calls++
	m.LastText = text
	if m.OnStructure != nil {
		return m.OnStructure(ctx, text, filenameHint)
	}
	return twoSectionDocument(), nil
}

type MockIndexer struct {
	Calls    int
	Err      error
	Deadline time.Time
}

func (m *MockIndexer) IndexDocument(ctx context.Context, ownerId string, result studyModel.IngestResult, doc studyModel.StructuredDocument) error {
	m.Calls++
	m.Deadline, _ = ctx.Deadline()
	return m.Err
}

type MockPersister struct {
	Deadline  time.Time
	Cancelled bool
}

func (m *MockPersister) Persist(ctx context.Context, ownerId string, doc studyModel.StructuredDocument, filenameHint string) (studyModel.IngestResult, error) {
	m.Deadline, _ = ctx.Deadline()
	m.Cancelled = ctx.Err() != nil
	return studyModel.IngestResult{DocumentId: "doc-1", Title: doc.Title, SectionsCount: len(doc.Sections)}, nil
}

type recorder struct {
	events []jobModel.ProgressEvent
}

func (r *recorder) Report(ctx context.Context, event jobModel.ProgressEvent) {
	r.events = append(r.events, event)
}

func (r *recorder) phases() []jobModel.Phase {
	out := make([]jobModel.Phase, len(r.events))
	for i, e := range r.events {
		out[i] = e.Phase
	}
	return out
}

func twoSectionDocument() studyModel.StructuredDocument {
	return studyModel.StructuredDocument{
		Title: "Five Hundred Words",
		Sections: []studyModel.StructuredSection{
			{Title: "Part one", Chunks: []studyModel.StructuredChunk{{Content: "first chunk"}, {Content: "second chunk"}}},
			{Title: "Part two", Chunks: []studyModel.StructuredChunk{{Content: "third chunk"}, {Content: "fourth chunk"}}},
		},
		Flashcards: []studyModel.StructuredFlashcard{{Term: "word", Definition: "a unit of language"}},
	}
}

func fiveHundredWords() string {
	words := make([]string, 500)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}
	return strings.Join(words, " ")
}

func textUpload(name string, body string) extract.Upload {
	return extract.Upload{FileName: name, MediaType: "text/plain", Size: int64(len(body)), Body: strings.NewReader(body)}
}

func newPipeline(structurer *MockStructurer, store studyModel.DocumentWriter) *ingest.Pipeline {
	return ingest.NewPipeline(extract.NewExtractor(), structurer, persist.NewFanout(store))
}

func samePhases(got []jobModel.Phase, want ...jobModel.Phase) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestRun_PlainTextEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := docStore.NewMemoryStore()
	structurer := &MockStructurer{}
	rec := &recorder{}
	text := fiveHundredWords()

	result, err := newPipeline(structurer, store).Run(ctx, "owner", textUpload("words.txt", text), rec)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if structurer.LastText != text {
		t.Errorf("structurer did not receive the extracted words verbatim")
	}
	if result.SectionsCount != 2 || result.ChunksCount != 4 || result.QuestionsCount != 0 || result.FlashcardsCount != 1 {
		t.Errorf("unexpected counts: %+v", result)
	}
	if !samePhases(rec.phases(), jobModel.PhaseExtracting, jobModel.PhaseStructuring, jobModel.PhasePersisting, jobModel.PhaseDone) {
		t.Errorf("unexpected phase order: %v", rec.phases())
	}
	for i := 1; i < len(rec.events); i++ {
		if rec.events[i].Progress <= rec.events[i-1].Progress {
			t.Errorf("progress must increase: %v", rec.events)
		}
	}

	calls := map[string]int{
		docStore.TableDocuments:        1,
		docStore.TableSections:         2,
		docStore.TableChunks:           2,
		docStore.TableQuestions:        0,
		docStore.TableFlashcards:       1,
		docStore.TableLearningProgress: 1,
	}
	for table, want := range calls {
		if got := store.Calls(table); got != want {
			t.Errorf("%s: expected %d insert calls, got %d", table, want, got)
		}
	}
}

func TestRun_TooLittleContent(t *testing.T) {
	store := docStore.NewMemoryStore()
	structurer := &MockStructurer{}
	rec := &recorder{}

	_, err := newPipeline(structurer, store).Run(context.Background(), "owner", textUpload("tiny.txt", "ten chars!"), rec)

	if !errors.Is(err, failure.ErrTooLittleContent) {
		t.Fatalf("expected TooLittleContent, got %v", err)
	}
	var fe *failure.Error
	if !errors.As(err, &fe) || fe.Phase != string(jobModel.PhaseExtracting) {
		t.Errorf("expected failure tagged with Extracting, got %+v", fe)
	}
	if structurer.Calls != 0 {
		t.Errorf("structurer must not be called, got %d", structurer.Calls)
	}
	if store.TotalCalls() != 0 {
		t.Errorf("persistence must not be called")
	}
	if !samePhases(rec.phases(), jobModel.PhaseExtracting, jobModel.PhaseFailed) {
		t.Errorf("unexpected phases: %v", rec.phases())
	}
}

func TestRun_ShortPDFHaltsBeforePersistence(t *testing.T) {
	store := docStore.NewMemoryStore()
	structurer := &MockStructurer{}
	rec := &recorder{}
	pdf := extracttest.BuildPDF(extracttest.TextStream("Too short"))
	upload := extract.Upload{FileName: "scan.pdf", MediaType: "application/pdf", Size: int64(len(pdf)), Body: bytes.NewReader(pdf)}

	_, err := newPipeline(structurer, store).Run(context.Background(), "owner", upload, rec)

	if !errors.Is(err, failure.ErrEmptyExtraction) {
		t.Fatalf("expected EmptyExtraction, got %v", err)
	}
	if last := rec.events[len(rec.events)-1]; last.Phase != jobModel.PhaseFailed || last.StatusText != "No text found" {
		t.Errorf("unexpected terminal event: %+v", last)
	}
	if store.TotalCalls() != 0 || structurer.Calls != 0 {
		t.Errorf("pipeline continued past extraction")
	}
}

func TestRun_StructuringFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected failure.Kind
	}{
		{"RateLimited", failure.New(failure.RateLimited, "", nil), failure.RateLimited},
		{"QuotaExhausted", failure.New(failure.QuotaExhausted, "", nil), failure.QuotaExhausted},
		{"Malformed", failure.New(failure.MalformedResponse, "", nil), failure.MalformedResponse},
		{"Untyped", errors.New("socket closed"), failure.ServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := docStore.NewMemoryStore()
			structurer := &MockStructurer{OnStructure: func(ctx context.Context, text string, hint string) (studyModel.StructuredDocument, error) {
				return studyModel.StructuredDocument{}, tt.err
			}}
			rec := &recorder{}

			_, err := newPipeline(structurer, store).Run(context.Background(), "owner", textUpload("a.txt", fiveHundredWords()), rec)

			var fe *failure.Error
			if !errors.As(err, &fe) || fe.Kind != tt.expected || fe.Phase != string(jobModel.PhaseStructuring) {
				t.Fatalf("expected %s in Structuring, got %v", tt.expected, err)
			}
			if store.TotalCalls() != 0 {
				t.Errorf("persistence must not run after a structuring failure")
			}
			if !samePhases(rec.phases(), jobModel.PhaseExtracting, jobModel.PhaseStructuring, jobModel.PhaseFailed) {
				t.Errorf("unexpected phases: %v", rec.phases())
			}
		})
	}
}

func TestRun_DocumentInsertFailure(t *testing.T) {
	store := docStore.NewMemoryStore()
	store.OnInsert = func(table string, rows int) error {
		return errors.New("database unavailable")
	}

	_, err := newPipeline(&MockStructurer{}, store).Run(context.Background(), "owner", textUpload("a.txt", fiveHundredWords()), nil)

	var fe *failure.Error
	if !errors.As(err, &fe) || fe.Kind != failure.PersistenceFailed || fe.Phase != string(jobModel.PhasePersisting) {
		t.Fatalf("expected PersistenceFailed in Persisting, got %v", err)
	}
}

func TestRun_CallerCancellationAfterExtraction(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := docStore.NewMemoryStore()
	structurer := &MockStructurer{OnStructure: func(ctx context.Context, text string, hint string) (studyModel.StructuredDocument, error) {
		cancel()
		return twoSectionDocument(), nil
	}}

	result, err := newPipeline(structurer, store).Run(ctx, "owner", textUpload("a.txt", fiveHundredWords()), nil)
	if err != nil {
		t.Fatalf("in-flight run should complete after the caller leaves, got %v", err)
	}
	if result.SectionsCount != 2 {
		t.Errorf("unexpected counts: %+v", result)
	}
}

func TestRun_IndexerFailureIsIgnored(t *testing.T) {
	indexer := &MockIndexer{Err: errors.New("qdrant offline")}
	pipeline := newPipeline(&MockStructurer{}, docStore.NewMemoryStore()).WithIndexer(indexer)

	result, err := pipeline.Run(context.Background(), "owner", textUpload("a.txt", fiveHundredWords()), nil)
	if err != nil {
		t.Fatalf("indexing failure must not fail ingestion: %v", err)
	}
	if indexer.Calls != 1 || result.DocumentId == "" {
		t.Errorf("indexer calls=%d result=%+v", indexer.Calls, result)
	}
}

func TestRun_DetachedRunKeepsJobDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	jobDeadline, _ := ctx.Deadline()

	structurer := &MockStructurer{OnStructure: func(ctx context.Context, text string, hint string) (studyModel.StructuredDocument, error) {
		cancel()
		return twoSectionDocument(), nil
	}}
	persister := &MockPersister{}
	indexer := &MockIndexer{}
	pipeline := ingest.NewPipeline(extract.NewExtractor(), structurer, persister).WithIndexer(indexer)

	if _, err := pipeline.Run(ctx, "owner", textUpload("a.txt", fiveHundredWords()), nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if persister.Cancelled {
		t.Error("caller cancellation reached the persister")
	}
	if !persister.Deadline.Equal(jobDeadline) {
		t.Errorf("persister deadline: expected %v, got %v", jobDeadline, persister.Deadline)
	}
	if indexer.Deadline.IsZero() {
		t.Error("indexing must run with a bounded timeout")
	}
}
