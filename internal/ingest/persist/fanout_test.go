package persist_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/akolanti/studypadi/internal/data/docStore"
	"github.com/akolanti/studypadi/internal/domain/failure"
	"github.com/akolanti/studypadi/internal/domain/studyModel"
	"github.com/akolanti/studypadi/internal/ingest/persist"
)

// failingStore rejects sections by title and chunk batches by section id.
type failingStore struct {
	*docStore.MemoryStore
	failSectionTitles map[string]bool
	failChunksFor     func(sectionId string) bool
}

func (s *failingStore) InsertSection(ctx context.Context, section studyModel.Section) error {
	if s.failSectionTitles[section.Title] {
		return errors.New("connection reset")
	}
	return s.MemoryStore.InsertSection(ctx, section)
}

func (s *failingStore) InsertChunks(ctx context.Context, chunks []studyModel.Chunk) error {
	if s.failChunksFor != nil && len(chunks) > 0 && s.failChunksFor(chunks[0].SectionId) {
		return errors.New("batch rejected")
	}
	return s.MemoryStore.InsertChunks(ctx, chunks)
}

// reversingStore writes every question and flashcard batch backwards, like an unordered table scan.
type reversingStore struct {
	*docStore.MemoryStore
}

func (s *reversingStore) InsertQuestions(ctx context.Context, questions []studyModel.Question) error {
	reversed := slices.Clone(questions)
	slices.Reverse(reversed)
	return s.MemoryStore.InsertQuestions(ctx, reversed)
}

func (s *reversingStore) InsertFlashcards(ctx context.Context, cards []studyModel.Flashcard) error {
	reversed := slices.Clone(cards)
	slices.Reverse(reversed)
	return s.MemoryStore.InsertFlashcards(ctx, reversed)
}

func question(n int) studyModel.StructuredQuestion {
	opts := []string{"alpha", "beta", "gamma", "delta"}
	return studyModel.StructuredQuestion{
		QuestionText:  fmt.Sprintf("question %d", n),
		Options:       opts,
		CorrectAnswer: opts[n%4],
	}
}

func sampleDocument(sections int) studyModel.StructuredDocument {
	doc := studyModel.StructuredDocument{Title: "Photosynthesis"}
	for i := 0; i < sections; i++ {
		doc.Sections = append(doc.Sections, studyModel.StructuredSection{
			Title: fmt.Sprintf("Section %d", i),
			Chunks: []studyModel.StructuredChunk{
				{Content: "light reactions happen first", WordCount: 99},
				{Content: "then  the\tcalvin cycle"},
				{Content: "sugar is the product"},
			},
			Questions: []studyModel.StructuredQuestion{question(i), question(i + 1)},
		})
	}
	doc.Flashcards = []studyModel.StructuredFlashcard{
		{Term: "ATP", Definition: "energy carrier", DifficultyLevel: studyModel.Hard},
		{Term: "NADPH", Definition: "electron carrier"},
	}
	return doc
}

func TestPersist_OrderingAndAnswers(t *testing.T) {
	ctx := context.Background()
	store := docStore.NewMemoryStore()
	result, err := persist.NewFanout(store).Persist(ctx, "owner", sampleDocument(5), "bio.pdf")
	if err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	tree, err := store.GetDocumentTree(ctx, "owner", result.DocumentId)
	if err != nil {
		t.Fatalf("GetDocumentTree failed: %v", err)
	}
	if len(tree.Sections) != 5 {
		t.Fatalf("expected 5 sections, got %d", len(tree.Sections))
	}
	for i, sec := range tree.Sections {
		if sec.OrderIndex != i || sec.Title != fmt.Sprintf("Section %d", i) {
			t.Errorf("section %d stored as order %d title %q", i, sec.OrderIndex, sec.Title)
		}
		for j, c := range sec.Chunks {
			if c.OrderIndex != j {
				t.Errorf("section %d chunk %d has order %d", i, j, c.OrderIndex)
			}
		}
		for _, q := range sec.Questions {
			if !slices.Contains(q.Options, q.CorrectAnswer) {
				t.Errorf("correct answer %q missing from options %v", q.CorrectAnswer, q.Options)
			}
		}
	}

	expected := studyModel.IngestResult{DocumentId: result.DocumentId, Title: "Photosynthesis",
		SectionsCount: 5, ChunksCount: 15, QuestionsCount: 10, FlashcardsCount: 2}
	if result != expected {
		t.Errorf("expected %+v, got %+v", expected, result)
	}
}

func TestPersist_RecomputesWordCountAndDefaults(t *testing.T) {
	ctx := context.Background()
	store := docStore.NewMemoryStore()
	doc := sampleDocument(1)
	doc.Title = "   "

	result, err := persist.NewFanout(store).Persist(ctx, "owner", doc, "notes/chapter one.docx")
	if err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	if result.Title != "chapter one" {
		t.Errorf("expected filename derived title, got %q", result.Title)
	}

	tree, _ := store.GetDocumentTree(ctx, "owner", result.DocumentId)
	chunks := tree.Sections[0].Chunks
	if chunks[0].WordCount != 4 || chunks[1].WordCount != 4 {
		t.Errorf("word counts not recomputed: %d, %d", chunks[0].WordCount, chunks[1].WordCount)
	}
	for _, f := range tree.Flashcards {
		if f.Source != "chapter one" || f.OwnerId != "owner" {
			t.Errorf("flashcard not tagged: %+v", f)
		}
	}
	if tree.Flashcards[1].DifficultyLevel != studyModel.Medium {
		t.Errorf("missing difficulty should default to medium, got %q", tree.Flashcards[1].DifficultyLevel)
	}
	if p := tree.Progress; p == nil || p.CurrentSectionId != tree.Sections[0].Id || p.CurrentChunkId != chunks[0].Id || p.ChunkSizeModifier != 1.0 {
		t.Errorf("unexpected progress: %+v", tree.Progress)
	}
}

func TestPersist_SectionFailureKeepsSiblings(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{
		MemoryStore:       docStore.NewMemoryStore(),
		failSectionTitles: map[string]bool{"Section 2": true},
	}

	result, err := persist.NewFanout(store).Persist(ctx, "owner", sampleDocument(4), "bio.pdf")
	if err != nil {
		t.Fatalf("partial failure must still succeed, got %v", err)
	}
	if result.SectionsCount != 3 || result.ChunksCount != 9 || result.QuestionsCount != 6 || result.FlashcardsCount != 2 {
		t.Errorf("counts must reflect committed rows, got %+v", result)
	}
	if store.Calls(docStore.TableChunks) != 3 || store.Calls(docStore.TableQuestions) != 3 {
		t.Errorf("skipped section must not attempt its children")
	}

	tree, _ := store.GetDocumentTree(ctx, "owner", result.DocumentId)
	for _, sec := range tree.Sections {
		if sec.Title == "Section 2" {
			t.Errorf("failed section was stored")
		}
	}
}

func TestPersist_ChunkBatchFailure(t *testing.T) {
	ctx := context.Background()
	mem := docStore.NewMemoryStore()
	var failedSection string
	store := &failingStore{MemoryStore: mem}
	store.failChunksFor = func(sectionId string) bool {
		//fail whichever section reaches the chunk insert first
		if failedSection == "" {
			failedSection = sectionId
		}
		return sectionId == failedSection
	}
	fanout := persist.NewFanout(store)

	result, err := fanout.Persist(ctx, "owner", sampleDocument(1), "")
	if err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	if result.SectionsCount != 1 || result.ChunksCount != 0 || result.QuestionsCount != 2 {
		t.Errorf("unexpected counts: %+v", result)
	}

	tree, _ := mem.GetDocumentTree(ctx, "owner", result.DocumentId)
	if tree.Progress == nil || tree.Progress.CurrentSectionId == "" || tree.Progress.CurrentChunkId != "" {
		t.Errorf("progress should point at the section without a chunk: %+v", tree.Progress)
	}
}

func TestPersist_FlashcardFailureDoesNotAbort(t *testing.T) {
	store := docStore.NewMemoryStore()
	store.OnInsert = func(table string, rows int) error {
		if table == docStore.TableFlashcards {
			return errors.New("constraint violation")
		}
		return nil
	}

	result, err := persist.NewFanout(store).Persist(context.Background(), "owner", sampleDocument(2), "x.txt")
	if err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	if result.FlashcardsCount != 0 || result.SectionsCount != 2 {
		t.Errorf("unexpected counts: %+v", result)
	}
	if store.Calls(docStore.TableLearningProgress) != 1 {
		t.Errorf("learning progress must still be attempted")
	}
}

func TestPersist_DocumentFailureAborts(t *testing.T) {
	store := docStore.NewMemoryStore()
	store.OnInsert = func(table string, rows int) error {
		if table == docStore.TableDocuments {
			return errors.New("db down")
		}
		return nil
	}

	_, err := persist.NewFanout(store).Persist(context.Background(), "owner", sampleDocument(2), "x.txt")
	if !errors.Is(err, failure.ErrPersistenceFailed) {
		t.Fatalf("expected PersistenceFailed, got %v", err)
	}
	if store.TotalCalls() != 1 {
		t.Errorf("nothing may be attempted after the document insert fails, got %d calls", store.TotalCalls())
	}
}

func TestResolveTitle(t *testing.T) {
	tests := []struct{ title, file, want string }{
		{"Given", "file.pdf", "Given"},
		{"", "lecture 3.pdf", "lecture 3"},
		{"", "dir/archive.tar.gz", "archive.tar"},
		{"", ".pdf", "Untitled"},
		{"", "", "Untitled"},
	}
	for _, tt := range tests {
		if got := persist.ResolveTitle(tt.title, tt.file); got != tt.want {
			t.Errorf("ResolveTitle(%q, %q) = %q, want %q", tt.title, tt.file, got, tt.want)
		}
	}
}

func TestPersist_QuestionsAndFlashcardsKeepModelOrder(t *testing.T) {
	ctx := context.Background()
	store := &reversingStore{MemoryStore: docStore.NewMemoryStore()}
	doc := studyModel.StructuredDocument{
		Title: "Cells",
		Sections: []studyModel.StructuredSection{{
			Title:     "Division",
			Chunks:    []studyModel.StructuredChunk{{Content: "cells divide"}},
			Questions: []studyModel.StructuredQuestion{question(3), question(1), question(2)},
		}},
		Flashcards: []studyModel.StructuredFlashcard{
			{Term: "Zygote", Definition: "fertilized cell"},
			{Term: "Anaphase", Definition: "chromatids separate"},
			{Term: "Mitosis", Definition: "nuclear division"},
		},
	}

	result, err := persist.NewFanout(store).Persist(ctx, "owner", doc, "cells.txt")
	if err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	tree, err := store.GetDocumentTree(ctx, "owner", result.DocumentId)
	if err != nil {
		t.Fatalf("GetDocumentTree failed: %v", err)
	}

	var asked []string
	for _, q := range tree.Sections[0].Questions {
		asked = append(asked, q.QuestionText)
	}
	if want := []string{"question 3", "question 1", "question 2"}; !slices.Equal(asked, want) {
		t.Errorf("questions: expected %v, got %v", want, asked)
	}
	var terms []string
	for _, c := range tree.Flashcards {
		terms = append(terms, c.Term)
	}
	if want := []string{"Zygote", "Anaphase", "Mitosis"}; !slices.Equal(terms, want) {
		t.Errorf("flashcards: expected %v, got %v", want, terms)
	}
}
