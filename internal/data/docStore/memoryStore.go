package docStore

import (
	"context"
	"sort"
	"sync"

	"github.com/akolanti/studypadi/internal/domain/studyModel"
	"github.com/akolanti/studypadi/pkg/logger_i"
)

// Table names passed to MemoryStore.OnInsert.
const (
	TableDocuments        = "documents"
	TableSections         = "sections"
	TableChunks           = "chunks"
	TableQuestions        = "questions"
	TableFlashcards       = "flashcards"
	TableLearningProgress = "learning_progress"
)

// MemoryStore keeps documents in process. Used when no DATABASE_URL is set and in tests.
type MemoryStore struct {
	mu         *sync.RWMutex
	documents  map[string]studyModel.Document
	sections   map[string][]studyModel.Section
	chunks     map[string][]studyModel.Chunk
	questions  map[string][]studyModel.Question
	flashcards map[string][]studyModel.Flashcard
	progress   map[string]studyModel.LearningProgress
	calls      map[string]int
	logger     *logger_i.Logger

	// OnInsert, when set, runs before each insert; a non-nil error rejects the whole call.
	OnInsert func(table string, rows int) error
}

var _ studyModel.DocumentStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu:         new(sync.RWMutex),
		documents:  make(map[string]studyModel.Document),
		sections:   make(map[string][]studyModel.Section),
		chunks:     make(map[string][]studyModel.Chunk),
		questions:  make(map[string][]studyModel.Question),
		flashcards: make(map[string][]studyModel.Flashcard),
		progress:   make(map[string]studyModel.LearningProgress),
		calls:      make(map[string]int),
		logger:     logger_i.NewLogger("InMem DocStore"),
	}
}

func (m *MemoryStore) Close() {}

// Calls reports how many insert calls reached table, failed ones included.
func (m *MemoryStore) Calls(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[table]
}

func (m *MemoryStore) TotalCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

func (m *MemoryStore) begin(ctx context.Context, table string, rows int) error {
	m.calls[table]++
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.OnInsert != nil {
		return m.OnInsert(table, rows)
	}
	return nil
}

func (m *MemoryStore) InsertDocument(ctx context.Context, doc studyModel.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(ctx, TableDocuments, 1); err != nil {
		return err
	}
	m.documents[doc.Id] = doc
	m.logger.Debug("saved document", "documentId", doc.Id)
	return nil
}

func (m *MemoryStore) InsertSection(ctx context.Context, section studyModel.Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(ctx, TableSections, 1); err != nil {
		return err
	}
	m.sections[section.DocumentId] = append(m.sections[section.DocumentId], section)
	return nil
}

func (m *MemoryStore) InsertChunks(ctx context.Context, chunks []studyModel.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(ctx, TableChunks, len(chunks)); err != nil {
		return err
	}
	for _, c := range chunks {
		m.chunks[c.SectionId] = append(m.chunks[c.SectionId], c)
	}
	return nil
}

func (m *MemoryStore) InsertQuestions(ctx context.Context, questions []studyModel.Question) error {
	if len(questions) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(ctx, TableQuestions, len(questions)); err != nil {
		return err
	}
	for _, q := range questions {
		m.questions[q.SectionId] = append(m.questions[q.SectionId], q)
	}
	return nil
}

func (m *MemoryStore) InsertFlashcards(ctx context.Context, cards []studyModel.Flashcard) error {
	if len(cards) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(ctx, TableFlashcards, len(cards)); err != nil {
		return err
	}
	for _, f := range cards {
		m.flashcards[f.DocumentId] = append(m.flashcards[f.DocumentId], f)
	}
	return nil
}

func (m *MemoryStore) InsertLearningProgress(ctx context.Context, p studyModel.LearningProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(ctx, TableLearningProgress, 1); err != nil {
		return err
	}
	m.progress[p.OwnerId+"/"+p.DocumentId] = p
	return nil
}

func (m *MemoryStore) ListDocuments(ctx context.Context, ownerId string) ([]studyModel.DocumentSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]studyModel.DocumentSummary, 0)
	for _, doc := range m.documents {
		if doc.OwnerId != ownerId {
			continue
		}
		summary := studyModel.DocumentSummary{Document: doc}
		for _, sec := range m.sections[doc.Id] {
			summary.SectionsCount++
			summary.ChunksCount += len(m.chunks[sec.Id])
			summary.QuestionsCount += len(m.questions[sec.Id])
		}
		summary.FlashcardsCount = len(m.flashcards[doc.Id])
		result = append(result, summary)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *MemoryStore) GetDocumentTree(ctx context.Context, ownerId string, documentId string) (studyModel.DocumentTree, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, found := m.documents[documentId]
	if !found || doc.OwnerId != ownerId {
		return studyModel.DocumentTree{}, studyModel.ErrDocumentNotFound
	}

	sections := append([]studyModel.Section(nil), m.sections[documentId]...)
	sort.Slice(sections, func(i, j int) bool { return sections[i].OrderIndex < sections[j].OrderIndex })
	var chunks []studyModel.Chunk
	var questions []studyModel.Question
	for _, sec := range sections {
		ordered := append([]studyModel.Chunk(nil), m.chunks[sec.Id]...)
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].OrderIndex < ordered[j].OrderIndex })
		chunks = append(chunks, ordered...)
		asked := append([]studyModel.Question(nil), m.questions[sec.Id]...)
		sort.SliceStable(asked, func(i, j int) bool { return asked[i].OrderIndex < asked[j].OrderIndex })
		questions = append(questions, asked...)
	}
	cards := append([]studyModel.Flashcard{}, m.flashcards[documentId]...)
	sort.SliceStable(cards, func(i, j int) bool { return cards[i].OrderIndex < cards[j].OrderIndex })

	tree := studyModel.DocumentTree{
		Document:   doc,
		Sections:   assembleSections(sections, chunks, questions),
		Flashcards: cards,
	}
	if p, ok := m.progress[ownerId+"/"+documentId]; ok {
		tree.Progress = &p
	}
	return tree, nil
}
