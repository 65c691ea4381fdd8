package studyModel

import "time"

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	return d == Easy || d == Medium || d == Hard
}

type Document struct {
	Id               string    `json:"id"`
	OwnerId          string    `json:"owner_id"`
	Title            string    `json:"title"`
	OriginalFilename string    `json:"original_filename,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type Section struct {
	Id         string `json:"id"`
	DocumentId string `json:"document_id"`
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index"`
	Completed  bool   `json:"completed"`
}

type Chunk struct {
	Id         string `json:"id"`
	SectionId  string `json:"section_id"`
	Content    string `json:"content"`
	OrderIndex int    `json:"order_index"`
	WordCount  int    `json:"word_count"`
}

type Question struct {
	Id            string   `json:"id"`
	SectionId     string   `json:"section_id"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	OrderIndex    int      `json:"order_index"`
}

type Flashcard struct {
	Id              string     `json:"id"`
	OwnerId         string     `json:"owner_id"`
	DocumentId      string     `json:"document_id"`
	Term            string     `json:"term"`
	Definition      string     `json:"definition"`
	DifficultyLevel Difficulty `json:"difficulty_level"`
	Source          string     `json:"source"`
	TimesReviewed   int        `json:"times_reviewed"`
	OrderIndex      int        `json:"order_index"`
	CreatedAt       time.Time  `json:"created_at"`
}

type LearningProgress struct {
	Id                string    `json:"id"`
	OwnerId           string    `json:"owner_id"`
	DocumentId        string    `json:"document_id"`
	CurrentSectionId  string    `json:"current_section_id,omitempty"`
	CurrentChunkId    string    `json:"current_chunk_id,omitempty"`
	ChunkSizeModifier float64   `json:"chunk_size_modifier"`
	LastAccessedAt    time.Time `json:"last_accessed_at"`
}

// IngestResult is what a caller gets back from one successful ingestion.
type IngestResult struct {
	DocumentId      string `json:"document_id"`
	Title           string `json:"title"`
	SectionsCount   int    `json:"sections_count"`
	ChunksCount     int    `json:"chunks_count"`
	QuestionsCount  int    `json:"questions_count"`
	FlashcardsCount int    `json:"flashcards_count"`
}

// DocumentSummary is a list row for the dashboard.
type DocumentSummary struct {
	Document
	SectionsCount   int `json:"sections_count"`
	ChunksCount     int `json:"chunks_count"`
	QuestionsCount  int `json:"questions_count"`
	FlashcardsCount int `json:"flashcards_count"`
}

type SectionTree struct {
	Section
	Chunks    []Chunk    `json:"chunks"`
	Questions []Question `json:"questions"`
}

type DocumentTree struct {
	Document   Document          `json:"document"`
	Sections   []SectionTree     `json:"sections"`
	Flashcards []Flashcard       `json:"flashcards"`
	Progress   *LearningProgress `json:"progress,omitempty"`
}
