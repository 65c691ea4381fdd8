package studyModel

// StructuredDocument is the model's decomposition of a text, before anything is persisted.
// Ordering is implicit in list position.
type StructuredDocument struct {
	Title      string                `json:"title"`
	Sections   []StructuredSection   `json:"sections"`
	Flashcards []StructuredFlashcard `json:"flashcards"`
}

type StructuredSection struct {
	Title     string               `json:"title"`
	Chunks    []StructuredChunk    `json:"chunks"`
	Questions []StructuredQuestion `json:"questions"`
}

type StructuredChunk struct {
	Content string `json:"content"`
	//never trusted, recomputed on persist
	WordCount int `json:"word_count,omitempty"`
}

type StructuredQuestion struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

type StructuredFlashcard struct {
	Term            string     `json:"term"`
	Definition      string     `json:"definition"`
	DifficultyLevel Difficulty `json:"difficulty_level,omitempty"`
}
