package structure

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/domain/failure"
	"github.com/akolanti/studypadi/internal/llm"
)

type mockCompleter struct {
	calls                int
	lastRequest          llm.StructuredRequest
	OnCompleteStructured func(ctx context.Context, req llm.StructuredRequest) (string, error)
}

func (m *mockCompleter) CompleteStructured(ctx context.Context, req llm.StructuredRequest) (string, error) {
	m.calls++
	m.lastRequest = req
	if m.OnCompleteStructured != nil {
		return m.OnCompleteStructured(ctx, req)
	}
	return validPayload, nil
}

const validPayload = `{
  "title": "Cell Biology",
  "sections": [
    {"title": "Membranes", "chunks": [{"content": "The membrane is a lipid bilayer."}, {"content": "Proteins float in it."}],
     "questions": [{"question_text": "What is the membrane?", "options": ["A lipid bilayer", "A wall", "A protein", "A sugar"], "correct_answer": "A lipid bilayer", "explanation": "Stated in text."}]},
    {"title": "Organelles", "chunks": [{"content": "Mitochondria make ATP."}, {"content": "Ribosomes make proteins."}],
     "questions": [{"question_text": "Who makes ATP?", "options": ["Ribosome", "Mitochondria", "Nucleus", "Golgi"], "correct_answer": "Mitochondria"}]}
  ],
  "flashcards": [{"term": "ATP", "definition": "Energy currency", "difficulty_level": "easy"}]
}`

var longText = strings.Repeat("cells divide and grow. ", 20)

func TestStructure_TooLittleContentSkipsModel(t *testing.T) {
	backend := &mockCompleter{}
	svc := NewService(backend)

	_, err := svc.Structure(context.Background(), "   short text   ", "notes.txt")
	if !errors.Is(err, failure.ErrTooLittleContent) {
		t.Fatalf("expected TooLittleContent, got %v", err)
	}
	if backend.calls != 0 {
		t.Fatalf("model must not be called, got %d calls", backend.calls)
	}
}

func TestStructure_Success(t *testing.T) {
	backend := &mockCompleter{}
	svc := NewService(backend)

	doc, err := svc.Structure(context.Background(), longText, "bio.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "Cell Biology" || len(doc.Sections) != 2 || len(doc.Flashcards) != 1 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if backend.calls != 1 {
		t.Fatalf("expected exactly one model call, got %d", backend.calls)
	}
	req := backend.lastRequest
	if req.ToolName != config.StructureToolName || req.MaxTokens != config.StructurerMaxTokens || req.Temperature != config.StructurerTemperature {
		t.Errorf("unexpected request parameters: %+v", req)
	}
	if !strings.Contains(req.User, "FILENAME: bio.pdf") {
		t.Errorf("filename hint missing from prompt")
	}
}

func TestStructure_TruncatesLongInput(t *testing.T) {
	backend := &mockCompleter{}
	svc := NewService(backend)

	text := strings.Repeat("é", config.MaxStructureTextSize+500)
	if _, err := svc.Structure(context.Background(), text, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := strings.TrimPrefix(backend.lastRequest.User, "DOCUMENT TEXT:\n")
	if n := utf8.RuneCountInString(body); n != config.MaxStructureTextSize {
		t.Fatalf("expected %d runes sent, got %d", config.MaxStructureTextSize, n)
	}
}

func TestStructure_BackendFailures(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
		expected error
	}{
		{"RateLimited", "", failure.New(failure.RateLimited, "429", nil), failure.ErrRateLimited},
		{"QuotaExhausted", "", failure.New(failure.QuotaExhausted, "402", nil), failure.ErrQuotaExhausted},
		{"ForeignError", "", errors.New("dial tcp: refused"), failure.ErrServiceUnavailable},
		{"NotJSON", "<html>gateway</html>", nil, failure.ErrMalformedResponse},
		{"WrongShape", `{"title": 5, "sections": "none"}`, nil, failure.ErrMalformedResponse},
		{"NoSections", `{"title": "x", "sections": [], "flashcards": []}`, nil, failure.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &mockCompleter{OnCompleteStructured: func(ctx context.Context, req llm.StructuredRequest) (string, error) {
				return tt.response, tt.err
			}}
			_, err := NewService(backend).Structure(context.Background(), longText, "")
			if !errors.Is(err, tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, err)
			}
			if backend.calls != 1 {
				t.Fatalf("expected one call without retry, got %d", backend.calls)
			}
		})
	}
}

func TestStructure_AppliesDeadline(t *testing.T) {
	backend := &mockCompleter{OnCompleteStructured: func(ctx context.Context, req llm.StructuredRequest) (string, error) {
		if _, ok := ctx.Deadline(); !ok {
			t.Errorf("model call has no deadline")
		}
		return validPayload, nil
	}}
	if _, err := NewService(backend).Structure(context.Background(), longText, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct{ in, want string }{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
		{"Here you go: {\"a\":1} thanks", `{"a":1}`},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripFences(tt.in); got != tt.want {
			t.Errorf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate_DropsInvalidItems(t *testing.T) {
	raw := `{
	  "title": "  Mixed  ",
	  "sections": [
	    {"title": "", "chunks": [{"content": "kept"}, {"content": "   "}],
	     "questions": [
	       {"question_text": "ok?", "options": ["a","b","c","d"], "correct_answer": "c"},
	       {"question_text": "answer missing", "options": ["a","b","c","d"], "correct_answer": "e"},
	       {"question_text": "three options", "options": ["a","b","c"], "correct_answer": "a"},
	       {"question_text": "duplicate", "options": ["a","a","c","d"], "correct_answer": "c"}
	     ]},
	    {"title": "Empty", "chunks": [], "questions": []}
	  ],
	  "flashcards": [
	    {"term": "T", "definition": "D", "difficulty_level": "HARD"},
	    {"term": "T2", "definition": "D2", "difficulty_level": "extreme"},
	    {"term": "", "definition": "D3", "difficulty_level": "easy"}
	  ]
	}`

	doc, report, err := Decode(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "Mixed" {
		t.Errorf("title not trimmed: %q", doc.Title)
	}
	if len(doc.Sections) != 1 || doc.Sections[0].Title != "Section 1" {
		t.Fatalf("unexpected sections: %+v", doc.Sections)
	}
	if len(doc.Sections[0].Chunks) != 1 || len(doc.Sections[0].Questions) != 1 {
		t.Fatalf("unexpected section content: %+v", doc.Sections[0])
	}
	if len(doc.Flashcards) != 2 || doc.Flashcards[0].DifficultyLevel != "hard" || doc.Flashcards[1].DifficultyLevel != "" {
		t.Fatalf("unexpected flashcards: %+v", doc.Flashcards)
	}
	expected := ValidationReport{DroppedSections: 1, DroppedChunks: 1, DroppedQuestions: 3, DroppedFlashcards: 1}
	if report != expected {
		t.Errorf("expected report %+v, got %+v", expected, report)
	}
}

func TestToolSchema_RequiresTopLevelFields(t *testing.T) {
	schema := ToolSchema()
	required, ok := schema["required"].([]string)
	if !ok || strings.Join(required, ",") != "title,sections,flashcards" {
		t.Fatalf("unexpected required list: %v", schema["required"])
	}
}
