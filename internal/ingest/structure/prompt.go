package structure

import (
	"fmt"
	"strings"
)

const SystemPolicy = `You are a document analysis AI for an adaptive learning platform called StudyPadi.

Analyze the document text you are given and create a structured learning breakdown by calling the structure_document function.

RULES:
1. Create 3-8 logical sections that follow the document's own organisation.
2. For each section, split its material into 2-5 learning chunks of roughly 100-400 words each. Chunks must be built from the actual source text; do not invent content that is not in the document.
3. For each section, write 2-4 multiple choice quiz questions. Every question has exactly 4 distinct options, and correct_answer must repeat one of the options verbatim.
4. Create 8-20 flashcards (term + definition) covering the whole document, each with difficulty_level easy, medium or hard.
5. Give the document a clear, concise title.

If function calling is unavailable, return ONLY the JSON object with the same fields (no markdown, no code fences).`

const toolDescription = "Store the learning breakdown of a document: title, ordered sections with chunks and quiz questions, and flashcards."

// UserPrompt carries the filename hint and the already truncated text.
func UserPrompt(text string, filenameHint string) string {
	var b strings.Builder
	if hint := strings.TrimSpace(filenameHint); hint != "" {
		fmt.Fprintf(&b, "FILENAME: %s\n\n", hint)
	}
	b.WriteString("DOCUMENT TEXT:\n")
	b.WriteString(text)
	return b.String()
}

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func arrayOf(item map[string]any, desc string) map[string]any {
	return map[string]any{"type": "array", "description": desc, "items": item}
}

func object(props map[string]any, required ...string) map[string]any {
	return map[string]any{"type": "object", "properties": props, "required": required}
}

// ToolSchema is the JSON schema of the structure_document arguments.
func ToolSchema() map[string]any {
	question := object(map[string]any{
		"question_text":  str("The question"),
		"options":        arrayOf(str("One answer option"), "Exactly 4 distinct options"),
		"correct_answer": str("Verbatim copy of the correct option"),
		"explanation":    str("Why the answer is correct"),
	}, "question_text", "options", "correct_answer")

	chunk := object(map[string]any{
		"content": str("100-400 words of learning content taken from the document"),
	}, "content")

	section := object(map[string]any{
		"title":     str("Section title"),
		"chunks":    arrayOf(chunk, "2-5 chunks in reading order"),
		"questions": arrayOf(question, "2-4 quiz questions"),
	}, "title", "chunks", "questions")

	difficulty := str("easy, medium or hard")
	difficulty["enum"] = []string{"easy", "medium", "hard"}

	flashcard := object(map[string]any{
		"term":             str("Key term"),
		"definition":       str("Short definition"),
		"difficulty_level": difficulty,
	}, "term", "definition", "difficulty_level")

	return object(map[string]any{
		"title":      str("A clear, concise title for this document"),
		"sections":   arrayOf(section, "3-8 sections in document order"),
		"flashcards": arrayOf(flashcard, "8-20 flashcards covering the whole document"),
	}, "title", "sections", "flashcards")
}
