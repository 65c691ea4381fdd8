package structure

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/akolanti/studypadi/internal/domain/failure"
	"github.com/akolanti/studypadi/internal/domain/studyModel"
)

const questionOptionCount = 4

type ValidationReport struct {
	DroppedSections   int
	DroppedChunks     int
	DroppedQuestions  int
	DroppedFlashcards int
}

func (r ValidationReport) Clean() bool {
	return r == ValidationReport{}
}

// StripFences removes a surrounding markdown code fence and any prose around the JSON object.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
	}
	if !strings.HasPrefix(s, "{") {
		start, end := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}')
		if start >= 0 && end > start {
			s = s[start : end+1]
		}
	}
	return s
}

// Decode parses a model payload and validates it. Any shape problem is MalformedResponse.
func Decode(raw string) (studyModel.StructuredDocument, ValidationReport, error) {
	var doc studyModel.StructuredDocument
	payload := StripFences(raw)
	if payload == "" {
		return doc, ValidationReport{}, failure.New(failure.MalformedResponse, "empty structured payload", nil)
	}
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return doc, ValidationReport{}, failure.New(failure.MalformedResponse, "structured payload is not valid JSON of the expected shape", err)
	}
	return Validate(doc)
}

// Validate enforces the invariants the persistence layer relies on. Items that break them
// are dropped; a document left without sections is rejected.
func Validate(doc studyModel.StructuredDocument) (studyModel.StructuredDocument, ValidationReport, error) {
	var report ValidationReport
	if len(doc.Sections) == 0 {
		return doc, report, failure.New(failure.MalformedResponse, "response contained no sections", nil)
	}

	out := studyModel.StructuredDocument{Title: strings.TrimSpace(doc.Title)}
	for i, section := range doc.Sections {
		clean := studyModel.StructuredSection{Title: strings.TrimSpace(section.Title)}
		if clean.Title == "" {
			clean.Title = fmt.Sprintf("Section %d", i+1)
		}
		for _, chunk := range section.Chunks {
			if strings.TrimSpace(chunk.Content) == "" {
				report.DroppedChunks++
				continue
			}
			clean.Chunks = append(clean.Chunks, studyModel.StructuredChunk{Content: chunk.Content})
		}
		for _, q := range section.Questions {
			if !validQuestion(q) {
				report.DroppedQuestions++
				continue
			}
			clean.Questions = append(clean.Questions, q)
		}
		if len(clean.Chunks) == 0 && len(clean.Questions) == 0 {
			report.DroppedSections++
			continue
		}
		out.Sections = append(out.Sections, clean)
	}
	if len(out.Sections) == 0 {
		return out, report, failure.New(failure.MalformedResponse, "no section carried usable content", nil)
	}

	for _, card := range doc.Flashcards {
		term, def := strings.TrimSpace(card.Term), strings.TrimSpace(card.Definition)
		if term == "" || def == "" {
			report.DroppedFlashcards++
			continue
		}
		level := studyModel.Difficulty(strings.ToLower(strings.TrimSpace(string(card.DifficultyLevel))))
		if !level.Valid() {
			level = ""
		}
		out.Flashcards = append(out.Flashcards, studyModel.StructuredFlashcard{Term: term, Definition: def, DifficultyLevel: level})
	}
	return out, report, nil
}

func validQuestion(q studyModel.StructuredQuestion) bool {
	if strings.TrimSpace(q.QuestionText) == "" || len(q.Options) != questionOptionCount {
		return false
	}
	seen := make(map[string]struct{}, len(q.Options))
	matches := 0
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return false
		}
		if _, dup := seen[opt]; dup {
			return false
		}
		seen[opt] = struct{}{}
		if opt == q.CorrectAnswer {
			matches++
		}
	}
	return matches == 1
}
