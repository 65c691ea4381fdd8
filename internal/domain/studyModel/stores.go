package studyModel

import (
	"context"
	"errors"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentWriter is the insert side used by the persistence fan-out.
// Batch inserts are all-or-nothing per call.
type DocumentWriter interface {
	InsertDocument(ctx context.Context, doc Document) error
	InsertSection(ctx context.Context, section Section) error
	InsertChunks(ctx context.Context, chunks []Chunk) error
	InsertQuestions(ctx context.Context, questions []Question) error
	InsertFlashcards(ctx context.Context, cards []Flashcard) error
	InsertLearningProgress(ctx context.Context, progress LearningProgress) error
}

type DocumentReader interface {
	ListDocuments(ctx context.Context, ownerId string) ([]DocumentSummary, error)
	GetDocumentTree(ctx context.Context, ownerId string, documentId string) (DocumentTree, error)
}

type DocumentStore interface {
	DocumentWriter
	DocumentReader
	Close()
}
