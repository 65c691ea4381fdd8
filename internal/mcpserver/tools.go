package mcpserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/domain/failure"
	"github.com/akolanti/studypadi/internal/domain/jobModel"
	"github.com/akolanti/studypadi/internal/domain/studyModel"
	"github.com/akolanti/studypadi/internal/ingest"
	"github.com/akolanti/studypadi/internal/ingest/extract"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type IngestInput struct {
	OwnerId  string `json:"owner_id" jsonschema:"the learner who owns the document"`
	Path     string `json:"path,omitempty" jsonschema:"local path of a PDF, DOCX or TXT file"`
	Content  string `json:"content,omitempty" jsonschema:"plain text to ingest instead of a file"`
	FileName string `json:"file_name,omitempty" jsonschema:"file name used as the title hint when content is given"`
}

type IngestOutput struct {
	DocumentId      string   `json:"document_id,omitempty"`
	Title           string   `json:"title,omitempty"`
	SectionsCount   int      `json:"sections_count"`
	ChunksCount     int      `json:"chunks_count"`
	QuestionsCount  int      `json:"questions_count"`
	FlashcardsCount int      `json:"flashcards_count"`
	Phases          []string `json:"phases"`
	ErrorKind       string   `json:"error_kind,omitempty"`
	ErrorTitle      string   `json:"error_title,omitempty"`
	ErrorMessage    string   `json:"error_message,omitempty"`
	CanRetry        bool     `json:"can_retry,omitempty"`
}

type ListInput struct {
	OwnerId string `json:"owner_id" jsonschema:"the learner whose documents are listed"`
}

type DocumentRow struct {
	DocumentId       string `json:"document_id"`
	Title            string `json:"title"`
	OriginalFilename string `json:"original_filename,omitempty"`
	CreatedAt        string `json:"created_at"`
	SectionsCount    int    `json:"sections_count"`
	ChunksCount      int    `json:"chunks_count"`
	QuestionsCount   int    `json:"questions_count"`
	FlashcardsCount  int    `json:"flashcards_count"`
}

type ListOutput struct {
	Documents []DocumentRow `json:"documents"`
	Count     int           `json:"count"`
}

type GetInput struct {
	OwnerId    string `json:"owner_id" jsonschema:"the learner who owns the document"`
	DocumentId string `json:"document_id" jsonschema:"id returned by ingest_document or list_documents"`
}

type QuestionOutput struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

type SectionOutput struct {
	Title     string           `json:"title"`
	Order     int              `json:"order_index"`
	Chunks    []string         `json:"chunks"`
	Questions []QuestionOutput `json:"questions"`
}

type FlashcardOutput struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Difficulty string `json:"difficulty_level"`
}

type GetOutput struct {
	DocumentId string            `json:"document_id"`
	Title      string            `json:"title"`
	Sections   []SectionOutput   `json:"sections"`
	Flashcards []FlashcardOutput `json:"flashcards"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_document",
		Description: "Turn a local PDF, DOCX or TXT file (or plain text) into study sections, quiz questions and flashcards",
	}, s.handleIngest)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List a learner's ingested documents, newest first",
	}, s.handleList)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document",
		Description: "Get the sections, chunks, questions and flashcards of one document",
	}, s.handleGet)
}

// handleIngest runs the pipeline synchronously. Pipeline failures come back as output
// fields so the caller can read the kind; only bad input is a tool error.
func (s *Server) handleIngest(ctx context.Context, _ *mcp.CallToolRequest, input IngestInput) (*mcp.CallToolResult, IngestOutput, error) {
	if strings.TrimSpace(input.OwnerId) == "" {
		return nil, IngestOutput{}, errors.New("owner_id is required")
	}
	upload, err := s.uploadFrom(input)
	if err != nil {
		var typed *failure.Error
		if errors.As(err, &typed) {
			return nil, failedOutput(typed, nil), nil
		}
		return nil, IngestOutput{}, err
	}

	var phases []string
	reporter := ingest.ReporterFunc(func(_ context.Context, event jobModel.ProgressEvent) {
		phases = append(phases, string(event.Phase))
	})
	result, err := s.pipeline.Run(ctx, input.OwnerId, upload, reporter)
	if err != nil {
		s.logger.ForContext(ctx).Warn("mcp ingestion failed", "kind", failure.KindOf(err), "file", upload.FileName)
		return nil, failedOutput(failure.As(err, failure.ServiceUnavailable), phases), nil
	}
	return nil, IngestOutput{
		DocumentId:      result.DocumentId,
		Title:           result.Title,
		SectionsCount:   result.SectionsCount,
		ChunksCount:     result.ChunksCount,
		QuestionsCount:  result.QuestionsCount,
		FlashcardsCount: result.FlashcardsCount,
		Phases:          phases,
	}, nil
}

func (s *Server) uploadFrom(input IngestInput) (extract.Upload, error) {
	switch {
	case input.Path != "" && input.Content != "":
		return extract.Upload{}, errors.New("give either path or content, not both")
	case input.Content != "":
		name := input.FileName
		if name == "" {
			name = "notes.txt"
		}
		return extract.Upload{
			FileName:  name,
			MediaType: string(extract.PlainText),
			Size:      int64(len(input.Content)),
			Body:      strings.NewReader(input.Content),
		}, nil
	case input.Path != "":
		mediaType, ok := extract.ResolveMediaType("", input.Path)
		if !ok {
			return extract.Upload{}, failure.Errorf(failure.UnsupportedFormat, "%s", filepath.Ext(input.Path))
		}
		info, err := os.Stat(input.Path)
		if err != nil {
			return extract.Upload{}, fmt.Errorf("reading %s: %w", input.Path, err)
		}
		if info.Size() > config.MaxUploadBytes {
			return extract.Upload{}, failure.Errorf(failure.FileTooLarge, "%d bytes", info.Size())
		}
		content, err := os.ReadFile(input.Path)
		if err != nil {
			return extract.Upload{}, fmt.Errorf("reading %s: %w", input.Path, err)
		}
		return extract.Upload{
			FileName:  filepath.Base(input.Path),
			MediaType: string(mediaType),
			Size:      int64(len(content)),
			Body:      bytes.NewReader(content),
		}, nil
	default:
		return extract.Upload{}, errors.New("path or content is required")
	}
}

func failedOutput(err *failure.Error, phases []string) IngestOutput {
	p := failure.Present(err.Kind)
	return IngestOutput{
		Phases:       phases,
		ErrorKind:    string(err.Kind),
		ErrorTitle:   p.Title,
		ErrorMessage: p.Message,
		CanRetry:     p.CanRetry,
	}
}

func (s *Server) handleList(ctx context.Context, _ *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
	if strings.TrimSpace(input.OwnerId) == "" {
		return nil, ListOutput{}, errors.New("owner_id is required")
	}
	docs, err := s.documents.ListDocuments(ctx, input.OwnerId)
	if err != nil {
		return nil, ListOutput{}, err
	}
	out := ListOutput{Documents: make([]DocumentRow, len(docs)), Count: len(docs)}
	for i, d := range docs {
		out.Documents[i] = DocumentRow{
			DocumentId:       d.Id,
			Title:            d.Title,
			OriginalFilename: d.OriginalFilename,
			CreatedAt:        d.CreatedAt.UTC().Format(time.RFC3339),
			SectionsCount:    d.SectionsCount,
			ChunksCount:      d.ChunksCount,
			QuestionsCount:   d.QuestionsCount,
			FlashcardsCount:  d.FlashcardsCount,
		}
	}
	return nil, out, nil
}

func (s *Server) handleGet(ctx context.Context, _ *mcp.CallToolRequest, input GetInput) (*mcp.CallToolResult, GetOutput, error) {
	if strings.TrimSpace(input.OwnerId) == "" || strings.TrimSpace(input.DocumentId) == "" {
		return nil, GetOutput{}, errors.New("owner_id and document_id are required")
	}
	tree, err := s.documents.GetDocumentTree(ctx, input.OwnerId, input.DocumentId)
	if err != nil {
		return nil, GetOutput{}, err
	}
	return nil, toGetOutput(tree), nil
}

func toGetOutput(tree studyModel.DocumentTree) GetOutput {
	out := GetOutput{
		DocumentId: tree.Document.Id,
		Title:      tree.Document.Title,
		Sections:   make([]SectionOutput, 0, len(tree.Sections)),
		Flashcards: make([]FlashcardOutput, 0, len(tree.Flashcards)),
	}
	for _, sec := range tree.Sections {
		so := SectionOutput{Title: sec.Title, Order: sec.OrderIndex, Chunks: make([]string, 0, len(sec.Chunks)), Questions: make([]QuestionOutput, 0, len(sec.Questions))}
		for _, c := range sec.Chunks {
			so.Chunks = append(so.Chunks, c.Content)
		}
		for _, q := range sec.Questions {
			so.Questions = append(so.Questions, QuestionOutput{QuestionText: q.QuestionText, Options: q.Options, CorrectAnswer: q.CorrectAnswer, Explanation: q.Explanation})
		}
		out.Sections = append(out.Sections, so)
	}
	for _, f := range tree.Flashcards {
		out.Flashcards = append(out.Flashcards, FlashcardOutput{Term: f.Term, Definition: f.Definition, Difficulty: string(f.DifficultyLevel)})
	}
	return out
}
