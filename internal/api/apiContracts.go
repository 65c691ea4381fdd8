package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id         string            `json:"id" example:"job_cz109"`
	JobType    string            `json:"job_type,omitempty" example:"Ingest"`
	Result     Result            `json:"result"`
	Error      *JobOutgoingError `json:"error,omitempty"`
	StartTime  time.Time         `json:"start_time"`
	EndTime    time.Time         `json:"end_time,omitempty"`
	Phase      string            `json:"phase,omitempty" example:"Structuring"`
	Progress   int               `json:"progress" example:"35"`
	StatusText string            `json:"status_text,omitempty" example:"Analyzing document with AI"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"422"`
	Kind    string `json:"kind,omitempty" example:"EmptyExtraction"`
	Title   string `json:"title,omitempty" example:"No text found"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type RAGResponse struct {
	DocumentId string   `json:"document_id"`
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Sources    []string `json:"sources"`
}

type IngestResponse struct {
	DocumentId      string `json:"document_id"`
	Title           string `json:"title"`
	SectionsCount   int    `json:"sections_count"`
	ChunksCount     int    `json:"chunks_count"`
	QuestionsCount  int    `json:"questions_count"`
	FlashcardsCount int    `json:"flashcards_count"`
}

type Result struct {
	Status              string          `json:"status"`
	IngestResponse      *IngestResponse `json:"ingest_result,omitempty"`
	RAGExternalResponse *RAGResponse    `json:"rag_response,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type TimelineEvent struct {
	Phase      string    `json:"phase" example:"Extracting"`
	Progress   int       `json:"progress" example:"10"`
	StatusText string    `json:"status_text" example:"Extracting text"`
	At         time.Time `json:"at"`
}

type TimelineResponse struct {
	Id     string          `json:"id"`
	Events []TimelineEvent `json:"events"`
}

type DocumentSummary struct {
	Id               string    `json:"id"`
	Title            string    `json:"title"`
	OriginalFilename string    `json:"original_filename,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	SectionsCount    int       `json:"sections_count"`
	ChunksCount      int       `json:"chunks_count"`
	QuestionsCount   int       `json:"questions_count"`
	FlashcardsCount  int       `json:"flashcards_count"`
}

type DocumentListResponse struct {
	OwnerId   string            `json:"owner_id"`
	Documents []DocumentSummary `json:"documents"`
}

// requests---------------------

type AskRequest struct {
	Question string `json:"question" validate:"required"`
}
