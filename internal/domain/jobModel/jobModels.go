package jobModel

import (
	"context"
	"time"

	"github.com/akolanti/studypadi/internal/domain/studyModel"
)

type JobStatus string
type Phase string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	PhaseQueued      Phase = "Queued"
	PhaseExtracting  Phase = "Extracting"
	PhaseStructuring Phase = "Structuring"
	PhasePersisting  Phase = "Persisting"
	PhaseDone        Phase = "Done"
	PhaseFailed      Phase = "Failed"

	//ask jobs
	PhaseEmbedding Phase = "Embedding"
	PhaseCache     Phase = "CacheLookup"
	PhaseSearch    Phase = "VectorSearch"
	PhaseAnswer    Phase = "Answering"

	JobTypeIngest JobType = "Ingest"
	JobTypeAsk    JobType = "Ask"
)

type Job struct {
	Id          string     `json:"id"`
	OwnerId     string     `json:"owner_id"`
	TraceId     string     `json:"trace_id"`
	JobType     JobType    `json:"job_type"`
	JobPayload  JobPayload `json:"job_payload"`
	Error       JobError   `json:"error,omitempty"`
	CreatedTime time.Time  `json:"created_time"`
	EndTime     time.Time  `json:"end_time,omitempty"`
	Status      JobStatus  `json:"status"`
	Phase       Phase      `json:"phase"`
	Progress    int        `json:"progress"`
	StatusText  string     `json:"status_text"`
}

type JobError struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	FileName  string `json:"file_name,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	FileSize  int64  `json:"file_size,omitempty"`
	//upload bytes travel through the job channel only, never through a store
	Content []byte `json:"-"`

	Result *studyModel.IngestResult `json:"result,omitempty"`

	DocumentId string   `json:"document_id,omitempty"`
	Question   string   `json:"question,omitempty"`
	Answer     string   `json:"answer,omitempty"`
	Sources    []string `json:"sources,omitempty"`
}

// ProgressEvent is one entry of a job's timeline.
type ProgressEvent struct {
	Phase      Phase     `json:"phase"`
	Progress   int       `json:"progress"`
	StatusText string    `json:"status_text"`
	At         time.Time `json:"at"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

type ProgressStore interface {
	AppendEvent(ctx context.Context, jobId string, event ProgressEvent) error
	GetTimeline(ctx context.Context, jobId string) ([]ProgressEvent, error)
}
