package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/studypadi/internal/api"
	"github.com/akolanti/studypadi/internal/domain/jobModel"
	"github.com/akolanti/studypadi/internal/domain/studyModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id), //pass "status/job.Id"
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Kind:    job.Error.Kind,
			Title:   job.Error.Title,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:              string(job.Status),
		IngestResponse:      ToIngestResponse(job.JobPayload.Result),
		RAGExternalResponse: ToRAGExternalStatus(job.JobPayload),
	}

	return api.JobResponse{
		Id:         job.Id,
		JobType:    string(job.JobType),
		StartTime:  job.CreatedTime,
		EndTime:    job.EndTime,
		Error:      errorPtr,
		Result:     result,
		Phase:      string(job.Phase),
		Progress:   job.Progress,
		StatusText: job.StatusText,
	}
}

func ToIngestResponse(result *studyModel.IngestResult) *api.IngestResponse {
	if result == nil {
		return nil
	}
	return &api.IngestResponse{
		DocumentId:      result.DocumentId,
		Title:           result.Title,
		SectionsCount:   result.SectionsCount,
		ChunksCount:     result.ChunksCount,
		QuestionsCount:  result.QuestionsCount,
		FlashcardsCount: result.FlashcardsCount,
	}
}

func ToRAGExternalStatus(ragData jobModel.JobPayload) *api.RAGResponse {
	if ragData.Answer == "" && len(ragData.Sources) == 0 {
		return nil
	}

	return &api.RAGResponse{
		DocumentId: ragData.DocumentId,
		Question:   ragData.Question,
		Answer:     ragData.Answer,
		Sources:    ragData.Sources,
	}
}

func ToTimelineResponse(id string, events []jobModel.ProgressEvent) api.TimelineResponse {
	out := api.TimelineResponse{Id: id, Events: make([]api.TimelineEvent, 0, len(events))}
	for _, e := range events {
		out.Events = append(out.Events, api.TimelineEvent{
			Phase:      string(e.Phase),
			Progress:   e.Progress,
			StatusText: e.StatusText,
			At:         e.At,
		})
	}
	return out
}

func ToDocumentList(ownerId string, docs []studyModel.DocumentSummary) api.DocumentListResponse {
	out := api.DocumentListResponse{OwnerId: ownerId, Documents: make([]api.DocumentSummary, 0, len(docs))}
	for _, d := range docs {
		out.Documents = append(out.Documents, api.DocumentSummary{
			Id:               d.Id,
			Title:            d.Title,
			OriginalFilename: d.OriginalFilename,
			CreatedAt:        d.CreatedAt,
			SectionsCount:    d.SectionsCount,
			ChunksCount:      d.ChunksCount,
			QuestionsCount:   d.QuestionsCount,
			FlashcardsCount:  d.FlashcardsCount,
		})
	}
	return out
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}

// FailureResponse is the synchronous rejection of a request with a typed failure.
func FailureResponse(kind string, title string, message string, code int, canRetry bool) api.JobResponse {
	res := BadRequest("", message, code)
	res.Error.Kind = kind
	res.Error.Title = title
	res.Error.Retry = canRetry
	return res
}
