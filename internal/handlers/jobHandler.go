package handlers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/domain/jobModel"
	"github.com/akolanti/studypadi/internal/domain/studyModel"
	"github.com/akolanti/studypadi/internal/job"
	"github.com/akolanti/studypadi/internal/metrics"
	"github.com/akolanti/studypadi/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger

	errServiceNotReady = errors.New("job service not initialised")
)

type JobHandler struct {
	service *job.Service
}

func InitJobHandler(jobService *job.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})

}

func CreateNewJob(ctx context.Context, newJob newJobData) error {
	if handlerInstance == nil {
		return errServiceNotReady
	}
	log := logJH.With("traceId", newJob.traceId, "job id", newJob.id, "type", newJob.jobType)
	log.Info("To create new job")
	return handlerInstance.pushToJobChannel(ctx, newJob, log)
}

func GetJobStatus(ctx context.Context, id string) (result jobModel.Job, isFound bool) {
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctx, id)
	}
	return result, false
}

func GetJobTimeline(ctx context.Context, id string) ([]jobModel.ProgressEvent, error) {
	if handlerInstance == nil {
		return nil, errServiceNotReady
	}
	return handlerInstance.service.ProgressStore.GetTimeline(ctx, id)
}

func ListDocuments(ctx context.Context, ownerId string) ([]studyModel.DocumentSummary, error) {
	if handlerInstance == nil {
		return nil, errServiceNotReady
	}
	return handlerInstance.service.Documents.ListDocuments(ctx, ownerId)
}

func GetDocument(ctx context.Context, ownerId string, documentId string) (studyModel.DocumentTree, error) {
	if handlerInstance == nil {
		return studyModel.DocumentTree{}, errServiceNotReady
	}
	return handlerInstance.service.Documents.GetDocumentTree(ctx, ownerId, documentId)
}

func QAEnabled() bool {
	return handlerInstance != nil && handlerInstance.service.QAEnabled
}

// private methods
func (h *JobHandler) pushToJobChannel(ctx context.Context, newJob newJobData, log *logger_i.Logger) error {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.OwnerId = newJob.ownerId
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued
	_job.Phase = jobModel.PhaseQueued
	_job.StatusText = config.QueuedStatusText
	_job.JobType = newJob.jobType

	if newJob.jobType == jobModel.JobTypeIngest {
		_job.JobPayload.FileName = newJob.fileName
		_job.JobPayload.MediaType = newJob.mediaType
		_job.JobPayload.FileSize = int64(len(newJob.content))
		_job.JobPayload.Content = newJob.content
	} else {
		_job.JobPayload.DocumentId = newJob.documentId
		_job.JobPayload.Question = newJob.question
	}

	//the queued record is what GET /status sees until a worker picks the job up
	if err := h.service.JobStore.SaveJob(ctx, _job); err != nil {
		log.Error("Could not save queued job", "error", err)
		return err
	}
	if err := h.service.ProgressStore.AppendEvent(ctx, _job.Id, jobModel.ProgressEvent{
		Phase:      jobModel.PhaseQueued,
		StatusText: config.QueuedStatusText,
		At:         _job.CreatedTime.UTC(),
	}); err != nil {
		log.Warn("Could not record queued event", "error", err)
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed
	log.Info("Created new job")

	//a new worker is started every N requests, and for every ingestion since it holds
	//a worker through a slow external model call. idle workers retire on their own.
	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1) //after sending a request increment counter
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || _job.JobType == jobModel.JobTypeIngest {
		metrics.StartDispatcherSignalCount() //metrics
		log.Debug("Worker count ", "requests", accurateCount)
		h.service.DispatcherChannel <- true
	}
	return nil
}
