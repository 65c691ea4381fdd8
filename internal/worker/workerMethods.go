package worker

import (
	"bytes"
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/domain/failure"
	jobmodel "github.com/akolanti/studypadi/internal/domain/jobModel"
	"github.com/akolanti/studypadi/internal/ingest/extract"
	"github.com/akolanti/studypadi/internal/metrics"
	"github.com/akolanti/studypadi/pkg/logger_i"
)

const (
	askStartProgress = 10
	askStartText     = "Searching your document"
	askDoneText      = "Answer ready"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	timeout := config.AskJobTimeout
	if job.JobType == jobmodel.JobTypeIngest {
		timeout = config.IngestJobTimeout
	}
	ctx, cancel := context.WithTimeout(ctxTrace, timeout)
	defer cancel()
	log := logger.ForContext(ctx).With("jobId", job.Id, "jobType", job.JobType)
	log.Debug("Processing job")

	job.Status = jobmodel.JobStatusRunning
	saveJobState(ctx, job, log)

	switch job.JobType {
	case jobmodel.JobTypeIngest:
		job = ingestDocument(ctx, job, log)
	case jobmodel.JobTypeAsk:
		job = processQuery(ctx, job, log)
	default:
		log.Error("Unknown job type")
		job = failJob(job, failure.New(failure.ServiceUnavailable, "unknown job type", nil))
	}

	job.JobPayload.Content = nil
	job.EndTime = time.Now()
	if job.Status != jobmodel.JobStatusError {
		job.Status = jobmodel.JobStatusComplete
	}
	//the terminal state must land even when the job ran out of time
	saveJobState(context.WithoutCancel(ctx), job, log)
	metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	log.Info("Job finished", "status", job.Status, "phase", job.Phase, "elapsed", time.Since(start))
}

func removeWorker(reason string) {
	atomic.AddInt64(&currentWorkerCount, -1)
	finishWorker(reason)
}

// retireIdle removes the calling worker unless that would drop the pool below its minimum.
func retireIdle() bool {
	for {
		count := atomic.LoadInt64(&currentWorkerCount)
		if count <= atomic.LoadInt64(&minWorkerCount) {
			return false
		}
		if atomic.CompareAndSwapInt64(&currentWorkerCount, count, count-1) {
			finishWorker("Idle worker timeout - Removed worker")
			return true
		}
	}
}

func finishWorker(reason string) {
	workerWaitGroup.Done()
	logger.Info("Removed worker ", "reason", reason, "workerCount", atomic.LoadInt64(&currentWorkerCount))
	metrics.DecrementActiveWorkerCount()
}

// jobReporter mirrors pipeline phases into the job record and its timeline.
type jobReporter struct {
	job *jobmodel.Job
	log *logger_i.Logger
}

func (r *jobReporter) Report(ctx context.Context, event jobmodel.ProgressEvent) {
	r.job.Phase = event.Phase
	r.job.Progress = event.Progress
	r.job.StatusText = event.StatusText
	saveJobState(ctx, *r.job, r.log)
	appendEvent(ctx, r.job.Id, event, r.log)
}

func ingestDocument(ctx context.Context, job jobmodel.Job, log *logger_i.Logger) jobmodel.Job {
	upload := extract.Upload{
		FileName:  job.JobPayload.FileName,
		MediaType: job.JobPayload.MediaType,
		Size:      job.JobPayload.FileSize,
		Body:      bytes.NewReader(job.JobPayload.Content),
	}
	//the upload bytes are not needed once the reader owns them
	job.JobPayload.Content = nil

	result, err := _ingestor.Run(ctx, job.OwnerId, upload, &jobReporter{job: &job, log: log})
	if err != nil {
		return failJob(job, err)
	}
	job.JobPayload.Result = &result
	return job
}

func processQuery(ctx context.Context, job jobmodel.Job, log *logger_i.Logger) jobmodel.Job {
	reporter := &jobReporter{job: &job, log: log}
	reporter.Report(ctx, jobmodel.ProgressEvent{
		Phase:      jobmodel.PhaseEmbedding,
		Progress:   askStartProgress,
		StatusText: askStartText,
		At:         time.Now().UTC(),
	})

	if _answerer == nil {
		job = failJob(job, failure.New(failure.ServiceUnavailable, "question answering is disabled", nil))
	} else {
		job = _answerer.AnswerQuestion(ctx, job)
	}

	event := jobmodel.ProgressEvent{Phase: jobmodel.PhaseDone, Progress: 100, StatusText: askDoneText, At: time.Now().UTC()}
	if job.Status == jobmodel.JobStatusError {
		event = jobmodel.ProgressEvent{Phase: jobmodel.PhaseFailed, Progress: askStartProgress, StatusText: job.Error.Title, At: time.Now().UTC()}
		if event.StatusText == "" {
			event.StatusText = job.Error.Message
		}
	}
	job.Phase, job.Progress, job.StatusText = event.Phase, event.Progress, event.StatusText
	appendEvent(context.WithoutCancel(ctx), job.Id, event, log)
	return job
}

// failJob turns a pipeline error into the job error the learner sees.
func failJob(job jobmodel.Job, err error) jobmodel.Job {
	typed := failure.As(err, failure.ServiceUnavailable)
	p := failure.Present(typed.Kind)
	job.Status = jobmodel.JobStatusError
	job.Phase = jobmodel.PhaseFailed
	job.StatusText = p.Title
	job.Error = jobmodel.JobError{
		Code:    p.Code,
		Kind:    string(typed.Kind),
		Title:   p.Title,
		Message: p.Message,
		Retry:   p.CanRetry,
	}
	return job
}

func saveJobState(ctx context.Context, job jobmodel.Job, log *logger_i.Logger) {
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		log.Error("Failed to update job state", "err", err)
	}
}

func appendEvent(ctx context.Context, jobId string, event jobmodel.ProgressEvent, log *logger_i.Logger) {
	if _jobService.ProgressStore == nil {
		return
	}
	if err := _jobService.ProgressStore.AppendEvent(ctx, jobId, event); err != nil {
		log.Warn("Failed to record progress event", "phase", event.Phase, "err", err)
	}
}
