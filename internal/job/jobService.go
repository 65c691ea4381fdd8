package job

import (
	"github.com/akolanti/studypadi/internal/domain/jobModel"
	"github.com/akolanti/studypadi/internal/domain/studyModel"
)

type Service struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	ProgressStore     jobModel.ProgressStore
	Documents         studyModel.DocumentReader
	//false when the vector index or embedder could not be reached at startup
	QAEnabled bool
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	ProgressStore     jobModel.ProgressStore
	Documents         studyModel.DocumentReader
	QAEnabled         bool
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		ProgressStore:     cfg.ProgressStore,
		Documents:         cfg.Documents,
		QAEnabled:         cfg.QAEnabled,
	}
}
