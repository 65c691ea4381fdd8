// @title           StudyPadi Ingestion API
// @version         1.0
// @description     Uploads study documents, turns them into sections, quizzes and flashcards, and answers questions about them.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email   ank.github@gmail.com

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/studypadi/internal/bootstrap"
	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/data/store"
	jobmodel "github.com/akolanti/studypadi/internal/domain/jobModel"
	"github.com/akolanti/studypadi/internal/handlers"
	"github.com/akolanti/studypadi/internal/job"
	"github.com/akolanti/studypadi/internal/server"
	"github.com/akolanti/studypadi/internal/worker"
	"github.com/akolanti/studypadi/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")
	settings := config.Load()

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	components, err := bootstrap.Build(serviceContext, settings)
	if err != nil {
		logger.Error("Could not start the ingestion pipeline. Shutting down.", "error", err)
		return
	}
	defer components.Close()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		Documents:         components.Documents,
		QAEnabled:         components.Answers != nil,
	}
	//typed nils must not reach the interfaces
	if jobStore, progressStore := store.GetRedisJobStore(serviceContext), store.GetRedisProgressStore(serviceContext); jobStore != nil && progressStore != nil {
		serviceConfig.JobStore, serviceConfig.ProgressStore = jobStore, progressStore
	} else {
		logger.Error("Redis stores are offline, job state is kept in memory")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
		serviceConfig.ProgressStore = store.InitProgressStore()
	}
	logger.Info("Starting job service")
	service := job.InitJobService(serviceConfig)

	handlers.InitJobHandler(service)

	//init worker pool
	var answerer worker.Answerer
	if components.Answers != nil {
		answerer = components.Answers
	}
	worker.InitServices(service, components.Pipeline, answerer)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
