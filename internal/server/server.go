package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/akolanti/studypadi/internal/adapter/utils"
	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/middleware"
	"github.com/akolanti/studypadi/pkg/logger_i"
)

var (
	server     *http.Server
	_logger    *logger_i.Logger
	routesOnce sync.Once
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

// Routes registers the API on the shared router once and returns it.
func Routes() http.Handler {
	r := utils.GetRouter()
	routesOnce.Do(func() {
		r.Router.Get("/health", middleware.GetHandler)
		r.Router.Post("/documents", middleware.PostDocumentHandler)
		r.Router.Get("/documents", middleware.ListDocumentsHandler)
		r.Router.Get("/documents/{id}", middleware.GetDocumentHandler)
		r.Router.Post("/documents/{id}/ask", middleware.AskDocumentHandler)
		r.Router.Get("/status/{id}", middleware.GetStatusHandler)
		r.Router.Get("/status/{id}/timeline", middleware.GetTimelineHandler)
	})
	return r.Router
}

func CreateServer(listenAddr string) {
	_logger = logger_i.NewLogger("Server")

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      Routes(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error :", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully", "error", err)
		}

		//close workers
		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully is shutting down")
	case <-ctx.Done():
		_logger.Info("Force Shut down")
		os.Exit(1)
	}
}
