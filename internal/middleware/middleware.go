package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/studypadi/internal/handlers"
	"github.com/akolanti/studypadi/internal/metrics"
	"github.com/akolanti/studypadi/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var GetHandler = Wrap(handlers.GetHandler)

var PostDocumentHandler = Wrap(handlers.PostDocumentHandler)
var ListDocumentsHandler = Wrap(handlers.ListDocumentsHandler)
var GetDocumentHandler = Wrap(handlers.GetDocumentHandler)
var AskDocumentHandler = Wrap(handlers.AskDocumentHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)
var GetTimelineHandler = Wrap(handlers.GetTimelineHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if !re.badRequest.isBadRequest {
			next(rec, re.req)
		}

		metrics.HttpRequestsTotal.WithLabelValues(routePattern(r), strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")
	for _, step := range []func(requestResponseStruct) requestResponseStruct{injectTrace, authenticate, rateLimiter, injectOwner} {
		re = step(re)
		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return re
		}
	}
	return re
}
