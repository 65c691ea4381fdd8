package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/akolanti/studypadi/internal/adapter"
	"github.com/akolanti/studypadi/internal/adapter/utils"
	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/domain/failure"
	"github.com/akolanti/studypadi/internal/domain/jobModel"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response", "error", err)
	}
}

func validateId(r *http.Request, id string) (result jobModel.Job, isFound bool) {
	if id == "" {
		logRH.Warn("Empty Job ID")
		return jobModel.Job{}, false
	}
	return GetJobStatus(r.Context(), id)
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.Warn("context error", "error", ctx.Err(), "traceId", traceFrom(ctx))
		return false
	}
	return true
}

func traceFrom(ctx context.Context) string {
	trace, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	return trace
}

// ownerFromRequest prefers the owner the middleware put on the context (the X-Owner-Id
// header) and falls back to an owner_id form field on uploads.
func ownerFromRequest(r *http.Request) string {
	if owner, _ := r.Context().Value(config.OWNER_ID_KEY).(string); strings.TrimSpace(owner) != "" {
		return strings.TrimSpace(owner)
	}
	if r.MultipartForm != nil {
		return strings.TrimSpace(r.FormValue("owner_id"))
	}
	return ""
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

func writeFailure(w http.ResponseWriter, kind failure.Kind) {
	p := failure.Present(kind)
	writeJsonResponse(w, p.Code, adapter.FailureResponse(string(kind), p.Title, p.Message, p.Code, p.CanRetry))
}

func processNewJobData(w http.ResponseWriter, request *http.Request, newJob newJobData) {
	newJob.id = utils.GetNewUUID()
	newJob.traceId = traceFrom(request.Context())

	if err := CreateNewJob(request.Context(), newJob); err != nil {
		WriteErrorResponse(w, http.StatusServiceUnavailable, newJob.id, "Could not queue job")
		return
	}
	res := adapter.ToInitJobResponse(newJob.id)
	writeJsonResponse(w, http.StatusAccepted, res)
}
