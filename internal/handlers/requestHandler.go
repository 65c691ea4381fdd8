package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/akolanti/studypadi/internal/adapter"
	"github.com/akolanti/studypadi/internal/adapter/utils"
	"github.com/akolanti/studypadi/internal/api"
	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/domain/failure"
	"github.com/akolanti/studypadi/internal/domain/jobModel"
	"github.com/akolanti/studypadi/internal/domain/studyModel"
	"github.com/akolanti/studypadi/internal/ingest/extract"
	"github.com/akolanti/studypadi/pkg/logger_i"
)

var logRH = logger_i.NewLogger("RequestHandler")

type newJobData struct {
	id      string
	ownerId string
	traceId string
	jobType jobModel.JobType

	fileName  string
	mediaType string
	content   []byte

	documentId string
	question   string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// PostDocumentHandler godoc
// @Summary      Upload a document for ingestion
// @Description  Receives a PDF, DOCX or TXT file via multipart/form-data and queues an ingestion job that extracts, structures and saves it as study material.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        X-Owner-Id  header    string  false  "Owner of the document (wins over the owner_id form field)"
// @Param        owner_id    formData  string  false  "Owner of the document"
// @Param        document    formData  file    true   "The PDF, DOCX or TXT file to upload (max 10MB)"
// @Success      202  {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400  {object}  api.JobResponse      "Missing file or owner"
// @Failure      413  {object}  api.JobResponse      "File too large"
// @Failure      415  {object}  api.JobResponse      "Unsupported file type"
// @Router       /documents [post]
func PostDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes+config.MultipartSlackBytes)
	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeFailure(w, failure.FileTooLarge)
			return
		}
		WriteErrorResponse(w, http.StatusBadRequest, "", "Expected a multipart form with a document part")
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logRH.Warn("Couldn't remove multipart temp files", "error", err)
		}
	}()

	ownerId := ownerFromRequest(r)
	if ownerId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "owner id is required")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	if fileMetadata.Size > config.MaxUploadBytes {
		writeFailure(w, failure.FileTooLarge)
		return
	}
	mediaType, ok := extract.ResolveMediaType(fileMetadata.Header.Get("Content-Type"), fileMetadata.Filename)
	if !ok {
		writeFailure(w, failure.UnsupportedFormat)
		return
	}

	content, err := io.ReadAll(fileReader)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, fileMetadata.Filename, "Could not read file")
		return
	}

	processNewJobData(w, r, newJobData{
		ownerId:   ownerId,
		jobType:   jobModel.JobTypeIngest,
		fileName:  fileMetadata.Filename,
		mediaType: string(mediaType),
		content:   content,
	})
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the state, phase, progress and result (or typed error) of a job.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(r, idString)

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// GetTimelineHandler godoc
// @Summary      Get job timeline
// @Description  Lists the progress events recorded for a job, oldest first.
// @Tags         Job Status
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.TimelineResponse
// @Failure      404  {object}  api.JobResponse  "Job not found"
// @Router       /status/{id}/timeline [get]
func GetTimelineHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	if _, isFound := validateId(r, idString); !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}
	events, err := GetJobTimeline(r.Context(), idString)
	if err != nil {
		logRH.Error("Could not read timeline", "jobId", idString, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, idString, "Could not read timeline")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToTimelineResponse(idString, events))
}

// ListDocumentsHandler godoc
// @Summary      List documents
// @Description  Lists the owner's documents, newest first, with their section, chunk, question and flashcard counts.
// @Tags         Documents
// @Produce      json
// @Param        X-Owner-Id  header  string  true  "Owner id"
// @Success      200  {object}  api.DocumentListResponse
// @Failure      400  {object}  api.JobResponse  "Missing owner"
// @Router       /documents [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	ownerId := ownerFromRequest(r)
	if ownerId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "owner id is required")
		return
	}
	docs, err := ListDocuments(r.Context(), ownerId)
	if err != nil {
		logRH.Error("Could not list documents", "ownerId", ownerId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Could not list documents")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentList(ownerId, docs))
}

// GetDocumentHandler godoc
// @Summary      Get a document
// @Description  Returns the full study tree of one document: ordered sections with chunks and questions, flashcards and learning progress.
// @Tags         Documents
// @Produce      json
// @Param        X-Owner-Id  header  string  true  "Owner id"
// @Param        id          path    string  true  "Document ID"
// @Success      200  {object}  studyModel.DocumentTree
// @Failure      404  {object}  api.JobResponse  "Document not found"
// @Router       /documents/{id} [get]
func GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	ownerId := ownerFromRequest(r)
	documentId := utils.GetChiURLParam(r, "id")
	if ownerId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, documentId, "owner id is required")
		return
	}
	tree, err := GetDocument(r.Context(), ownerId, documentId)
	if errors.Is(err, studyModel.ErrDocumentNotFound) {
		WriteErrorResponse(w, http.StatusNotFound, documentId, "Document not found")
		return
	}
	if err != nil {
		logRH.Error("Could not load document", "documentId", documentId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, documentId, "Could not load document")
		return
	}
	writeJsonResponse(w, http.StatusOK, tree)
}

// AskDocumentHandler godoc
// @Summary      Ask a question about a document
// @Description  Queues a question-answering job over the indexed chunks of one document.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        X-Owner-Id  header  string          true  "Owner id"
// @Param        id          path    string          true  "Document ID"
// @Param        request     body    api.AskRequest  true  "The question"
// @Success      202  {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400  {object}  api.JobResponse      "Invalid request"
// @Failure      404  {object}  api.JobResponse      "Document not found"
// @Failure      503  {object}  api.JobResponse      "Question answering is disabled"
// @Router       /documents/{id}/ask [post]
func AskDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	documentId := utils.GetChiURLParam(r, "id")
	if !QAEnabled() {
		WriteErrorResponse(w, http.StatusServiceUnavailable, documentId, "Question answering is not available")
		return
	}

	var requestData api.AskRequest
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the ask handler reader", "error", err)
		}
	}(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || strings.TrimSpace(requestData.Question) == "" {
		logRH.Warn("Bad Ask Request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, documentId, "Bad Request")
		return
	}

	ownerId := ownerFromRequest(r)
	if ownerId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, documentId, "owner id is required")
		return
	}
	if _, err := GetDocument(r.Context(), ownerId, documentId); err != nil {
		if errors.Is(err, studyModel.ErrDocumentNotFound) {
			WriteErrorResponse(w, http.StatusNotFound, documentId, "Document not found")
			return
		}
		logRH.Error("Could not load document", "documentId", documentId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, documentId, "Could not load document")
		return
	}

	processNewJobData(w, r, newJobData{
		ownerId:    ownerId,
		jobType:    jobModel.JobTypeAsk,
		documentId: documentId,
		question:   strings.TrimSpace(requestData.Question),
	})
}
