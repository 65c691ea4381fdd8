package extract

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/domain/failure"
	"github.com/akolanti/studypadi/pkg/logger_i"
	"github.com/lu4p/cat"
)

type MediaType string

const (
	PlainText MediaType = "text/plain"
	PDF       MediaType = "application/pdf"
	DOCX      MediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var extensionTypes = map[string]MediaType{
	".txt":  PlainText,
	".pdf":  PDF,
	".docx": DOCX,
}

// Upload is one file handed to the pipeline. Body is only read once the type is accepted.
type Upload struct {
	FileName  string
	MediaType string
	Size      int64
	Body      io.Reader
}

type TextExtractor interface {
	Extract(ctx context.Context, upload Upload) (string, error)
}

type Extractor struct {
	logger      *logger_i.Logger
	docxToText  func([]byte) (string, error)
	pageTimeout time.Duration
	maxBytes    int64
}

func NewExtractor() *Extractor {
	return &Extractor{
		logger:      logger_i.NewLogger("Text Extractor"),
		docxToText:  cat.FromBytes,
		pageTimeout: config.PDFPageTimeout,
		maxBytes:    config.MaxUploadBytes,
	}
}

// ResolveMediaType prefers the declared type and falls back to the extension
// when the declared one is missing or generic.
func ResolveMediaType(declared string, fileName string) (MediaType, bool) {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	switch MediaType(declared) {
	case PlainText, PDF, DOCX:
		return MediaType(declared), true
	case "", "application/octet-stream":
		mt, ok := extensionTypes[strings.ToLower(filepath.Ext(fileName))]
		return mt, ok
	}
	return "", false
}

func (e *Extractor) Extract(ctx context.Context, upload Upload) (string, error) {
	log := e.logger.ForContext(ctx).With("file", upload.FileName)

	mediaType, ok := ResolveMediaType(upload.MediaType, upload.FileName)
	if !ok {
		log.Warn("rejected upload type", "mediaType", upload.MediaType)
		return "", failure.Errorf(failure.UnsupportedFormat, "unsupported file type %q", upload.MediaType)
	}
	if upload.Size > e.maxBytes {
		return "", failure.Errorf(failure.FileTooLarge, "file is %d bytes", upload.Size)
	}
	if upload.Body == nil {
		return "", failure.New(failure.ExtractionFailed, "empty upload body", nil)
	}

	data, err := io.ReadAll(io.LimitReader(upload.Body, e.maxBytes+1))
	if err != nil {
		return "", failure.New(failure.ExtractionFailed, "could not read upload", err)
	}
	if int64(len(data)) > e.maxBytes {
		return "", failure.Errorf(failure.FileTooLarge, "file exceeds %d bytes", e.maxBytes)
	}

	log.Debug("extracting text", "mediaType", mediaType, "bytes", len(data))
	switch mediaType {
	case PDF:
		return e.extractPDF(ctx, data, log)
	case DOCX:
		return e.extractDocx(data, log)
	default:
		return decodePlainText(data), nil
	}
}

func decodePlainText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	return strings.ToValidUTF8(string(data), "�")
}
