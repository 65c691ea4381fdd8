package failure

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	UnsupportedFormat  Kind = "UnsupportedFormat"
	FileTooLarge       Kind = "FileTooLarge"
	EmptyExtraction    Kind = "EmptyExtraction"
	CorruptFile        Kind = "CorruptFile"
	ExtractionFailed   Kind = "ExtractionFailed"
	TooLittleContent   Kind = "TooLittleContent"
	RateLimited        Kind = "RateLimited"
	QuotaExhausted     Kind = "QuotaExhausted"
	MalformedResponse  Kind = "MalformedResponse"
	ServiceUnavailable Kind = "ServiceUnavailable"
	PersistenceFailed  Kind = "PersistenceFailed"
)

// Sentinels for errors.Is; Error.Is matches on Kind only.
var (
	ErrUnsupportedFormat  = &Error{Kind: UnsupportedFormat}
	ErrFileTooLarge       = &Error{Kind: FileTooLarge}
	ErrEmptyExtraction    = &Error{Kind: EmptyExtraction}
	ErrCorruptFile        = &Error{Kind: CorruptFile}
	ErrExtractionFailed   = &Error{Kind: ExtractionFailed}
	ErrTooLittleContent   = &Error{Kind: TooLittleContent}
	ErrRateLimited        = &Error{Kind: RateLimited}
	ErrQuotaExhausted     = &Error{Kind: QuotaExhausted}
	ErrMalformedResponse  = &Error{Kind: MalformedResponse}
	ErrServiceUnavailable = &Error{Kind: ServiceUnavailable}
	ErrPersistenceFailed  = &Error{Kind: PersistenceFailed}
)

type Error struct {
	Kind    Kind
	Phase   string
	Message string
	Err     error
}

func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// WithPhase returns a copy tagged with the pipeline phase it surfaced in.
func (e *Error) WithPhase(phase string) *Error {
	c := *e
	c.Phase = phase
	return &c
}

// KindOf reports the failure kind carried by err, or "" for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// As returns err as a *Error, wrapping foreign errors as fallback.
func As(err error, fallback Kind) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return New(fallback, "", err)
}

func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

type Presentation struct {
	Title    string
	Message  string
	Code     int
	CanRetry bool
}

var presentations = map[Kind]Presentation{
	UnsupportedFormat:  {"Invalid file type", "Please upload a PDF, DOCX, or TXT file.", http.StatusUnsupportedMediaType, false},
	FileTooLarge:       {"File too large", "Please upload a file smaller than 10MB.", http.StatusRequestEntityTooLarge, false},
	EmptyExtraction:    {"No text found", "No text could be extracted from this file. It may be a scanned or image-based PDF. Please try a text-based PDF or convert it to a DOCX/TXT file first.", http.StatusUnprocessableEntity, false},
	CorruptFile:        {"Unreadable file", "This file appears to be corrupted or is not a valid document. Please try a different file.", http.StatusUnprocessableEntity, false},
	ExtractionFailed:   {"Could not read file", "Failed to read the document. Please try uploading again or use a DOCX/TXT file instead.", http.StatusUnprocessableEntity, true},
	TooLittleContent:   {"Not enough content", "Document text is too short to analyze.", http.StatusUnprocessableEntity, false},
	RateLimited:        {"Too many requests", "Rate limit exceeded. Please try again in a moment.", http.StatusTooManyRequests, true},
	QuotaExhausted:     {"AI unavailable", "AI credits exhausted. Please try again later.", http.StatusPaymentRequired, true},
	MalformedResponse:  {"Analysis failed", "AI returned an invalid format. Please try again.", http.StatusBadGateway, true},
	ServiceUnavailable: {"AI unavailable", "The AI service is unavailable right now. Please try again later.", http.StatusServiceUnavailable, true},
	PersistenceFailed:  {"Save failed", "Failed to save document. Please try again.", http.StatusInternalServerError, true},
}

// Present maps a kind to what the learner sees. Unknown kinds read as an internal error.
func Present(kind Kind) Presentation {
	if p, ok := presentations[kind]; ok {
		return p
	}
	return Presentation{"Something went wrong", "Internal Server Error", http.StatusInternalServerError, true}
}
