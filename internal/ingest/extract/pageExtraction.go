package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/domain/failure"
	"github.com/akolanti/studypadi/pkg/logger_i"
	"github.com/dslipak/pdf"
)

var zipMagic = []byte("PK\x03\x04")

func (e *Extractor) extractPDF(ctx context.Context, data []byte, log *logger_i.Logger) (string, error) {
	reader, err := openPDF(data)
	if err != nil {
		log.Error("failed opening pdf", "error", err)
		return "", classifyPDFError(err)
	}

	numPages := reader.NumPage()
	log.Debug("extractPDF", "number of pages", numPages)

	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if ctx.Err() != nil {
			return "", failure.New(failure.ExtractionFailed, "extraction cancelled", ctx.Err())
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			log.Debug("extractPDF", "null page", i)
			continue
		}

		content, err := e.protectExtract(page)
		if err != nil {
			// a bad page should not sink the whole document
			log.Warn("skipping unreadable page", "page", i, "error", err)
			continue
		}
		if text := strings.Join(strings.Fields(content), " "); text != "" {
			pages = append(pages, text)
		}
	}

	text := strings.TrimSpace(strings.Join(pages, "\n\n"))
	if len([]rune(text)) < config.MinPDFTextLength {
		log.Warn("pdf has no usable text layer", "chars", len(text))
		return "", failure.New(failure.EmptyExtraction, "no text layer found", nil)
	}
	return text, nil
}

// openPDF recovers from parser panics on garbage input.
func openPDF(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r = nil
			err = fmt.Errorf("malformed PDF: parser panic: %v", rec)
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

func classifyPDFError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "encrypted") || strings.Contains(msg, "password") {
		return failure.New(failure.ExtractionFailed, "pdf is password protected", err)
	}
	if strings.Contains(msg, "not a PDF file") || strings.Contains(msg, "malformed PDF") {
		return failure.New(failure.CorruptFile, "not a valid pdf", err)
	}
	return failure.New(failure.ExtractionFailed, "failed to read pdf", err)
}

func (e *Extractor) extractDocx(data []byte, log *logger_i.Logger) (string, error) {
	if !bytes.HasPrefix(data, zipMagic) {
		return "", failure.New(failure.CorruptFile, "not a valid docx container", nil)
	}
	text, err := e.docxToText(data)
	if err != nil {
		log.Error("Error extracting content from docx", "error", err)
		return "", failure.New(failure.ExtractionFailed, "failed to extract docx", err)
	}
	return text, nil
}

func (e *Extractor) protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				resChan <- result{"", fmt.Errorf("page parser panic: %v", rec)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()

	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(e.pageTimeout):
		return "", errors.New("page extraction timeout")
	}
}
