package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/domain/failure"
	"github.com/akolanti/studypadi/internal/ingest/extract/extracttest"
)

// countingReader records whether anything tried to read the upload.
type countingReader struct {
	reads int
	inner *bytes.Reader
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.inner.Read(p)
}

func upload(name, mediaType string, data []byte) Upload {
	return Upload{FileName: name, MediaType: mediaType, Size: int64(len(data)), Body: bytes.NewReader(data)}
}

func TestResolveMediaType(t *testing.T) {
	tests := []struct {
		declared string
		name     string
		want     MediaType
		ok       bool
	}{
		{"text/plain", "notes.txt", PlainText, true},
		{"text/plain; charset=utf-8", "notes", PlainText, true},
		{"application/pdf", "scan.bin", PDF, true},
		{string(DOCX), "essay.docx", DOCX, true},
		{"", "Lecture.PDF", PDF, true},
		{"application/octet-stream", "essay.docx", DOCX, true},
		{"image/png", "photo.png", "", false},
		{"", "archive.zip", "", false},
		{"application/msword", "old.doc", "", false},
	}

	for _, tt := range tests {
		got, ok := ResolveMediaType(tt.declared, tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ResolveMediaType(%q, %q) = %q, %v; want %q, %v", tt.declared, tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtract_UnsupportedFormatDoesNotRead(t *testing.T) {
	e := NewExtractor()
	body := &countingReader{inner: bytes.NewReader([]byte("\x89PNG fake image bytes"))}

	_, err := e.Extract(context.Background(), Upload{FileName: "photo.png", MediaType: "image/png", Size: 20, Body: body})

	if !errors.Is(err, failure.ErrUnsupportedFormat) {
		t.Fatalf("expected UnsupportedFormat, got %v", err)
	}
	if body.reads != 0 {
		t.Errorf("content was read %d times before the type was rejected", body.reads)
	}
}

func TestExtract_FileTooLarge(t *testing.T) {
	e := NewExtractor()
	body := &countingReader{inner: bytes.NewReader([]byte("small"))}

	_, err := e.Extract(context.Background(), Upload{FileName: "big.txt", MediaType: "text/plain", Size: config.MaxUploadBytes + 1, Body: body})

	if failure.KindOf(err) != failure.FileTooLarge {
		t.Fatalf("expected FileTooLarge, got %v", err)
	}
	if body.reads != 0 {
		t.Error("oversized upload should be rejected before reading")
	}
}

func TestExtract_PlainTextVerbatim(t *testing.T) {
	words := make([]string, 500)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}
	text := strings.Join(words, " ")

	got, err := NewExtractor().Extract(context.Background(), upload("notes.txt", "text/plain", []byte(text)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != text {
		t.Errorf("plain text was altered: got %d chars, want %d", len(got), len(text))
	}
	if n := len(strings.Fields(got)); n != 500 {
		t.Errorf("expected 500 words, got %d", n)
	}
}

func TestExtract_PlainTextInvalidUTF8(t *testing.T) {
	got, err := NewExtractor().Extract(context.Background(), upload("a.txt", "text/plain", []byte("\xef\xbb\xbfok \xff done")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok � done" {
		t.Errorf("got %q", got)
	}
}

func TestExtract_PDF(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantKind failure.Kind
		contains string
	}{
		{
			name:     "text layer",
			data:     extracttest.BuildPDF(extracttest.TextStream("Photosynthesis converts light energy into chemical energy")),
			contains: "Photosynthesis converts light energy",
		},
		{
			name:     "text layer shorter than threshold",
			data:     extracttest.BuildPDF(extracttest.TextStream("Hi there")),
			wantKind: failure.EmptyExtraction,
		},
		{
			name:     "no text layer",
			data:     extracttest.BuildPDF("0 0 100 100 re f"),
			wantKind: failure.EmptyExtraction,
		},
		{
			name:     "not a pdf container",
			data:     []byte("this is just some text pretending to be a pdf"),
			wantKind: failure.CorruptFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewExtractor().Extract(context.Background(), upload("doc.pdf", "application/pdf", tt.data))

			if tt.wantKind != "" {
				if failure.KindOf(err) != tt.wantKind {
					t.Fatalf("expected %s, got %v", tt.wantKind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("extracted %q, want it to contain %q", got, tt.contains)
			}
		})
	}
}

func TestExtract_Docx(t *testing.T) {
	zipped := append([]byte("PK\x03\x04"), []byte("rest of archive")...)

	tests := []struct {
		name      string
		data      []byte
		converter func([]byte) (string, error)
		wantKind  failure.Kind
		want      string
	}{
		{
			name:      "converter text is returned",
			data:      zipped,
			converter: func(b []byte) (string, error) { return "Running text of the essay", nil },
			want:      "Running text of the essay",
		},
		{
			name:      "not a zip container",
			data:      []byte("plain bytes"),
			converter: func(b []byte) (string, error) { t.Fatal("converter should not run"); return "", nil },
			wantKind:  failure.CorruptFile,
		},
		{
			name:      "converter failure",
			data:      zipped,
			converter: func(b []byte) (string, error) { return "", errors.New("missing word/document.xml") },
			wantKind:  failure.ExtractionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor()
			e.docxToText = tt.converter

			got, err := e.Extract(context.Background(), upload("essay.docx", string(DOCX), tt.data))
			if tt.wantKind != "" {
				if failure.KindOf(err) != tt.wantKind {
					t.Fatalf("expected %s, got %v", tt.wantKind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
