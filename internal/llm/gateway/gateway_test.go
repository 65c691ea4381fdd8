package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/studypadi/internal/domain/failure"
	"github.com/akolanti/studypadi/internal/llm"
)

var testRequest = llm.StructuredRequest{
	System:          "system",
	User:            "user",
	ToolName:        "structure_document",
	ToolDescription: "store it",
	Schema:          map[string]any{"type": "object", "properties": map[string]any{}},
	MaxTokens:       100,
	Temperature:     0.3,
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "test-key", "test-model", srv.Client()), &hits
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestCompleteStructured_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		html     bool
		expected error
	}{
		{"RateLimited", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, false, failure.ErrRateLimited},
		{"QuotaExhausted", http.StatusPaymentRequired, `{"error":{"message":"no credits"}}`, false, failure.ErrQuotaExhausted},
		{"ServerError", http.StatusInternalServerError, `{"error":{"message":"boom"}}`, false, failure.ErrServiceUnavailable},
		{"HtmlOn200", http.StatusOK, "<html><body>proxy page</body></html>", true, failure.ErrMalformedResponse},
		{"NoChoices", http.StatusOK, `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`, false, failure.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.html {
					w.Header().Set("Content-Type", "text/html")
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte(tt.body))
					return
				}
				writeJSON(w, tt.status, tt.body)
			})

			_, err := client.CompleteStructured(context.Background(), testRequest)
			if !errors.Is(err, tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, err)
			}
			if got := atomic.LoadInt32(hits); got != 1 {
				t.Fatalf("expected a single request, got %d", got)
			}
		})
	}
}

func TestCompleteStructured_ToolCall(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}
		writeJSON(w, http.StatusOK, `{"id":"x","object":"chat.completion","created":1,"model":"test-model",
		 "choices":[{"index":0,"finish_reason":"tool_calls","message":{"role":"assistant","content":null,
		 "tool_calls":[{"id":"c1","type":"function","function":{"name":"structure_document","arguments":"{\"title\":\"T\"}"}}]}}]}`)
	})

	raw, err := client.CompleteStructured(context.Background(), testRequest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != `{"title":"T"}` {
		t.Fatalf("unexpected arguments: %q", raw)
	}
}

func TestCompleteStructured_ContentFallback(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":"x","object":"chat.completion","created":1,"model":"test-model",
		 "choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"`+"```json\\n{\\\"title\\\":\\\"T\\\"}\\n```"+`"}}]}`)
	})

	raw, err := client.CompleteStructured(context.Background(), testRequest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != "```json\n{\"title\":\"T\"}\n```" {
		t.Fatalf("unexpected content: %q", raw)
	}
}

func TestCompleteStructured_Timeout(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.CompleteStructured(ctx, testRequest)
	if !errors.Is(err, failure.ErrServiceUnavailable) {
		t.Fatalf("expected ServiceUnavailable, got %v", err)
	}
}

func TestGenerate(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":"x","object":"chat.completion","created":1,"model":"test-model",
		 "choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  an answer \n"}}]}`)
	})

	answer, err := client.Generate(context.Background(), "system", "question")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "an answer" {
		t.Fatalf("unexpected answer: %q", answer)
	}
}
