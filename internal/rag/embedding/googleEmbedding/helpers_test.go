package googleEmbedding

import (
	"errors"
	"testing"

	"github.com/akolanti/studypadi/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestDoRetry(t *testing.T) {
	log := logger_i.NewLogger("test")
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"RestRateLimit", genai.APIError{Code: 429}, true},
		{"GrpcExhausted", status.Error(codes.ResourceExhausted, "quota"), true},
		{"RestServerError", genai.APIError{Code: 500}, false},
		{"Plain", errors.New("eof"), false},
	}
	for _, tt := range tests {
		if got := doRetry(tt.err, log); got != tt.want {
			t.Errorf("%s: doRetry = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGetContent(t *testing.T) {
	content := getContent([]string{"a", "b"})
	if len(content) != 2 || content[1].Parts[0].Text != "b" {
		t.Fatalf("unexpected content: %+v", content)
	}
}
