package googleEmbedding

import (
	"errors"
	"net/http"

	"github.com/akolanti/studypadi/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func getContent(chunks []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(chunks))
	for _, chunk := range chunks {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contentsToSend
}

// doRetry reports a rate limit, from either the REST or the gRPC surface.
func doRetry(err error, log *logger_i.Logger) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		log.Error("Rate limit hit! ", "error", err)
		return true
	}
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		log.Error("Rate limit hit! ", "error", err)
		return true
	}
	return false
}
