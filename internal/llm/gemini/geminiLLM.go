package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/domain/failure"
	"github.com/akolanti/studypadi/internal/llm"
	"github.com/akolanti/studypadi/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
	logger    *logger_i.Logger
}

var _ llm.Provider = (*llmClient)(nil)

// GetGeminiClient returns nil when the client cannot be built; callers decide the fallback.
func GetGeminiClient(ctx context.Context, apiKey string, modelName string) llm.Provider {
	logger := logger_i.NewLogger("llm_gemini")
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil || c == nil {
		logger.Error("Error creating Gemini client", "error", err)
		return nil
	}
	logger.Info("Gemini client created", "model", modelName)
	return &llmClient{client: c, modelName: modelName, logger: logger}
}

func (c *llmClient) CompleteStructured(ctx context.Context, req llm.StructuredRequest) (string, error) {
	log := c.logger.ForContext(ctx).With("model", c.modelName)

	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.System}}},
		Temperature:       genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens:   int32(req.MaxTokens),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    ToSchema(req.Schema),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(req.User), contentConfig)
	if err != nil {
		mapped := classify(ctx, err)
		log.Error("gemini structuring call failed", "kind", mapped.Kind, "error", err)
		return "", mapped
	}
	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", failure.New(failure.MalformedResponse, "empty gemini response", nil)
	}
	return text, nil
}

func (c *llmClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		Temperature:       genai.Ptr(config.QAAnswerTemperature),
	}
	result, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(userPrompt), contentConfig)
	if err != nil {
		return "", classify(ctx, err)
	}
	return strings.TrimSpace(result.Text()), nil
}

func classify(ctx context.Context, err error) *failure.Error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			return failure.New(failure.RateLimited, "gemini rate limited the request", err)
		case http.StatusPaymentRequired:
			return failure.New(failure.QuotaExhausted, "gemini quota exhausted", err)
		}
		return failure.New(failure.ServiceUnavailable, "gemini returned an error status", err)
	}
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return failure.New(failure.ServiceUnavailable, "gemini request timed out", err)
	}
	return failure.New(failure.ServiceUnavailable, "gemini call failed", err)
}

// ToSchema converts the JSON-schema subset used for tool parameters into a genai schema.
func ToSchema(node map[string]any) *genai.Schema {
	if node == nil {
		return nil
	}
	s := &genai.Schema{}
	if t, ok := node["type"].(string); ok {
		s.Type = genai.Type(strings.ToUpper(t))
	}
	if d, ok := node["description"].(string); ok {
		s.Description = d
	}
	if enum, ok := node["enum"].([]string); ok {
		s.Enum = enum
	}
	if req, ok := node["required"].([]string); ok {
		s.Required = req
	}
	if items, ok := node["items"].(map[string]any); ok {
		s.Items = ToSchema(items)
	}
	if props, ok := node["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, p := range props {
			if child, ok := p.(map[string]any); ok {
				s.Properties[name] = ToSchema(child)
			}
		}
	}
	return s
}
