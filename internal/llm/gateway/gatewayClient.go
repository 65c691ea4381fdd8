package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/domain/failure"
	"github.com/akolanti/studypadi/internal/llm"
	"github.com/akolanti/studypadi/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// Client talks to an OpenAI-compatible chat-completions gateway.
type Client struct {
	client openai.Client
	model  string
	logger *logger_i.Logger
}

var _ llm.Provider = (*Client)(nil)

func NewClient(baseURL string, apiKey string, model string, httpClient *http.Client) *Client {
	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		//retries are the caller's decision, 429 included
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &Client{
		client: openai.NewClient(opts...),
		model:  model,
		logger: logger_i.NewLogger("AI Gateway"),
	}
}

func (c *Client) CompleteStructured(ctx context.Context, req llm.StructuredRequest) (string, error) {
	log := c.logger.ForContext(ctx).With("model", c.model, "tool", req.ToolName)

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Tools: []openai.ChatCompletionToolParam{{
			Function: shared.FunctionDefinitionParam{
				Name:        req.ToolName,
				Description: openai.String(req.ToolDescription),
				Parameters:  shared.FunctionParameters(req.Schema),
			},
		}},
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{
			OfChatCompletionNamedToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
				Function: openai.ChatCompletionNamedToolChoiceFunctionParam{Name: req.ToolName},
			},
		},
		MaxTokens:   openai.Int(req.MaxTokens),
		Temperature: openai.Float(req.Temperature),
	}

	completion, err := c.create(ctx, params, log)
	if err != nil {
		return "", err
	}

	msg := completion.Choices[0].Message
	for _, call := range msg.ToolCalls {
		if call.Function.Name == req.ToolName && strings.TrimSpace(call.Function.Arguments) != "" {
			return call.Function.Arguments, nil
		}
	}
	if strings.TrimSpace(msg.Content) != "" {
		log.Debug("model answered without a tool call, using message content")
		return msg.Content, nil
	}
	return "", failure.New(failure.MalformedResponse, "response carried neither a tool call nor content", nil)
}

func (c *Client) Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	log := c.logger.ForContext(ctx).With("model", c.model)

	completion, err := c.create(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(float64(config.QAAnswerTemperature)),
	}, log)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func (c *Client) create(ctx context.Context, params openai.ChatCompletionNewParams, log *logger_i.Logger) (*openai.ChatCompletion, error) {
	var httpResp *http.Response
	completion, err := c.client.Chat.Completions.New(ctx, params, option.WithResponseInto(&httpResp))
	if err != nil {
		mapped := classify(ctx, err, httpResp)
		log.Error("gateway call failed", "kind", mapped.Kind, "error", err)
		return nil, mapped
	}
	if completion == nil || len(completion.Choices) == 0 {
		return nil, failure.New(failure.MalformedResponse, "response had no choices", nil)
	}
	return completion, nil
}

// classify maps a failed call onto the structuring error kinds.
func classify(ctx context.Context, err error, httpResp *http.Response) *failure.Error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return fromStatus(apiErr.StatusCode, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return failure.New(failure.ServiceUnavailable, "AI request timed out", err)
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || strings.Contains(err.Error(), "content-type") {
		return failure.New(failure.MalformedResponse, "unparsable response body", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return failure.New(failure.ServiceUnavailable, "AI gateway unreachable", err)
	}
	if httpResp != nil && httpResp.StatusCode >= 200 && httpResp.StatusCode < 300 {
		return failure.New(failure.MalformedResponse, "unparsable response body", err)
	}
	return failure.New(failure.ServiceUnavailable, "AI gateway call failed", err)
}

func fromStatus(status int, err error) *failure.Error {
	switch {
	case status == http.StatusTooManyRequests:
		return failure.New(failure.RateLimited, "AI gateway rate limited the request", err)
	case status == http.StatusPaymentRequired:
		return failure.New(failure.QuotaExhausted, "AI credits exhausted", err)
	case status >= 200 && status < 300:
		return failure.New(failure.MalformedResponse, "unparsable response body", err)
	default:
		return failure.New(failure.ServiceUnavailable, "AI gateway returned an error status", err)
	}
}
