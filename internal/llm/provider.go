package llm

import "context"

// StructuredRequest asks a model for one JSON object matching Schema, returned through
// a named function/tool call where the backend supports it.
type StructuredRequest struct {
	System          string
	User            string
	ToolName        string
	ToolDescription string
	Schema          map[string]any
	MaxTokens       int64
	Temperature     float64
}

type StructuredCompleter interface {
	// CompleteStructured returns the raw JSON text (tool arguments or message content).
	// Errors are *failure.Error with a structuring kind.
	CompleteStructured(ctx context.Context, req StructuredRequest) (string, error)
}

type Generator interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}

type Provider interface {
	StructuredCompleter
	Generator
}
