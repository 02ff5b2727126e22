package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Sentinel model names recorded when the live provider was not used.
const (
	ModelMock         = "mock"
	ModelMockFallback = "mock-fallback"
)

// Usage reports token consumption for one call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Reply is the parsed result of one provider call. Data holds the first
// JSON object found in the response text, preserved verbatim.
type Reply struct {
	Data      json.RawMessage `json:"data"`
	Text      string          `json:"-"`
	Usage     Usage           `json:"usage"`
	LatencyMs int64           `json:"latency_ms"`
	Model     string          `json:"model"`
}

// Client sends one prompt to a language model. Implementations do not retry;
// failure handling belongs to the orchestrator.
type Client interface {
	Send(ctx context.Context, systemPrompt, userPrompt string, params map[string]any) (*Reply, error)
}

// ExtractJSON locates the substring between the first '{' and the last '}'
// in text and parses it, tolerating leading and trailing wrapper prose
// around the model's JSON payload.
func ExtractJSON(text string) (json.RawMessage, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	candidate := text[start : end+1]

	var probe any
	if err := json.Unmarshal([]byte(candidate), &probe); err != nil {
		return nil, fmt.Errorf("response JSON does not parse: %w", err)
	}
	return json.RawMessage(candidate), nil
}

// floatParam reads a numeric param that may arrive as float64 or int.
func floatParam(params map[string]any, key string) (float64, bool) {
	switch v := params[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
