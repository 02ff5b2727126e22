package provider

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Gemini implements Client against the Google Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed provider client.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

// Send performs one generation call. Recognized params: "temperature" and
// "max_tokens"; anything else is ignored so role prompt params stay open.
func (g *Gemini) Send(ctx context.Context, systemPrompt, userPrompt string, params map[string]any) (*Reply, error) {
	cfg := &genai.GenerateContentConfig{}
	if systemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	if temp, ok := floatParam(params, "temperature"); ok {
		cfg.Temperature = genai.Ptr(float32(temp))
	}
	if maxTokens, ok := floatParam(params, "max_tokens"); ok {
		cfg.MaxOutputTokens = int32(maxTokens)
	}

	started := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(userPrompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}
	latency := time.Since(started).Milliseconds()

	text := resp.Text()
	data, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	reply := &Reply{
		Data:      data,
		Text:      text,
		LatencyMs: latency,
		Model:     g.model,
	}
	if resp.UsageMetadata != nil {
		reply.Usage = Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return reply, nil
}
