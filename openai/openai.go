// Package openai implements api.LLMGenerator against OpenAI-compatible chat completion endpoints.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/datar-psa/chatmod/api"
)

const (
	// ProviderName identifies the OpenAI-compatible backend in provider errors and governor state
	ProviderName = "openai"
	// DefaultEndpoint is the public chat completions URL
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	// DefaultModel is used when no model is configured
	DefaultModel = "gpt-4o-mini"
	// MaxResponseSize bounds how much of a reply body is read
	MaxResponseSize = 1 << 20

	systemPrompt = "You are a strict content moderator. Reply only with a JSON object."
	errorExcerpt = 1024
)

// Generator posts prompts to a chat completions endpoint
type Generator struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Generator
type Option func(*Generator)

// WithEndpoint overrides DefaultEndpoint
func WithEndpoint(endpoint string) Option {
	return func(g *Generator) {
		if endpoint != "" {
			g.endpoint = endpoint
		}
	}
}

// WithModel overrides DefaultModel
func WithModel(model string) Option {
	return func(g *Generator) {
		if model != "" {
			g.model = model
		}
	}
}

// WithHTTPClient replaces http.DefaultClient. Deadlines come from the request context.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Generator) {
		if client != nil {
			g.httpClient = client
		}
	}
}

// NewGenerator creates a generator authenticated with apiKey
func NewGenerator(apiKey string, opts ...Option) *Generator {
	g := &Generator{
		endpoint:   DefaultEndpoint,
		model:      DefaultModel,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// Generate implements LLMGenerator.Generate
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", &api.ProviderError{Provider: ProviderName, Message: "api key is not set"}
	}

	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, errorExcerpt))
		return "", &api.ProviderError{
			Provider:   ProviderName,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    strings.TrimSpace(string(excerpt)),
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, MaxResponseSize)).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", &api.ProviderError{Provider: ProviderName, Message: "no choices returned"}
	}
	return parsed.Choices[0].Message.Content, nil
}

var _ api.LLMGenerator = (*Generator)(nil)
