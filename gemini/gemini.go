package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"google.golang.org/genai"

	"github.com/datar-psa/chatmod/api"
)

// ProviderName identifies Gemini in provider errors and governor state
const ProviderName = "gemini"

// Moderation prompts quote abusive text verbatim, so the model's own safety
// filters must not swallow the request before it is judged.
var safetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
}

// Generator wraps a genai.Client to implement the LLMGenerator interface
type Generator struct {
	client    *genai.Client
	modelName string
}

// NewGenerator creates a new Gemini generator
// client: genai.Client from google.golang.org/genai
// modelName: the model to use (e.g., "gemini-2.5-flash")
func NewGenerator(client *genai.Client, modelName string) *Generator {
	return &Generator{
		client:    client,
		modelName: modelName,
	}
}

// Generate implements LLMGenerator.Generate
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		return "", &api.ProviderError{Provider: ProviderName, Message: "genai client is required"}
	}

	content := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: prompt},
		},
	}

	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.modelName,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature:      lo.ToPtr[float32](0),
			ResponseMIMEType: "application/json",
			SafetySettings:   safetySettings,
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", toProviderError(err))
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", &api.ProviderError{
			Provider: ProviderName,
			Message:  fmt.Sprintf("prompt blocked: %s", resp.PromptFeedback.BlockReason),
		}
	}

	if len(resp.Candidates) == 0 {
		return "", &api.ProviderError{Provider: ProviderName, Message: "no candidates returned"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &api.ProviderError{
			Provider: ProviderName,
			Message:  fmt.Sprintf("no parts in response (finish reason %s)", candidate.FinishReason),
		}
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}
	return text.String(), nil
}

// toProviderError keeps the HTTP status of a genai.APIError so callers can tell quota from outage
func toProviderError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	return &api.ProviderError{
		Provider:   ProviderName,
		StatusCode: apiErr.Code,
		Status:     apiErr.Status,
		Message:    apiErr.Message,
	}
}

// Verify that Generator implements LLMGenerator
var _ api.LLMGenerator = (*Generator)(nil)
