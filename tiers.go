package chatmod

import (
	language "cloud.google.com/go/language/apiv1"
	"google.golang.org/genai"

	"github.com/datar-psa/chatmod/api"
	"github.com/datar-psa/chatmod/gemini"
	"github.com/datar-psa/chatmod/llmjudge"
	"github.com/datar-psa/chatmod/openai"
)

// GeminiOptions configures the Google-backed tiers
type GeminiOptions struct {
	genaiClient *genai.Client
	modelName   string
	langClient  *language.Client
	threshold   float64
}

// WithGenaiClient sets the Gemini client
func WithGenaiClient(client *genai.Client) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.genaiClient = client
	}
}

// WithModelName sets the Gemini model
func WithModelName(modelName string) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.modelName = modelName
	}
}

// WithLanguageClient sets the Google Cloud Language client for moderation
func WithLanguageClient(langClient *language.Client) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.langClient = langClient
	}
}

// WithLanguageThreshold sets the category score above which Cloud Language flags a message
func WithLanguageThreshold(threshold float64) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.threshold = threshold
	}
}

// NewGeminiTier returns a classifier that asks Gemini for a JSON verdict.
// Example model: "gemini-2.5-flash". It returns nil without a client and model.
func NewGeminiTier(opts ...func(*GeminiOptions)) api.Classifier {
	options := &GeminiOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.genaiClient == nil || options.modelName == "" {
		return nil
	}
	return llmjudge.Toxicity(gemini.NewGenerator(options.genaiClient, options.modelName))
}

// NewLanguageTier returns a classifier backed by Cloud Natural Language ModerateText.
// It returns nil without a language client.
func NewLanguageTier(opts ...func(*GeminiOptions)) api.Classifier {
	options := &GeminiOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.langClient == nil {
		return nil
	}
	return llmjudge.Moderation(gemini.NewGoogleLanguageProvider(options.langClient), llmjudge.ModerationOptions{
		Threshold: options.threshold,
	})
}

// NewOpenAITier returns a classifier that asks an OpenAI-compatible endpoint for a JSON verdict
func NewOpenAITier(apiKey string, opts ...openai.Option) api.Classifier {
	return llmjudge.Toxicity(openai.NewGenerator(apiKey, opts...))
}
