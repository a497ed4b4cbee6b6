//go:generate go run go.uber.org/mock/mockgen -source=types.go -destination=../mocks/mock_api.go -package=mocks
package api

import (
	"context"
	"slices"
	"strings"
)

// Method records which tier produced a Verdict
type Method string

const (
	MethodPrimaryRemote   Method = "primary-remote"
	MethodSecondaryRemote Method = "secondary-remote"
	MethodLexicon         Method = "lexicon"
)

// Methods lists every tier in cascade order
var Methods = []Method{MethodPrimaryRemote, MethodSecondaryRemote, MethodLexicon}

// Verdict is the result of classifying one piece of text.
// A Verdict is treated as immutable once produced: holders copy it, never edit it in place.
type Verdict struct {
	IsToxic bool `json:"isToxic"`
	// Confidence is a value between 0 and 1
	Confidence float64 `json:"confidence"`
	// Reason is a human-readable explanation; empty when the tier gives none
	Reason string `json:"reason,omitempty"`
	// Categories such as "hate_speech" or "harassment"; empty for lexicon verdicts
	Categories []string `json:"categories"`
	Method     Method   `json:"method"`
}

// Clone returns a copy that shares no memory with v
func (v Verdict) Clone() Verdict {
	v.Categories = slices.Clone(v.Categories)
	if v.Categories == nil {
		v.Categories = []string{}
	}
	return v
}

// Classifier is one tier of the moderation cascade
type Classifier interface {
	// Classify returns a Verdict for text, or an error if this tier could not produce one.
	// The returned Verdict's Method is ignored; the cascade stamps it.
	Classify(ctx context.Context, text string) (Verdict, error)
}

// LLMGenerator is an interface for generating text using an LLM
// Gemini and OpenAI-compatible implementations are provided in the gemini and openai subpackages
type LLMGenerator interface {
	// Generate generates text based on the provided prompt
	// Returns the generated text or an error
	Generate(ctx context.Context, prompt string) (string, error)
}

// ModerationCategories contains all category names reported by the Cloud Natural Language moderation API
// These are developer-friendly names that map to Google Cloud Natural Language API categories
var ModerationCategories []string = []string{
	"Toxic",
	"Derogatory",
	"Violent",
	"Sexual",
	"Insult",
	"Profanity",
	"DeathHarmTragedy",
	"FirearmsWeapons",
	"PublicSafety",
	"Health",
	"ReligionBelief",
	"IllicitDrugs",
	"WarConflict",
	"Finance",
	"Politics",
	"Legal",
}

// ModerationCategory represents a safety category with confidence score
type ModerationCategory struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// ModerationResult represents the result of content moderation
type ModerationResult struct {
	Categories []ModerationCategory `json:"categories"`
}

// ModerationProvider is an interface for category-scoring moderation services
// A Google Cloud Natural Language implementation is provided in the gemini subpackage
type ModerationProvider interface {
	// Moderate analyzes content for safety and returns moderation results
	Moderate(ctx context.Context, content string) (*ModerationResult, error)
}

// Normalize produces the cache key for text: case-folded and trimmed
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
