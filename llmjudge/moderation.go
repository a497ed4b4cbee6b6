package llmjudge

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/datar-psa/chatmod/api"
)

// DefaultModerationCategories are the provider categories that make a chat message toxic
var DefaultModerationCategories = []string{"Toxic", "Derogatory", "Violent", "Sexual", "Insult", "Profanity"}

// ModerationOptions configures the Moderation classifier
type ModerationOptions struct {
	// Threshold is the confidence threshold for flagging content (0.0-1.0)
	Threshold float64
	// Categories to check for moderation (empty = DefaultModerationCategories)
	Categories []string
}

// Moderation returns a classifier backed by a category-scoring moderation provider.
// A message is toxic when any watched category scores above the threshold.
func Moderation(provider api.ModerationProvider, opts ModerationOptions) api.Classifier {
	return &moderationClassifier{
		opts:     opts,
		provider: provider,
	}
}

type moderationClassifier struct {
	opts     ModerationOptions
	provider api.ModerationProvider
}

func (c *moderationClassifier) Classify(ctx context.Context, text string) (api.Verdict, error) {
	if c.provider == nil {
		return api.Verdict{}, ErrNoProvider
	}

	moderationResp, err := c.provider.Moderate(ctx, text)
	if err != nil {
		return api.Verdict{}, fmt.Errorf("failed to moderate content: %w", err)
	}

	threshold := c.opts.Threshold
	if threshold <= 0 {
		threshold = 0.5 // Default threshold
	}
	watched := c.opts.Categories
	if len(watched) == 0 {
		watched = DefaultModerationCategories
	}

	var flagged []string
	maxConfidence := 0.0
	for _, category := range moderationResp.Categories {
		if !slices.Contains(watched, category.Name) {
			continue
		}
		maxConfidence = max(maxConfidence, category.Confidence)
		if category.Confidence > threshold {
			flagged = append(flagged, snakeCase(category.Name))
		}
	}

	verdict := api.Verdict{
		IsToxic:    len(flagged) > 0,
		Categories: []string{},
	}
	if verdict.IsToxic {
		verdict.Confidence = clamp01(maxConfidence)
		verdict.Categories = flagged
		verdict.Reason = "flagged categories: " + strings.Join(flagged, ", ")
	} else {
		// Confidence that the message is clean
		verdict.Confidence = clamp01(1 - maxConfidence)
	}
	return verdict, nil
}

// snakeCase turns "DeathHarmTragedy" into "death_harm_tragedy"
func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
