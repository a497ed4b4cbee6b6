package gemini

import (
	"context"
	"fmt"
	"net/http"

	language "cloud.google.com/go/language/apiv1"
	languagepb "cloud.google.com/go/language/apiv1/languagepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/datar-psa/chatmod/api"
)

// LanguageProviderName identifies Cloud Natural Language in provider errors and governor state
const LanguageProviderName = "cloud-language"

// GoogleLanguageProvider implements ModerationProvider using Google Cloud Natural Language API client
type GoogleLanguageProvider struct {
	client *language.Client
}

// NewGoogleLanguageProvider creates a new provider using a preconfigured *language.Client (auth handled by caller)
func NewGoogleLanguageProvider(client *language.Client) *GoogleLanguageProvider {
	return &GoogleLanguageProvider{client: client}
}

// Moderate analyzes content for safety using Google Cloud Natural Language API
func (p *GoogleLanguageProvider) Moderate(ctx context.Context, content string) (*api.ModerationResult, error) {
	if p.client == nil {
		return nil, &api.ProviderError{Provider: LanguageProviderName, Message: "language client is required"}
	}

	req := &languagepb.ModerateTextRequest{
		Document: &languagepb.Document{
			Type: languagepb.Document_PLAIN_TEXT,
			Source: &languagepb.Document_Content{
				Content: content,
			},
		},
	}

	resp, err := p.client.ModerateText(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("moderate text failed: %w", statusToProviderError(err))
	}

	categories := make([]api.ModerationCategory, 0, len(resp.ModerationCategories))
	for _, c := range resp.ModerationCategories {
		categories = append(categories, api.ModerationCategory{
			Name:       mapCategoryName(c.Name),
			Confidence: float64(c.Confidence),
		})
	}

	return &api.ModerationResult{Categories: categories}, nil
}

// statusToProviderError translates the gRPC status codes that matter for quota handling into HTTP terms
func statusToProviderError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	var code int
	switch st.Code() {
	case codes.ResourceExhausted:
		code = http.StatusTooManyRequests
	case codes.PermissionDenied:
		code = http.StatusForbidden
	case codes.Unauthenticated:
		code = http.StatusUnauthorized
	case codes.Unavailable:
		code = http.StatusServiceUnavailable
	default:
		return err
	}
	return &api.ProviderError{
		Provider:   LanguageProviderName,
		StatusCode: code,
		Status:     st.Code().String(),
		Message:    st.Message(),
	}
}

// mapCategoryName maps Google Cloud Natural Language API category names to developer-friendly names
func mapCategoryName(googleCategory string) string {
	switch googleCategory {
	case "Death, Harm & Tragedy":
		return "DeathHarmTragedy"
	case "Firearms & Weapons":
		return "FirearmsWeapons"
	case "Public Safety":
		return "PublicSafety"
	case "Religion & Belief":
		return "ReligionBelief"
	case "Illicit Drugs":
		return "IllicitDrugs"
	case "War & Conflict":
		return "WarConflict"
	default:
		// Single-word categories already match
		return googleCategory
	}
}

var _ api.ModerationProvider = (*GoogleLanguageProvider)(nil)
