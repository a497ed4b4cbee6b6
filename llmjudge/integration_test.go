package llmjudge

import (
	"context"
	"os"
	"testing"

	language "cloud.google.com/go/language/apiv1"
	"google.golang.org/api/option"

	"github.com/datar-psa/chatmod/gemini"
	"github.com/datar-psa/chatmod/internal/testutils"
)

// TestToxicity_Integration classifies chat messages with Gemini.
// Responses are replayed from testdata; UPDATE_TESTS=true records them with real credentials.
func TestToxicity_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testutils.RequireRecordings(t, "testdata", "toxicity")

	ctx := context.Background()
	llmGen := testutils.NewGeminiGenerator(t, testutils.DefaultGeminiTestConfig("toxicity"), "gemini-2.5-flash")

	tests := []struct {
		name      string
		message   string
		wantToxic bool
	}{
		{name: "friendly greeting", message: "Hey everyone, hope you all had a great weekend!", wantToxic: false},
		{name: "direct insult", message: "You are a worthless idiot and everyone hates you.", wantToxic: true},
		{name: "threat", message: "Say that again and I will find where you live.", wantToxic: true},
		{name: "french small talk", message: "Bonjour à tous, on se retrouve à midi ?", wantToxic: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := Toxicity(llmGen).Classify(ctx, tt.message)
			if err != nil {
				t.Fatalf("Toxicity.Classify() unexpected error = %v", err)
			}
			if verdict.IsToxic != tt.wantToxic {
				t.Errorf("Toxicity.Classify() isToxic = %v, want %v (reason %q)", verdict.IsToxic, tt.wantToxic, verdict.Reason)
			}
			if verdict.Confidence < 0 || verdict.Confidence > 1 {
				t.Errorf("Toxicity.Classify() confidence = %v out of range", verdict.Confidence)
			}
		})
	}
}

// TestModeration_Integration classifies chat messages with Cloud Natural Language ModerateText
func TestModeration_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testutils.RequireRecordings(t, "testdata", "moderation")

	ctx := context.Background()
	httpClient := testutils.NewHypertClient(t, testutils.HypertClientConfig{
		TestDataDir: "testdata",
		SubDir:      "moderation",
		UseADC:      true,
	})

	clientOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if project := os.Getenv("GOOGLE_PROJECT_ID"); project != "" {
		clientOpts = append(clientOpts, option.WithQuotaProject(project))
	}
	langClient, err := language.NewRESTClient(ctx, clientOpts...)
	if err != nil {
		t.Fatalf("failed to create language client: %v", err)
	}
	defer langClient.Close()

	classifier := Moderation(gemini.NewGoogleLanguageProvider(langClient), ModerationOptions{Threshold: 0.5})

	tests := []struct {
		name      string
		message   string
		wantToxic bool
	}{
		{name: "safe content", message: "Thank you for your question. I'm happy to help you with your request.", wantToxic: false},
		{name: "aggressive content", message: "This is absolutely ridiculous! You people are incompetent and useless idiots!", wantToxic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := classifier.Classify(ctx, tt.message)
			if err != nil {
				t.Fatalf("Moderation.Classify() unexpected error = %v", err)
			}
			if verdict.IsToxic != tt.wantToxic {
				t.Errorf("Moderation.Classify() isToxic = %v, want %v (categories %v)", verdict.IsToxic, tt.wantToxic, verdict.Categories)
			}
		})
	}
}
