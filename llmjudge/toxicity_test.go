package llmjudge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/datar-psa/chatmod/api"
	"github.com/datar-psa/chatmod/mocks"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     api.Verdict
		wantErr  error
	}{
		{
			name:     "strict JSON",
			response: `{"isToxic": true, "confidence": 0.92, "reason": "direct insult", "categories": ["insult", "harassment"]}`,
			want:     api.Verdict{IsToxic: true, Confidence: 0.92, Reason: "direct insult", Categories: []string{"insult", "harassment"}},
		},
		{
			name:     "JSON wrapped in prose and code fence",
			response: "Sure! Here is my assessment:\n```json\n{\"isToxic\": false, \"confidence\": 0.1, \"reason\": \"friendly {greeting}\", \"categories\": []}\n```\nLet me know.",
			want:     api.Verdict{IsToxic: false, Confidence: 0.1, Reason: "friendly {greeting}", Categories: []string{}},
		},
		{
			name:     "missing fields take defaults",
			response: `{"isToxic": true}`,
			want:     api.Verdict{IsToxic: true, Confidence: DefaultConfidence, Categories: []string{}},
		},
		{
			name:     "confidence is clamped and categories cleaned",
			response: `{"isToxic": true, "confidence": 7, "categories": ["insult", " insult ", ""]}`,
			want:     api.Verdict{IsToxic: true, Confidence: 1, Categories: []string{"insult"}},
		},
		{
			name:     "first object without isToxic is skipped",
			response: `context {"note": "ignore me"} verdict {"isToxic": false, "confidence": 0.8}`,
			want:     api.Verdict{IsToxic: false, Confidence: 0.8, Categories: []string{}},
		},
		{
			name:     "no JSON but toxic keyword",
			response: "This message is toxic, it insults the reader.",
			want:     api.Verdict{IsToxic: true, Confidence: KeywordConfidence, Reason: "inferred from unstructured reply", Categories: []string{}},
		},
		{
			name:     "broken JSON falls back to keywords",
			response: `{"isToxic": yes, "confidence": }`,
			want:     api.Verdict{IsToxic: true, Confidence: KeywordConfidence, Reason: "inferred from unstructured reply", Categories: []string{}},
		},
		{
			// The field name itself contains "toxic", so a cut-off reply reads as toxic
			name:     "truncated JSON matches its own field name",
			response: `{"isToxic": false, "confidence": 0.95, "reason": "friendly`,
			want:     api.Verdict{IsToxic: true, Confidence: KeywordConfidence, Reason: "inferred from unstructured reply", Categories: []string{}},
		},
		{
			name:     "no JSON and no keyword",
			response: "I cannot help with that request.",
			wantErr:  ErrUnparseableResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVerdict(tt.response)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseVerdict() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVerdict() unexpected error = %v", err)
			}
			if got.IsToxic != tt.want.IsToxic || got.Confidence != tt.want.Confidence || got.Reason != tt.want.Reason {
				t.Errorf("ParseVerdict() = %+v, want %+v", got, tt.want)
			}
			if got.Categories == nil {
				t.Error("ParseVerdict() categories must not be nil")
			}
			if strings.Join(got.Categories, ",") != strings.Join(tt.want.Categories, ",") {
				t.Errorf("ParseVerdict() categories = %v, want %v", got.Categories, tt.want.Categories)
			}
		})
	}
}

func TestToxicity_Classify(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	llm := mocks.NewMockLLMGenerator(ctrl)

	llm.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, prompt string) (string, error) {
			if !strings.Contains(prompt, "[BEGIN MESSAGE]\nyou idiot\n[END MESSAGE]") {
				t.Errorf("prompt does not embed the message: %s", prompt)
			}
			if !strings.Contains(prompt, "false positives are preferred over false negatives") {
				t.Error("prompt does not state the safety bias")
			}
			return `{"isToxic": true, "confidence": 0.9, "reason": "insult", "categories": ["insult"]}`, nil
		})

	verdict, err := Toxicity(llm).Classify(ctx, "you idiot")
	if err != nil {
		t.Fatalf("Toxicity.Classify() unexpected error = %v", err)
	}
	if !verdict.IsToxic || verdict.Confidence != 0.9 {
		t.Errorf("Toxicity.Classify() = %+v", verdict)
	}
}

func TestToxicity_GenerationErrorKeepsCause(t *testing.T) {
	ctrl := gomock.NewController(t)
	llm := mocks.NewMockLLMGenerator(ctrl)
	cause := &api.ProviderError{Provider: "gemini", StatusCode: 429, Message: "quota"}

	llm.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", cause)

	_, err := Toxicity(llm).Classify(context.Background(), "hello")

	if !errors.Is(err, ErrLLMGenerationFailed) {
		t.Errorf("error = %v, want ErrLLMGenerationFailed", err)
	}
	var providerErr *api.ProviderError
	if !errors.As(err, &providerErr) || providerErr.StatusCode != 429 {
		t.Errorf("error = %v, want wrapped ProviderError", err)
	}
}

func TestToxicity_NoGenerator(t *testing.T) {
	_, err := Toxicity(nil).Classify(context.Background(), "hello")
	if !errors.Is(err, ErrNoGenerator) {
		t.Errorf("error = %v, want ErrNoGenerator", err)
	}
}
