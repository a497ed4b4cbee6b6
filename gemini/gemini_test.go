package gemini

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/datar-psa/chatmod/api"
)

func TestToProviderError(t *testing.T) {
	r := require.New(t)

	wrapped := fmt.Errorf("transport: %w", genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "Quota exceeded"})
	err := toProviderError(wrapped)

	var providerErr *api.ProviderError
	r.True(errors.As(err, &providerErr))
	r.Equal(ProviderName, providerErr.Provider)
	r.Equal(429, providerErr.StatusCode)
	r.Equal("RESOURCE_EXHAUSTED", providerErr.Status)
	r.Equal("Quota exceeded", providerErr.Message)

	other := errors.New("dial tcp: i/o timeout")
	r.Same(other, toProviderError(other))
}

func TestSafetySettingsDisableBlocking(t *testing.T) {
	r := require.New(t)
	r.Len(safetySettings, 4)
	for _, s := range safetySettings {
		r.Equal(genai.HarmBlockThresholdBlockNone, s.Threshold)
	}
}
