package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datar-psa/chatmod/api"
)

func TestGenerator_Generate(t *testing.T) {
	r := require.New(t)
	a := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		a.Equal(http.MethodPost, req.Method)
		a.Equal("Bearer secret", req.Header.Get("Authorization"))

		var body chatRequest
		a.NoError(json.NewDecoder(req.Body).Decode(&body))
		a.Equal("test-model", body.Model)
		a.Equal("json_object", body.ResponseFormat.Type)
		a.Zero(body.Temperature)
		a.Len(body.Messages, 2)
		a.Equal("user", body.Messages[1].Role)
		a.Equal("is this toxic?", body.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"isToxic\": false}"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	g := NewGenerator("secret", WithEndpoint(server.URL), WithModel("test-model"), WithHTTPClient(server.Client()))
	reply, err := g.Generate(context.Background(), "is this toxic?")

	r.NoError(err)
	r.Equal(`{"isToxic": false}`, reply)
}

func TestGenerator_ErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"error":{"message":"Rate limit reached"}}`},
		{name: "forbidden", status: http.StatusForbidden, body: `{"error":{"message":"project disabled"}}`},
		{name: "server error", status: http.StatusBadGateway, body: "bad gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewGenerator("secret", WithEndpoint(server.URL)).Generate(context.Background(), "hi")

			var providerErr *api.ProviderError
			require.True(t, errors.As(err, &providerErr), "error = %v", err)
			require.Equal(t, tt.status, providerErr.StatusCode)
			require.Equal(t, tt.body, providerErr.Message)
		})
	}
}

func TestGenerator_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := NewGenerator("secret", WithEndpoint(server.URL)).Generate(context.Background(), "hi")
	require.Error(t, err)
}

func TestGenerator_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := NewGenerator("secret", WithEndpoint(server.URL)).Generate(context.Background(), "hi")
	var providerErr *api.ProviderError
	require.ErrorAs(t, err, &providerErr)
}

func TestGenerator_MissingKey(t *testing.T) {
	_, err := NewGenerator("").Generate(context.Background(), "hi")
	var providerErr *api.ProviderError
	require.ErrorAs(t, err, &providerErr)
}

func TestGenerator_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		<-req.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGenerator("secret", WithEndpoint(server.URL)).Generate(ctx, "hi")
	require.ErrorIs(t, err, context.Canceled)
}
