package chatmod

import (
	"errors"

	"github.com/datar-psa/chatmod/llmjudge"
)

var (
	// ErrUnparseableResponse is returned by a remote tier whose reply holds neither JSON nor a toxicity keyword
	ErrUnparseableResponse = llmjudge.ErrUnparseableResponse
	// ErrLLMGenerationFailed is returned when a remote tier's generator fails
	ErrLLMGenerationFailed = llmjudge.ErrLLMGenerationFailed
	// ErrMissingCredentials is returned when a configured provider lacks its credentials
	ErrMissingCredentials = errors.New("provider credentials are missing")
)
