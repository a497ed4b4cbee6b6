package llmjudge

import "errors"

var (
	// ErrLLMGenerationFailed is returned when LLM generation fails
	ErrLLMGenerationFailed = errors.New("LLM generation failed")
	// ErrUnparseableResponse is returned when a reply holds neither a JSON verdict nor a toxicity keyword
	ErrUnparseableResponse = errors.New("unparseable moderation reply")
	// ErrNoGenerator is returned by a toxicity classifier built without an LLM generator
	ErrNoGenerator = errors.New("LLM generator is required")
	// ErrNoProvider is returned by a moderation classifier built without a provider
	ErrNoProvider = errors.New("moderation provider is required")
)
