package api

import "fmt"

// ProviderError describes a failed call to a remote provider.
// StatusCode is the HTTP status when one was received, 0 otherwise.
type ProviderError struct {
	Provider   string
	StatusCode int
	Status     string
	Message    string
}

func (e *ProviderError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Status != "":
		return fmt.Sprintf("%s error (HTTP %d %s): %s", e.Provider, e.StatusCode, e.Status, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s error (HTTP %d): %s", e.Provider, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s error: %s", e.Provider, e.Message)
	}
}
