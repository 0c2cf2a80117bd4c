package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client abstracts the text-generation provider used for resume analysis.
type Client interface {
	Analyze(ctx context.Context, prompt, credential string) (string, error)
}

var (
	// ErrNotConfigured is returned by the placeholder client.
	ErrNotConfigured = errors.New("llm client not configured")
	// ErrMissingCredential is returned before any network I/O when no key is supplied.
	ErrMissingCredential = errors.New("llm credential is required")
	// ErrTransport wraps network failures reaching the provider.
	ErrTransport = errors.New("llm transport failure")
	// ErrMalformedResponse signals a 2xx body without the expected completion text.
	ErrMalformedResponse = errors.New("llm malformed response")
)

// ProviderError is a non-success HTTP response from the provider.
type ProviderError struct {
	StatusCode int
	Type       string
	// Message is the provider's human-readable message; empty when none was sent.
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("llm provider status %d", e.StatusCode)
	}
	return fmt.Sprintf("llm provider status %d: %s", e.StatusCode, e.Message)
}

// PlaceholderClient is used when no provider is wired.
type PlaceholderClient struct{}

// Analyze returns ErrNotConfigured.
func (PlaceholderClient) Analyze(ctx context.Context, prompt, credential string) (string, error) {
	_ = ctx
	_ = prompt
	_ = credential
	return "", ErrNotConfigured
}
