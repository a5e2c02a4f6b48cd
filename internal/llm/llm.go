package llm

import (
	"context"
	"errors"
)

// CompletionRequest is a single system/user prompt pair with sampling knobs.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// Client abstracts completion providers.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ErrNotConfigured is returned when no provider credentials are present.
var ErrNotConfigured = errors.New("llm provider not configured")

// PlaceholderClient is used when no provider is wired; every call fails.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	_ = ctx
	_ = req
	return "", ErrNotConfigured
}

var _ Client = PlaceholderClient{}
