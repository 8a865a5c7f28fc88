package llm

import (
	"context"
	"fmt"
	"strings"
)

// Completer is the narrow completion capability the pipeline stages consume.
// Implementations must be safe for concurrent use.
type Completer interface {
	// Complete sends a system prompt and a user prompt and returns the raw
	// completion text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Client wraps a Provider as a Completer.
type Client struct {
	provider Provider
}

// NewClient creates a Client backed by the given provider.
func NewClient(provider Provider) *Client {
	return &Client{provider: provider}
}

// Complete implements Completer.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c == nil || c.provider == nil {
		return "", fmt.Errorf("no LLM provider configured")
	}

	resp, err := c.provider.Chat(ctx, &ChatRequest{
		SystemPrompt: systemPrompt,
		Messages: []Message{
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

// Provider returns the underlying provider.
func (c *Client) Provider() Provider {
	return c.provider
}
