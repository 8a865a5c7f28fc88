// Package llm provides language model provider implementations for Swara.
// Groq (the default, ultra-low latency) and Ollama (local) are supported;
// every pipeline stage consumes the narrow Completer interface so the
// service can be swapped or faked freely.
package llm

import (
	"context"
	"io"
	"net/http"
	"time"
)

// MaxErrorBodySize limits how much of an error response body is read.
// Prevents memory exhaustion from malformed error responses.
const MaxErrorBodySize = 1 * 1024 * 1024

// readLimitedBody reads up to maxBytes from r.
func readLimitedBody(r io.Reader, maxBytes int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, maxBytes))
}

// Provider defines the interface for LLM providers.
type Provider interface {
	// Chat sends a conversation and returns the completion.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// Name returns the provider identifier.
	Name() string

	// Available reports whether the provider is configured and reachable.
	Available() bool
}

// ChatRequest represents a chat completion request.
type ChatRequest struct {
	// Model to use (provider-specific). Empty uses the configured default.
	Model string `json:"model"`

	// SystemPrompt sets the model's behavior.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Messages in the conversation.
	Messages []Message `json:"messages"`

	// MaxTokens limits response length.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls randomness (0.0-1.0).
	Temperature float64 `json:"temperature,omitempty"`
}

// Message represents a conversation message.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ChatResponse contains the model's response.
type ChatResponse struct {
	Content          string        `json:"content"`
	Model            string        `json:"model"`
	TokensUsed       int           `json:"tokens_used,omitempty"`
	PromptTokens     int           `json:"prompt_tokens,omitempty"`
	CompletionTokens int           `json:"completion_tokens,omitempty"`
	Duration         time.Duration `json:"duration"`
	FinishReason     string        `json:"finish_reason,omitempty"`
}

// ProviderConfig contains configuration for an LLM provider.
type ProviderConfig struct {
	// Name identifies the provider (groq, ollama).
	Name string

	// Endpoint is the API base URL.
	Endpoint string

	// APIKey authenticates with the provider (unused for Ollama).
	APIKey string

	// Model is the default model identifier.
	Model string

	// MaxTokens is the default response length cap.
	MaxTokens int

	// Temperature is the default sampling temperature.
	Temperature float64

	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// DefaultConfig returns provider defaults by name.
func DefaultConfig(name string) *ProviderConfig {
	switch name {
	case "groq":
		return &ProviderConfig{
			Name:        "groq",
			Endpoint:    "https://api.groq.com/openai/v1",
			Model:       "llama-3.3-70b-versatile",
			MaxTokens:   1024,
			Temperature: 0.3,
			Timeout:     60 * time.Second,
		}
	case "ollama":
		return &ProviderConfig{
			Name:        "ollama",
			Endpoint:    "http://127.0.0.1:11434",
			Model:       "llama3.2",
			MaxTokens:   1024,
			Temperature: 0.3,
			Timeout:     120 * time.Second,
		}
	default:
		return &ProviderConfig{
			Name:        name,
			MaxTokens:   1024,
			Temperature: 0.3,
			Timeout:     60 * time.Second,
		}
	}
}

// baseProvider holds the pieces shared by HTTP-backed providers.
type baseProvider struct {
	config *ProviderConfig
	client *http.Client
}

// newBaseProvider creates a base provider with defaults applied.
func newBaseProvider(cfg *ProviderConfig, providerName string) baseProvider {
	if cfg == nil {
		cfg = DefaultConfig(providerName)
	}

	defaults := DefaultConfig(providerName)
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaults.Endpoint
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaults.MaxTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaults.Temperature
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	cfg.Name = providerName

	return baseProvider{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Name returns the provider identifier.
func (b *baseProvider) Name() string {
	return b.config.Name
}
