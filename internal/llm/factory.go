package llm

import (
	"fmt"
	"os"

	"github.com/swaralabs/swara/internal/config"
)

// NewProvider creates an LLM provider based on configuration.
func NewProvider(cfg *config.Config) (Provider, error) {
	providerName := cfg.LLM.DefaultProvider
	if providerName == "" {
		providerName = "groq"
	}

	providerCfg, exists := cfg.LLM.Providers[providerName]
	if !exists {
		return nil, fmt.Errorf("provider %q not found in configuration", providerName)
	}

	apiKey := providerCfg.APIKey
	if apiKey == "" {
		apiKey = apiKeyFromEnv(providerName)
	}

	llmCfg := &ProviderConfig{
		Name:     providerName,
		Endpoint: providerCfg.Endpoint,
		APIKey:   apiKey,
		Model:    providerCfg.Model,
	}

	return NewProviderByName(providerName, llmCfg)
}

// NewProviderByName creates a provider by its registered name.
func NewProviderByName(name string, cfg *ProviderConfig) (Provider, error) {
	switch name {
	case "groq":
		return NewGroqProvider(cfg), nil
	case "ollama":
		return NewOllamaProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
}

// apiKeyFromEnv retrieves the API key from standard environment variables.
func apiKeyFromEnv(providerName string) string {
	envVars := map[string]string{
		"groq": "GROQ_API_KEY",
	}
	if envVar, ok := envVars[providerName]; ok {
		return os.Getenv(envVar)
	}
	return ""
}
