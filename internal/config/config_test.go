package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "groq", cfg.LLM.DefaultProvider)
	assert.Contains(t, cfg.LLM.Providers, "groq")
	assert.Contains(t, cfg.LLM.Providers, "ollama")
	assert.True(t, cfg.Assistant.Normalization)
	assert.True(t, cfg.Assistant.LLMFallback)
	assert.NotEmpty(t, cfg.Data.Dir)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromPath_CreatesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	// The default file must have been written.
	_, err = os.Stat(path)
	require.NoError(t, err)

	assert.Equal(t, Default().LLM.DefaultProvider, cfg.LLM.DefaultProvider)
	assert.Equal(t, Default().Server.Addr, cfg.Server.Addr)
}

func TestLoadFromPath_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Default()
	cfg.LLM.DefaultProvider = "ollama"
	cfg.Assistant.Normalization = false
	cfg.Server.Addr = "127.0.0.1:9000"
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "ollama", loaded.LLM.DefaultProvider)
	assert.False(t, loaded.Assistant.Normalization)
	assert.Equal(t, "127.0.0.1:9000", loaded.Server.Addr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid default", func(c *Config) {}, false},
		{"empty provider", func(c *Config) { c.LLM.DefaultProvider = "" }, true},
		{"unknown provider", func(c *Config) { c.LLM.DefaultProvider = "bedrock" }, true},
		{"empty data dir", func(c *Config) { c.Data.Dir = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
